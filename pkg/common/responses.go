package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "planner-backend/pkg/errors"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries error details in a response.
type ErrorInfo struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON writes data inside the response envelope.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError writes an error inside the response envelope, mapping
// the status from the error's classification.
func RespondError(w http.ResponseWriter, err error) {
	info := &ErrorInfo{
		Type:    string(pkgerrors.TypeOf(err)),
		Message: err.Error(),
	}
	var appErr *pkgerrors.AppError
	if e, ok := err.(*pkgerrors.AppError); ok {
		appErr = e
	}
	if appErr != nil {
		info.Message = appErr.Message
		info.Details = appErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(pkgerrors.HTTPStatusOf(err))
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: info})
}

// RespondNoContent writes an empty success response.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
