package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_ConsumesBurst(t *testing.T) {
	l := NewTokenBucket(3, time.Hour)

	assert.True(t, l.Allow("client"))
	assert.True(t, l.Allow("client"))
	assert.True(t, l.Allow("client"))
	assert.False(t, l.Allow("client"))
}

func TestTokenBucket_KeysAreIndependent(t *testing.T) {
	l := NewTokenBucket(1, time.Hour)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestTokenBucket_Refills(t *testing.T) {
	l := NewTokenBucket(1, 10*time.Millisecond)

	assert.True(t, l.Allow("client"))
	assert.False(t, l.Allow("client"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, l.Allow("client"))
}

func TestTokenBucket_Reset(t *testing.T) {
	l := NewTokenBucket(1, time.Hour)

	assert.True(t, l.Allow("client"))
	assert.False(t, l.Allow("client"))

	l.Reset("client")
	assert.True(t, l.Allow("client"))
}
