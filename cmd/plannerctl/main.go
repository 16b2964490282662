// plannerctl inspects and migrates the locally stored research graph
// without running the API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"planner-backend/domain/core/aggregates"
	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/persistence"
	"planner-backend/infrastructure/persistence/localstore"
)

var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	subtle = color.New(color.Faint)
)

var dataPath string

var rootCmd = &cobra.Command{
	Use:           "plannerctl",
	Short:         "Inspect and migrate the local research planner graph",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a summary of the stored graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		data, err := repo.Load(context.Background())
		if err != nil {
			return err
		}
		if data == nil {
			subtle.Println("no graph stored")
			return nil
		}

		obsolete := 0
		scheduled := 0
		for _, n := range data.Nodes {
			if n.IsObsolete {
				obsolete++
			}
			if n.Day != nil {
				scheduled++
			}
		}
		fmt.Printf("nodes:     %d (%d obsolete, %d scheduled)\n", len(data.Nodes), obsolete, scheduled)
		fmt.Printf("edges:     %d\n", len(data.Edges))
		fmt.Printf("expanded:  %d\n", len(data.ExpandedNodes))
		if data.TimelineActive && data.TimelineStartDate != nil {
			fmt.Printf("timeline:  active from %s\n", *data.TimelineStartDate)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the stored graph to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		data, err := repo.Load(context.Background())
		if err != nil {
			return err
		}
		if data == nil {
			data = &aggregates.GraphData{}
		}
		if err := repo.ExportFile(args[0], *data); err != nil {
			return err
		}
		good.Printf("exported %d nodes and %d edges to %s\n", len(data.Nodes), len(data.Edges), args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored graph with a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		data, err := repo.ImportFile(args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("%s is missing or not a valid graph file", args[0])
		}
		if err := repo.Save(context.Background(), *data); err != nil {
			return err
		}
		good.Printf("imported %d nodes and %d edges from %s\n", len(data.Nodes), len(data.Edges), args[0])
		return nil
	},
}

func openRepo() (*persistence.LocalGraphRepository, func(), error) {
	path := dataPath
	if path == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		path = cfg.DataPath
	}

	store, err := localstore.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store at %s: %w", path, err)
	}
	return persistence.NewLocalGraphRepository(store, zap.NewNop()), func() { store.Close() }, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the planner database (defaults to the configured data path)")
	rootCmd.AddCommand(showCmd, exportCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "plannerctl: %v\n", err)
		os.Exit(1)
	}
}
