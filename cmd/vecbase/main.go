// Command vecbase is a CLI bootstrap over pkg/core.Service: the HTTP
// surface described in the design docs is a sibling collaborator this
// binary stands in for during local development and manual testing.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vecbase/vecbase/pkg/core"
)

var (
	verbose bool
	svc     *core.Service
)

var rootCmd = &cobra.Command{
	Use:   "vecbase",
	Short: "CLI for the vecbase in-process vector database",
	Long:  `A command-line interface over libraries, chunks, indices, and kNN queries.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := core.DefaultConfig()
		if verbose {
			cfg.Logger = core.NewStdLogger(core.LevelDebug)
		}
		svc = core.New(cfg)
	},
}

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Manage libraries",
}

var libCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := svc.CreateLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(lib)
	},
}

var libGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		lib, err := svc.GetLibrary(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(lib)
	},
}

var libListCmd = &cobra.Command{
	Use:   "list",
	Short: "List libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		libs, err := svc.ListLibraries(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(libs)
	},
}

var libUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Rename a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		lib, err := svc.UpdateLibrary(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		return printJSON(lib)
	},
}

var libDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a library and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		return svc.DeleteLibrary(cmd.Context(), id)
	},
}

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Manage chunks",
}

var chunkAddCmd = &cobra.Command{
	Use:   "add <lib-id> <text>",
	Short: "Add a chunk to a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		libID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		chunk, err := svc.AddChunk(cmd.Context(), libID, args[1])
		if err != nil {
			return err
		}
		return printJSON(chunk)
	},
}

var chunkGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid chunk id: %w", err)
		}
		chunk, err := svc.GetChunk(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(chunk)
	},
}

var chunkUpdateCmd = &cobra.Command{
	Use:   "update <id> <text>",
	Short: "Replace a chunk's text and recompute its embedding",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid chunk id: %w", err)
		}
		chunk, err := svc.UpdateChunk(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		return printJSON(chunk)
	},
}

var chunkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid chunk id: %w", err)
		}
		return svc.DeleteChunk(cmd.Context(), id)
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage library indices",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build <lib-id>",
	Short: "Build an index for a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		libID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		algo, _ := cmd.Flags().GetString("algo")
		if err := svc.BuildIndex(cmd.Context(), libID, core.Algo(algo)); err != nil {
			return err
		}
		fmt.Printf("index built: library=%s algo=%s\n", libID, algo)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <lib-id> <v1,v2,...>",
	Short: "Run a kNN query against a library's installed index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		libID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid library id: %w", err)
		}
		vec, err := parseVector(args[1])
		if err != nil {
			return err
		}
		k, _ := cmd.Flags().GetInt("k")
		results, err := svc.Query(cmd.Context(), libID, vec, k)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	vec := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		vec = append(vec, v)
	}
	return vec, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	indexBuildCmd.Flags().String("algo", string(core.AlgoLinear), "index algorithm: linear|kd|lsh")
	queryCmd.Flags().Int("k", 5, "number of results to return")

	libCmd.AddCommand(libCreateCmd, libGetCmd, libListCmd, libUpdateCmd, libDeleteCmd)
	chunkCmd.AddCommand(chunkAddCmd, chunkGetCmd, chunkUpdateCmd, chunkDeleteCmd)
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(libCmd, chunkCmd, indexCmd, queryCmd)

	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
