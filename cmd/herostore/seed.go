package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/herostore"
)

var seedCmd = &cobra.Command{
	Use:   "seed [flags] <file1> [file2] ...",
	Short: "Load heroes from YAML or JSON files",
	Long: `Create heroes from one or more files through the same path the
HTTP API uses, so duplicate names are rejected and placeholder ids (0 or -1)
get a generated id.

Each file holds a list of heroes:

  - id: 1
    name: Thor
  - name: Loki

JSON arrays are accepted as well. Use - to read from stdin.

Examples:
  # Seed from a file
  herostore seed heroes.yaml

  # Seed from stdin
  cat heroes.json | herostore seed -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeed,
}

var seedQuiet bool

func init() {
	seedCmd.Flags().BoolVarP(&seedQuiet, "quiet", "q", false, "suppress per-hero output")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var heroes []herostore.Hero
	for _, arg := range args {
		loaded, err := readHeroFile(arg, cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read %s: %w", arg, err)
		}
		heroes = append(heroes, loaded...)
	}

	if len(heroes) == 0 {
		slog.Info("no heroes to seed")
		return nil
	}

	service, _, closeStore, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := service.Load(ctx, heroes)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if !seedQuiet {
		for _, h := range result.Created {
			slog.Info("created", "id", h.ID, "name", h.Name)
		}
		for _, f := range result.Failed {
			slog.Warn("skipped", "id", f.Hero.ID, "name", f.Hero.Name, "err", f.Error)
		}
	}

	slog.Info("seed complete", "created", len(result.Created), "failed", len(result.Failed))
	return nil
}

func readHeroFile(path string, stdin io.Reader) ([]herostore.Hero, error) {
	if path == "-" {
		return decodeHeroes(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decodeHeroes(f)
}

// decodeHeroes parses a YAML sequence of heroes. JSON arrays parse as YAML.
func decodeHeroes(r io.Reader) ([]herostore.Hero, error) {
	var heroes []herostore.Hero
	if err := yaml.NewDecoder(r).Decode(&heroes); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode heroes: %w", err)
	}
	return heroes, nil
}
