package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/clientcli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every hero",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one hero",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a hero",
	Long: `Create a hero. Without --id the server assigns an eight digit id.

Examples:
  herostore-cli create Thor
  herostore-cli create Loki --id 7`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Replace the hero with the given id",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id> [id...]",
	Short: "Delete heroes",
	Long: `Delete one or more heroes by id.

Examples:
  herostore-cli delete 7
  herostore-cli delete 7 42 -q`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var loadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Bulk load heroes from a JSON array",
	Long: `Send a JSON array of heroes to POST /heroes/data. Use - to read stdin.

Each hero is created independently; failures are reported per hero.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

var createID int

func init() {
	createCmd.Flags().IntVar(&createID, "id", 0, "hero id (0 or -1 lets the server choose)")
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	heroes, err := client.List(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatHeroes(cmd.OutOrStdout(), heroes)
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	hero, err := client.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	return getFormatter().FormatHero(cmd.OutOrStdout(), hero)
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.CreateOptions{Hero: herostore.Hero{ID: createID, Name: args[0]}}
	hero, err := client.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return getFormatter().FormatHero(cmd.OutOrStdout(), hero)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Update(cmd.Context(), herostore.Hero{ID: id, Name: args[1]})
	if err != nil {
		return err
	}

	if err := getFormatter().FormatUpdate(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Updated {
		return &exitError{code: 1}
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmd.Context(), ids)
	if err != nil {
		return err
	}

	if err := getFormatter().FormatDelete(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	var heroes []herostore.Hero
	if err := readJSON(args[0], cmd, &heroes); err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Load(cmd.Context(), heroes)
	if err != nil {
		return err
	}

	if err := getFormatter().FormatLoad(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func readJSON(path string, cmd *cobra.Command, v any) error {
	if path == "-" {
		if err := json.NewDecoder(cmd.InOrStdin()).Decode(v); err != nil {
			return fmt.Errorf("decode stdin: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q must be an integer", herostore.ErrInvalidInput, s)
	}
	return id, nil
}
