package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/herostore/config"
)

func readConfig(cmd *cobra.Command) (*config.Config, error) {
	configFiles, _ := cmd.Flags().GetStringSlice("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")

	cfg, err := config.LoadWithEnvFiles(configFiles, envFiles, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
