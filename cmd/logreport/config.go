/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/suparena/logreport/config"
	"github.com/suparena/logreport/errors"
)

// DefaultConfigFile is written by "config init" when --config is not set.
const DefaultConfigFile = "logreport.yaml"

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in defaults to a YAML config file",
		Long: `Writes the default settings, with any --bucket, --prefix, --region or
--archive-table given on the command line, to --config (default logreport.yaml).
An existing file is kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = DefaultConfigFile
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewValidationError("config", fmt.Sprintf("%s already exists, use --force to overwrite", path))
			} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			cfg := config.DefaultConfig()
			flags := cmd.Flags()
			if flags.Changed("bucket") {
				cfg.Source.Bucket = g.bucket
			}
			if flags.Changed("prefix") {
				cfg.Source.Prefix = g.prefix
			}
			if flags.Changed("region") {
				cfg.AWS.Region = g.region
			}
			if flags.Changed("archive-table") {
				cfg.Archive.Table = g.archiveTable
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
