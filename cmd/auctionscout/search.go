package main

import (
	"fmt"

	"github.com/Rsm-Microstate/team-dev/internal/config"
	"github.com/Rsm-Microstate/team-dev/internal/report"
	"github.com/spf13/cobra"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Run one search and print the listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}

			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc, err := newSearchService(cfg, logger)
			if err != nil {
				return err
			}

			res, err := svc.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return report.WriteJSON(cmd.OutOrStdout(), res.ResultSet)
			}
			return report.WriteText(cmd.OutOrStdout(), args[0], res.ResultSet)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}
