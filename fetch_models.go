package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/video2text/backend/internal/asr"
	"github.com/video2text/backend/internal/config"
)

func newFetchModelsCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "fetch-models",
		Short: "Ask the ASR sidecar to download a model group ahead of time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if group == "" {
				group = cfg.ASRModelGroup
			}

			client := asr.NewFunASRClient(cfg.ASRURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Fetching model group %q via %s...\n", group, cfg.ASRURL)
			if err := client.PrefetchModels(cmd.Context(), group); err != nil {
				return fmt.Errorf("fetch models: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done.")
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Model group to fetch ("+strings.Join(asr.GroupNames(), ", ")+")")
	return cmd
}
