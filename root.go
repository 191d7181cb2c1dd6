package main

import (
	"github.com/spf13/cobra"

	"github.com/video2text/backend/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	loadConfig := func() (*config.Config, error) {
		return config.Load(configFlag)
	}

	rootCmd := &cobra.Command{
		Use:           "video2text",
		Short:         "Video transcription and subtitle generation server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(loadConfig))
	rootCmd.AddCommand(newFetchModelsCommand(loadConfig))
	rootCmd.AddCommand(newJobsCommand(loadConfig))

	return rootCmd
}
