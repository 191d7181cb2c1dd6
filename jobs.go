package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/video2text/backend/internal/config"
	"github.com/video2text/backend/internal/db"
	"github.com/video2text/backend/internal/job"
)

func newJobsCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List transcription jobs in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := db.NewSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			jobs, err := job.List(database.DB())
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs.")
				return nil
			}

			headers := []string{"ID", "Status", "Progress", "Source", "Created"}
			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, []string{
					shortID(j.ID),
					string(j.Status),
					fmt.Sprintf("%3.0f%%", j.Progress*100),
					truncate(j.SourceURL, 60),
					j.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}

			if isTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{
					alignLeft, alignLeft, alignRight, alignLeft, alignLeft,
				}))
				return nil
			}

			// Plain tab-separated output for pipes and scripts.
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(headers, "\t"))
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
			}
			return nil
		},
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
