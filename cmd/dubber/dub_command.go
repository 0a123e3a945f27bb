package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "dub <file>",
		Short: "Queue a video file for dubbing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			job, err := client.Submit(cmd.Context(), args[0], languageFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d: %s -> %s\n", job.ID, job.Title, job.TargetLanguage)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Target language code (e.g. hi, fr, ja)")
	_ = cmd.MarkFlagRequired("language")
	return cmd
}
