package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			running := "stopped"
			if status.Running {
				running = "running"
			}
			fmt.Fprintf(out, "Daemon:   %s\n", running)
			fmt.Fprintf(out, "Queue DB: %s\n", status.QueueDBPath)
			if status.Workflow.LastError != "" {
				fmt.Fprintf(out, "Last error: %s\n", status.Workflow.LastError)
			}

			if len(status.Workflow.QueueStats) > 0 {
				keys := make([]string, 0, len(status.Workflow.QueueStats))
				for key := range status.Workflow.QueueStats {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				rows := make([][]string, 0, len(keys))
				for _, key := range keys {
					rows = append(rows, []string{key, strconv.Itoa(status.Workflow.QueueStats[key])})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable([]string{"Status", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
			}

			if len(status.Workflow.StageHealth) > 0 {
				rows := make([][]string, 0, len(status.Workflow.StageHealth))
				for _, stage := range status.Workflow.StageHealth {
					ready := "ok"
					if !stage.Ready {
						ready = "unavailable"
					}
					rows = append(rows, []string{stage.Name, ready, stage.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Stage", "Health", "Detail"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			}
			return nil
		},
	}
}
