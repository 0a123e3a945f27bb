package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dubber/internal/api"
	"dubber/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the dubbing queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			statuses, err := parseStatusFlags(statusFlags)
			if err != nil {
				return err
			}
			jobs, err := client.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					job.Title,
					job.TargetLanguage,
					job.Status,
					formatProgress(job),
					formatUpdated(job.UpdatedAt),
				})
			}
			out := renderTable(
				[]string{"ID", "Title", "Lang", "Status", "Progress", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Filter by status (repeatable)")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			job, err := client.Describe(cmd.Context(), id)
			if err != nil {
				return err
			}
			printJobDetail(cmd, job)
			return nil
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id]",
		Short: "Retry failed jobs, or one specific job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			var affected int64
			if len(args) == 1 {
				id, parseErr := strconv.ParseInt(args[0], 10, 64)
				if parseErr != nil {
					return fmt.Errorf("invalid job id %q", args[0])
				}
				affected, err = client.Retry(cmd.Context(), id)
			} else {
				affected, err = client.RetryAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d job(s)\n", affected)
			return nil
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a job from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d\n", id)
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var failedFlag bool
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear completed jobs (or failed/all with flags)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			scope := "completed"
			switch {
			case allFlag && failedFlag:
				return fmt.Errorf("--failed and --all are mutually exclusive")
			case allFlag:
				scope = "all"
			case failedFlag:
				scope = "failed"
			}
			affected, err := client.Clear(cmd.Context(), scope)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d job(s)\n", affected)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failedFlag, "failed", false, "Clear failed jobs instead of completed")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Clear every job")
	return cmd
}

func parseStatusFlags(values []string) ([]queue.Status, error) {
	var statuses []queue.Status
	for _, value := range values {
		status, ok := queue.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func formatProgress(job api.JobView) string {
	if job.ProgressStage == "" {
		return ""
	}
	return fmt.Sprintf("%s %.0f%%", job.ProgressStage, job.ProgressPercent)
}

func formatUpdated(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Local().Format("2006-01-02 15:04")
}

func printJobDetail(cmd *cobra.Command, job api.JobView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job %d: %s\n", job.ID, job.Title)
	fmt.Fprintf(out, "  Source:     %s\n", job.SourcePath)
	fmt.Fprintf(out, "  Language:   %s\n", job.TargetLanguage)
	fmt.Fprintf(out, "  Status:     %s\n", job.Status)
	if progress := formatProgress(job); progress != "" {
		fmt.Fprintf(out, "  Progress:   %s\n", progress)
	}
	if job.ProgressMessage != "" {
		fmt.Fprintf(out, "  Message:    %s\n", job.ProgressMessage)
	}
	if job.SpeakerCount > 0 {
		fmt.Fprintf(out, "  Speakers:   %d\n", job.SpeakerCount)
	}
	if job.SynthesizedCount > 0 || job.SkippedCount > 0 {
		fmt.Fprintf(out, "  Synthesis:  %d lines, %d skipped\n", job.SynthesizedCount, job.SkippedCount)
	}
	if job.FinalFile != "" {
		fmt.Fprintf(out, "  Output:     %s\n", job.FinalFile)
	}
	if job.NeedsReview {
		fmt.Fprintf(out, "  Review:     %s\n", job.ReviewReason)
	}
	if job.ErrorMessage != "" && !job.NeedsReview {
		fmt.Fprintf(out, "  Error:      %s\n", job.ErrorMessage)
	}
	fmt.Fprintf(out, "  Updated:    %s\n", strings.TrimSpace(formatUpdated(job.UpdatedAt)))
}
