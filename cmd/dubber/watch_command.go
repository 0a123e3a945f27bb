package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"dubber/internal/api"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow live job progress from the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			watchCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, resp, err := websocket.DefaultDialer.DialContext(watchCtx, client.WebsocketURL(), nil)
			if err != nil {
				return fmt.Errorf("connect to progress feed: %w", err)
			}
			if resp != nil {
				resp.Body.Close()
			}
			defer conn.Close()

			go func() {
				<-watchCtx.Done()
				_ = conn.Close()
			}()

			out := cmd.OutOrStdout()
			last := make(map[int64]string)
			for {
				var snapshot api.QueueListResponse
				if err := conn.ReadJSON(&snapshot); err != nil {
					if watchCtx.Err() != nil {
						return nil
					}
					return fmt.Errorf("progress feed closed: %w", err)
				}
				for _, job := range snapshot.Jobs {
					line := fmt.Sprintf("[%d] %s  %s  %s", job.ID, job.Title, job.Status, formatProgress(job))
					if last[job.ID] == line {
						continue
					}
					last[job.ID] = line
					fmt.Fprintln(out, line)
				}
			}
		},
	}
}
