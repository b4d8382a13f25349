package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"wanderai/internal/storage"
	"wanderai/internal/volcengine"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var (
		interval    time.Duration
		maxInterval time.Duration
		attempts    int
		saveDir     string
	)

	cmd := &cobra.Command{
		Use:   "wait <task-id>",
		Short: "Poll a task with backoff until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			poller := volcengine.Poller{
				Getter:      client,
				Interval:    interval,
				MaxInterval: maxInterval,
				MaxAttempts: attempts,
				OnStatus: func(attempt int, res volcengine.PollResult) {
					if !ctx.jsonOut && !res.Terminal() {
						fmt.Fprintf(cmd.ErrOrStderr(), "attempt %d: %s\n", attempt, res.Status)
					}
				},
			}
			res, err := poller.Wait(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printResult(cmd, ctx.jsonOut, res); err != nil {
				return err
			}
			if res.Failed() {
				return fmt.Errorf("task %s ended with status %q", res.TaskID, res.Status)
			}
			if saveDir == "" {
				return nil
			}
			path, err := saveImage(cmd.Context(), saveDir, res)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Initial delay between polls")
	cmd.Flags().DurationVar(&maxInterval, "max-interval", 15*time.Second, "Upper bound for the backoff delay")
	cmd.Flags().IntVar(&attempts, "attempts", 60, "Maximum number of polls")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Download the finished image into this directory")
	return cmd
}

func saveImage(ctx context.Context, dir string, res volcengine.PollResult) (string, error) {
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return "", err
	}
	img, err := storage.Download(ctx, &http.Client{Timeout: time.Minute}, res.ImageURL)
	if err != nil {
		return "", err
	}
	return store.Write(ctx, res.TaskID+img.Ext(), img.Data)
}
