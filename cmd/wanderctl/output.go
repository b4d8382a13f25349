package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wanderai/internal/volcengine"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func zerologConsole(cmd *cobra.Command) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}
}

func printResult(cmd *cobra.Command, jsonOut bool, res volcengine.PollResult) error {
	if jsonOut {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	switch {
	case res.Done():
		_, err := fmt.Fprintln(out, res.ImageURL)
		return err
	case res.Failed():
		_, err := fmt.Fprintf(out, "task %s failed: %s\n", res.TaskID, res.Status)
		return err
	default:
		_, err := fmt.Fprintf(out, "task %s: %s\n", res.TaskID, res.Status)
		return err
	}
}
