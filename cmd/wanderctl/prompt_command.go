package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wanderai/internal/travelphoto"
)

// prompt previews the rendered instruction without calling upstream.
func newPromptCommand(ctx *commandContext) *cobra.Command {
	var req travelphoto.JobRequest

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt a submit would send",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := req.Prompt()
			if ctx.jsonOut {
				return writeJSON(cmd, map[string]any{"prompt": prompt, "advanced": req.Advanced()})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	bindJobFlags(cmd, &req)
	return cmd
}
