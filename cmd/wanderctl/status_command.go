package main

import (
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Query a task once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			res, err := svc.GetJobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, ctx.jsonOut, res)
		},
	}
}
