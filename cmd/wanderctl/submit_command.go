package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wanderai/internal/travelphoto"
)

func bindJobFlags(cmd *cobra.Command, req *travelphoto.JobRequest) {
	cmd.Flags().StringVar(&req.UserImageURL, "user-image", "", "URL of the photo with the person")
	cmd.Flags().StringVar(&req.SceneImageURL, "scene-image", "", "URL of the destination scene")
	cmd.Flags().StringVar(&req.Location, "location", "", "Destination name used in the prompt")
	cmd.Flags().StringVar(&req.Style, "style", "natural", "natural, artistic, vintage, modern or cinematic")
	cmd.Flags().StringVar(&req.Quality, "quality", "high", "high, ultra or professional")
	cmd.Flags().StringVar(&req.TimeOfDay, "time-of-day", "auto", "morning, afternoon, evening, night or auto")
	cmd.Flags().StringVar(&req.Weather, "weather", "auto", "sunny, cloudy, sunset or auto")
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var req travelphoto.JobRequest

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a generation task and print its task id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			taskID, err := svc.SubmitJob(cmd.Context(), req)
			if err != nil {
				return err
			}
			if ctx.jsonOut {
				return writeJSON(cmd, map[string]string{"task_id": taskID})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), taskID)
			return err
		},
	}
	bindJobFlags(cmd, &req)
	return cmd
}
