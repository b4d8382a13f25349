package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"wanderai/internal/infra"
	"wanderai/internal/travelphoto"
	"wanderai/internal/volcengine"
)

// commandContext lazily builds the service from environment plus flag overrides.
type commandContext struct {
	endpoint string
	region   string
	jsonOut  bool
	verbose  bool
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "wanderctl",
		Short:         "Submit and inspect travel-photo generation tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.endpoint, "endpoint", "", "Upstream endpoint (defaults to VOLCANO_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&ctx.region, "region", "", "Upstream region (defaults to VOLCANO_REGION)")
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOut, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log upstream calls to stderr")

	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newWaitCommand(ctx))
	rootCmd.AddCommand(newPromptCommand(ctx))

	return rootCmd
}

func (c *commandContext) service(cmd *cobra.Command) (*travelphoto.Service, *volcengine.Client, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if c.endpoint != "" {
		cfg.VolcEndpoint = c.endpoint
	}
	if c.region != "" {
		cfg.VolcRegion = c.region
	}
	logger := infra.NopLogger()
	if c.verbose {
		l := infra.NewLogger("development").Output(zerologConsole(cmd))
		logger = &l
	}
	client, err := volcengine.NewClient(volcengine.Options{
		AccessKey:      cfg.VolcAccessKey,
		SecretKey:      cfg.VolcSecretKey,
		Region:         cfg.VolcRegion,
		Endpoint:       cfg.VolcEndpoint,
		ReqKey:         cfg.VolcReqKey,
		RequestTimeout: cfg.UpstreamTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return travelphoto.NewService(client, logger), client, nil
}
