package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/items-fetcher/internal/app"
	"github.com/samvad-hq/items-fetcher/internal/config"
	"github.com/samvad-hq/items-fetcher/internal/logger"
	"github.com/samvad-hq/items-fetcher/pkg/client"
	"github.com/samvad-hq/items-fetcher/pkg/clientconfig"
	"github.com/samvad-hq/items-fetcher/pkg/httpclient"
	"github.com/samvad-hq/items-fetcher/pkg/provider"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "itemsfetch failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "itemsfetch",
		Short: "Fetch the hiring items list",
		Long: `Fetch the hiring items list, group it by listId and print it.

Every successful fetch is cached per endpoint and forwarded to the publishers
declared in the publishers file. When a fetch fails the cached snapshot is
served instead. With --refresh the list is fetched again on that interval
until the process receives SIGINT or SIGTERM.`,
		Example: `  # Fetch once and print YAML
  itemsfetch

  # Poll every 30 seconds as JSON
  itemsfetch --refresh 30 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("itemsfetch starting", "config", cfg)

	clientCfg, err := clientconfig.NewBuilder().SetBaseURL(cfg.BaseURL).Create()
	if err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	api, err := provider.Initialize(clientCfg,
		client.WithTransport(httpclient.NewRestyClient(cfg.HTTPTimeout)),
		client.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("init items client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, api, log)
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err)
		return err
	}

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("itemsfetch run: %w", err)
	}
	return nil
}
