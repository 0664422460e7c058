// Package cli provides the distrotui command line. The root command starts
// the TUI; subcommands read and act on the distrobuild API for scripting.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"distrotui/internal/api"
	"distrotui/internal/config"
	"distrotui/internal/domain"
	"distrotui/internal/eventbus"
	"distrotui/internal/session"
)

// Version is the CLI version, overridden at build time
var Version = "dev"

// Flag names for persistent global flags.
const (
	flagAPIURL  = "api-url"
	flagTimeout = "timeout"
	flagConfig  = "config"
	flagOutput  = "output"
)

// app is what the commands share once configuration is loaded
type app struct {
	configPath string
	output     string

	cfg     *config.Config
	client  *api.Client
	bus     eventbus.EventBus
	logger  *slog.Logger
	session session.Context
	closer  io.Closer
}

// NewRootCmd creates the root command. Without a subcommand it starts the TUI.
//
// Global Flags:
//   - --api-url: distrobuild API root (default: http://localhost:8090/api)
//   - --timeout: request timeout (default: 30s)
//   - --config: configuration file (default: ~/.config/distrotui/config.toml)
//   - --output: table, json or yaml
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "distrotui",
		Short:        "Terminal dashboard for distrobuild",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd, "")
		},
	}

	cmd.PersistentFlags().String(flagAPIURL, api.DefaultAPIURL, "distrobuild API root")
	cmd.PersistentFlags().Duration(flagTimeout, api.DefaultTimeout, "Request timeout")
	cmd.PersistentFlags().StringVar(&a.configPath, flagConfig, "", "Configuration file")
	cmd.PersistentFlags().StringVarP(&a.output, flagOutput, "o", formatTable, "Output format: table, json or yaml")

	cmd.AddCommand(newTUICmd(a))
	for _, c := range listCollections {
		cmd.AddCommand(newCollectionCmd(a, c))
	}
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newBatchesCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// setup loads configuration and builds the logger, bus, client and session
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := validFormat(a.output); err != nil {
		return err
	}

	svc := config.NewConfigService(a.configPath)
	svc.BindFlag("api.url", changedFlag(cmd, flagAPIURL))
	svc.BindFlag("api.timeout", changedFlag(cmd, flagTimeout))

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = svc.LoadFromPath(a.configPath)
	} else {
		cfg, err = svc.Load()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := config.OpenLog(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closer = closer
	slog.SetDefault(logger)

	a.bus = eventbus.New(logger)
	a.bus.SubscribeAll(eventbus.Audit(logger))
	a.bus.Publish(domain.ConfigLoadedEvent{Path: svc.Path(), APIURL: cfg.API.URL})

	client, err := api.NewClient(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	a.client = client
	a.session = session.New(client.Authenticated(), cfg.UI.FullName)

	logger.Info("distrotui started", "command", cmd.CommandPath(), "api_url", cfg.API.URL, "authenticated", a.session.Authenticated)
	return nil
}

func (a *app) teardown() {
	if a.bus != nil {
		a.bus.Close()
	}
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// changedFlag returns the persistent flag only when it was set, so that an
// unset flag does not shadow the file and environment
func changedFlag(cmd *cobra.Command, name string) *pflag.Flag {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	return f
}
