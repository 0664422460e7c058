package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"distrotui/internal/config"
	"distrotui/internal/eventbus"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// Replaces the root setup so a broken file can still be inspected
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := validFormat(a.output); err != nil {
				return err
			}
			return config.LoadDotEnv()
		},
		PersistentPostRun: func(*cobra.Command, []string) {},
	}
	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bus := eventbus.New(nil)
			defer bus.Close()
			svc := config.NewConfigServiceWithBus(a.configPath, bus)

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(svc.Path()); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", svc.Path())
			}

			cfg := config.DefaultConfig()
			if url, _ := cmd.Flags().GetString(flagAPIURL); cmd.Flags().Changed(flagAPIURL) {
				cfg.API.URL = url
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := svc.Save(cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
			return err
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := config.NewConfigService(a.configPath)
			svc.BindFlag("api.url", changedFlag(cmd, flagAPIURL))
			svc.BindFlag("api.timeout", changedFlag(cmd, flagTimeout))
			cfg, err := svc.Load()
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.API.Token != "" {
				shown.API.Token = "********"
			}
			if a.output != formatTable {
				return render(cmd.OutOrStdout(), a.output, shown, nil)
			}
			data, err := config.Marshal(&shown)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.NewConfigService(a.configPath).Path())
			return err
		},
	}
}
