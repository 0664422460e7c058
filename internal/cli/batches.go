package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"distrotui/internal/api"
	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

func newBatchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List, create, cancel and retry batches",
	}
	cmd.AddCommand(newBatchesListCmd(a))
	cmd.AddCommand(newBatchesCreateCmd(a))
	cmd.AddCommand(newBatchActionCmd(a, browser.ActionCancel, "cancel", "Cancel the pending items of a batch"))
	cmd.AddCommand(newBatchActionCmd(a, browser.ActionRetryFailed, "retry", "Retry the failed items of a batch in a new batch"))
	return cmd
}

func newBatchesListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <imports|builds>",
		Short: "List batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBatchKind(args[0])
			if err != nil {
				return err
			}
			return runList(cmd, a, kind.Collection())
		},
	}
	addPageFlags(cmd)
	return cmd
}

func newBatchesCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <imports|builds>",
		Short: "Create a batch from a list of package names",
		Example: `  distrotui batches create builds --file packages.txt --scratch
  distrotui batches create imports --packages bash,kernel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseBatchKind(args[0])
			if err != nil {
				return err
			}
			list, err := packageList(cmd)
			if err != nil {
				return err
			}
			opts := browser.Options{ShouldPrecheck: true}
			if noPrecheck, _ := cmd.Flags().GetBool("no-precheck"); noPrecheck {
				opts.ShouldPrecheck = false
			}
			if kind == domain.BatchBuilds {
				opts.Scratch, _ = cmd.Flags().GetBool("scratch")
				opts.IgnoreModules, _ = cmd.Flags().GetBool("ignore-modules")
				opts.ArchOverride, _ = cmd.Flags().GetString("arch-override")
				opts.ForceTag, _ = cmd.Flags().GetString("force-tag")
			}

			action := browser.ActionImport
			if kind == domain.BatchBuilds {
				action = browser.ActionBuild
			}
			return a.submit(cmd, browser.Action{Kind: action, BatchKind: kind, FreeText: true},
				browser.Input{PackageList: list, Options: opts})
		},
	}
	cmd.Flags().StringP("file", "f", "", "File with one package name per line, - for stdin")
	cmd.Flags().StringSlice("packages", nil, "Comma separated package names")
	cmd.Flags().Bool("no-precheck", false, "Skip the server side package precheck")
	cmd.Flags().Bool("scratch", false, "Scratch builds (builds only)")
	cmd.Flags().Bool("ignore-modules", false, "Ignore modules (builds only)")
	cmd.Flags().String("arch-override", "", "Build only for these arches (builds only)")
	cmd.Flags().String("force-tag", "", "Koji tag to force (builds only)")
	return cmd
}

// packageList joins --packages and the contents of --file, one name per line
func packageList(cmd *cobra.Command) (string, error) {
	var b strings.Builder
	names, _ := cmd.Flags().GetStringSlice("packages")
	for _, n := range names {
		b.WriteString(n)
		b.WriteString("\n")
	}

	path, _ := cmd.Flags().GetString("file")
	switch path {
	case "":
	case "-":
		data, err := readAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read package list: %w", err)
		}
		b.WriteString(data)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read package list: %w", err)
		}
		b.Write(data)
	}
	return b.String(), nil
}

func newBatchActionCmd(a *app, kind browser.ActionKind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <imports|builds> <id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchKind, err := domain.ParseBatchKind(args[0])
			if err != nil {
				return err
			}
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			return a.submit(cmd, browser.Action{Kind: kind, BatchKind: batchKind, BatchID: id}, browser.Input{})
		},
	}
}

// submit runs an action through the same workflow the TUI uses and prints
// where the result can be seen
func (a *app) submit(cmd *cobra.Command, action browser.Action, in browser.Input) error {
	if err := a.session.RequireAuth(); err != nil {
		return err
	}

	w := browser.NewWorkflow(nil)
	browser.PublishTransitions(w, a.bus)
	if err := w.RequestConfirmation(action); err != nil {
		return fmt.Errorf("%s", browser.ErrorMessage(err, action.Kind))
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	out, err := w.Submit(ctx, api.NewSubmitter(a.client), in)
	if err != nil {
		a.logger.Warn("action failed", "action", action.Kind, "error", err)
		return fmt.Errorf("%s", browser.ErrorMessage(err, action.Kind))
	}

	if out.ID.IsZero() {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: done (%s)\n", action.Kind.Verb(), out.Location)
	} else {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: created %s (%s)\n", action.Kind.Verb(), out.ID, out.Location)
	}
	return err
}
