package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"distrotui/internal/browser"
	"distrotui/internal/domain"
)

func newLogsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logs <import-id>",
		Short: "Print the logs of an import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			text, err := a.client.ImportLogs(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load logs of import %s: %w", id, err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

func batchFooter(statuses []domain.Status) string {
	p := browser.ProgressOf(statuses)
	var parts []string
	parts = append(parts, fmt.Sprintf("%d%% done", p.Percent()))
	parts = append(parts, fmt.Sprintf("%d succeeded", p.Succeeded))
	parts = append(parts, fmt.Sprintf("%d failed", p.Failed))
	if p.Pending() > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", p.Pending()))
	}
	return strings.Join(parts, " · ")
}
