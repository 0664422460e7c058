package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"distrotui/internal/api"
	"distrotui/internal/domain"
)

// requestContext is cancelled on interrupt
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// parseCollection accepts "packages", "batches/builds" and the singular
// forms "package", "build", "import"
func parseCollection(s string) (domain.Collection, error) {
	switch s {
	case "package", "packages":
		return domain.CollectionPackages, nil
	case "build", "builds":
		return domain.CollectionBuilds, nil
	case "import", "imports":
		return domain.CollectionImports, nil
	case "batches/imports", "batch-import":
		return domain.CollectionBatchImports, nil
	case "batches/builds", "batch-build":
		return domain.CollectionBatchBuilds, nil
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection> <id>",
		Short: "Show one package, build, import or batch",
		Example: `  distrotui show packages 12
  distrotui show batches/builds 3 -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			id, err := idArg(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			return show(ctx, cmd, a, c, id)
		},
	}
}

func show(ctx context.Context, cmd *cobra.Command, a *app, c domain.Collection, id domain.ID) error {
	out := cmd.OutOrStdout()
	notFound := func(err error) error {
		if api.IsNotFound(err) {
			return fmt.Errorf("%s %s not found", c, id)
		}
		return fmt.Errorf("failed to load %s %s: %w", c, id, err)
	}

	switch c {
	case domain.CollectionPackages:
		p, err := a.client.GetPackage(ctx, id)
		if err != nil {
			return notFound(err)
		}
		return render(out, a.output, p, func() tableData {
			return keyValues(
				"ID", p.ID.String(),
				"Name", p.Name,
				"Kind", p.Kind(),
				"Responsible", p.ResponsibleUsername,
				"Repo", p.Repo,
				"Last import", timeString(p.LastImport),
				"Last build", timeString(p.LastBuild),
				"Imports", strconv.Itoa(len(p.Imports)),
				"Builds", strconv.Itoa(len(p.Builds)),
			)
		})
	case domain.CollectionBuilds:
		b, err := a.client.GetBuild(ctx, id)
		if err != nil {
			return notFound(err)
		}
		return render(out, a.output, b, func() tableData {
			return keyValues(
				"ID", b.ID.String(),
				"Package", packageName(b.Package),
				"Status", b.Status.Label(),
				"Koji/MBS", buildRef(*b),
				"Branch", b.Branch,
				"Commit", b.Commit,
				"Executor", b.ExecutorUsername,
				"Created", b.CreatedAt.String(),
			)
		})
	case domain.CollectionImports:
		i, err := a.client.GetImport(ctx, id)
		if err != nil {
			return notFound(err)
		}
		return render(out, a.output, i, func() tableData {
			return keyValues(
				"ID", i.ID.String(),
				"Package", packageName(i.Package),
				"Status", i.Status.Label(),
				"Version", strconv.Itoa(i.Version),
				"Commit", i.Commit,
				"Executor", i.ExecutorUsername,
				"Created", i.CreatedAt.String(),
			)
		})
	case domain.CollectionBatchImports:
		b, err := a.client.GetBatchImport(ctx, id)
		if err != nil {
			return notFound(err)
		}
		return render(out, a.output, b, func() tableData {
			data := tableData{header: []string{"Import", "Package", "Status", "Created"}}
			for _, i := range b.Imports {
				data.rows = append(data.rows, []string{i.ID.String(), packageName(i.Package), i.Status.Label(), i.CreatedAt.String()})
			}
			data.footer = batchFooter(b.Statuses())
			return data
		})
	case domain.CollectionBatchBuilds:
		b, err := a.client.GetBatchBuild(ctx, id)
		if err != nil {
			return notFound(err)
		}
		return render(out, a.output, b, func() tableData {
			data := tableData{header: []string{"Build", "Package", "Status", "Created"}}
			for _, build := range b.Builds {
				data.rows = append(data.rows, []string{build.ID.String(), packageName(build.Package), build.Status.Label(), build.CreatedAt.String()})
			}
			data.footer = batchFooter(b.Statuses())
			return data
		})
	}
	return fmt.Errorf("cannot show %s", c)
}
