package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/wire"
)

var (
	seedOperators = []string{"Первак", "Вторяк", "Третьяк"}
	seedSources   = []string{"Telegram bot", "VK group", "WhatsApp bot"}
	// seedWeights are (operator, source, weight) by position in the lists above.
	seedWeights = [][3]int{
		{0, 0, 10}, {0, 1, 10}, {0, 2, 10},
		{1, 0, 7}, {1, 1, 7},
		{2, 1, 5}, {2, 2, 5},
	}
)

const seedMaxLoad = 10

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo operators, sources and priorities",
		Long: `Create three operators with capacity 10, three sources, and priorities
between them. Does nothing when operators already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			defer e.close()
			return seed(cmd.Context(), e.app, cmd.OutOrStdout())
		},
	}
}

func seed(ctx context.Context, app *wire.App, out io.Writer) error {
	existing, err := app.Operators.List(ctx, operator.ListOptions{Options: listing.Options{Limit: 1}})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		fmt.Fprintf(out, "%s database already has %d operators\n", color.New(color.FgYellow).Sprint("SKIP"), existing.TotalCount)
		return nil
	}

	created := color.New(color.FgGreen).Sprint("CREATE")
	maxLoad := seedMaxLoad
	opIDs := make([]int64, len(seedOperators))
	for i, name := range seedOperators {
		op, err := app.Operators.Create(ctx, operator.CreateRequest{Name: name, MaxLoad: &maxLoad})
		if err != nil {
			return fmt.Errorf("seed operator %q: %w", name, err)
		}
		opIDs[i] = op.ID
		fmt.Fprintf(out, "%s operator %d %s (max_load %d)\n", created, op.ID, op.Name, op.MaxLoad)
	}

	srcIDs := make([]int64, len(seedSources))
	for i, name := range seedSources {
		src, err := app.Sources.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("seed source %q: %w", name, err)
		}
		srcIDs[i] = src.ID
		fmt.Fprintf(out, "%s source %d %s\n", created, src.ID, src.Name)
	}

	for _, w := range seedWeights {
		p, err := app.Priorities.Upsert(ctx, priority.UpsertRequest{
			OperatorID: opIDs[w[0]],
			SourceID:   srcIDs[w[1]],
			Weight:     w[2],
		})
		if err != nil {
			return fmt.Errorf("seed priority: %w", err)
		}
		fmt.Fprintf(out, "%s priority operator %d / source %d weight %d\n", created, p.OperatorID, p.SourceID, p.Weight)
	}
	return nil
}
