package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
)

// CandidatesCmd returns the candidates command.
func CandidatesCmd() *cobra.Command {
	var sourceID int64

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Show the ranked operators for a source",
		Long:  `Rank the operators who could take a lead from the source right now, best first. Nothing is reserved.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			defer e.close()

			ranked, err := e.app.Engine.ListAvailableOperators(cmd.Context(), sourceID)
			if err != nil {
				return err
			}
			printCandidates(cmd.OutOrStdout(), ranked)
			return nil
		},
	}

	cmd.Flags().Int64Var(&sourceID, "source", 0, "source id (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func printCandidates(out io.Writer, ranked []assignment.Candidate) {
	if len(ranked) == 0 {
		fmt.Fprintln(out, color.New(color.FgYellow).Sprint("no operator available, a lead would be queued"))
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tWEIGHT\tLOAD\tSCORE")
	for i, c := range ranked {
		rank := strconv.Itoa(i + 1)
		if i == 0 {
			rank = color.New(color.FgGreen).Sprint(rank)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d/%d\t%.2f\n",
			rank, c.Operator.ID, c.Operator.Name, c.Weight, c.Operator.CurrentLoad, c.Operator.MaxLoad, c.Score)
	}
	_ = tw.Flush()
}

// AssignCmd returns the assign command.
func AssignCmd() *cobra.Command {
	var (
		externalID string
		sourceID   int64
		name       string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Route a lead arriving through a source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			defer e.close()

			req := assignment.AssignRequest{ExternalID: externalID, SourceID: sourceID}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			res, err := e.app.Engine.AssignLead(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Queued() {
				fmt.Fprintf(out, "%s contact %d for lead %d, no operator available\n",
					color.New(color.FgYellow).Sprint("QUEUED"), res.Contact.ID, res.Contact.LeadID)
				return nil
			}
			fmt.Fprintf(out, "%s contact %d for lead %d to operator %d %s (load %d/%d)\n",
				color.New(color.FgGreen).Sprint("ASSIGNED"), res.Contact.ID, res.Contact.LeadID,
				res.Operator.ID, res.Operator.Name, res.Operator.CurrentLoad, res.Operator.MaxLoad)
			return nil
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "lead identifier in the source channel (required)")
	cmd.Flags().Int64Var(&sourceID, "source", 0, "source id (required)")
	cmd.Flags().StringVar(&name, "name", "", "lead display name, used when the lead is new")
	_ = cmd.MarkFlagRequired("external-id")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// CompleteCmd returns the complete command.
func CompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete CONTACT_ID",
		Short: "Mark a contact done and free its operator's slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}
			defer e.close()

			c, err := e.app.Engine.Complete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s contact %d is %s\n", color.New(color.FgGreen).Sprint("DONE"), c.ID, c.Status)
			return nil
		},
	}
}
