package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/settlement"
)

func settlementCmd() *cobra.Command {
	var partner string
	cmd := &cobra.Command{
		Use:   "settlement",
		Short: "Print the per-item settlement report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rate, err := store.CommissionRate(ctx)
			if err != nil {
				return err
			}

			items, err := reportItems(ctx, partner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tSALES\tREVENUE\tFEE\tPAYOUT\tSETTLEMENT\t")
			for _, l := range settlement.Overview(items, rate) {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n", l.ItemID, l.Category, l.Title, l.Sales,
					settlement.FormatWon(l.Revenue), settlement.FormatWon(l.Fee), settlement.FormatWon(l.Payout),
					l.SettlementStatus)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if partner != "" {
				s := settlement.Compute(items, rate)
				fmt.Fprintf(out, "\ncommission %d%%  fees to pay %s  payout to receive %s  blocked %t\n",
					s.Rate, settlement.FormatWon(s.FeesToPay), settlement.FormatWon(s.PayoutToReceive), s.BlockedByFee)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&partner, "partner", "", "limit the report to items created by this partner email")
	return cmd
}

// reportItems returns every item, or only the partner's when an email is given.
func reportItems(ctx context.Context, partner string) ([]models.Item, error) {
	if partner == "" {
		return store.ListItems(ctx, "")
	}
	user, _, err := store.GetUserByEmail(ctx, partner)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %s", partner)
	}
	return store.ListItemsByAuthor(ctx, user.ID)
}
