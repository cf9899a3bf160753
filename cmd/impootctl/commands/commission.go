package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func commissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Show or change the platform commission rate",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the current commission rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := store.CommissionRate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d%%\n", rate)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <percent>",
		Short: "Set the commission rate (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("rate must be an integer: %w", err)
			}
			if err := store.SetCommissionRate(cmd.Context(), rate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "commission rate set to %d%%\n", rate)
			return nil
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}
