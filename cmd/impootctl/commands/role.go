package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/impoot/impoot/internal/models"
)

func roleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Grant or revoke user roles",
	}
	cmd.AddCommand(
		roleChangeCmd("grant", "Grant a role to a user", true),
		roleChangeCmd("revoke", "Revoke a role from a user", false),
	)
	return cmd
}

// grant <email> <role> / revoke <email> <role>
func roleChangeCmd(use, short string, grant bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email> <role>",
		Short: short,
		Long:  "Known roles: " + strings.Join(models.KnownRoles(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, role := args[0], args[1]
			if !slices.Contains(models.KnownRoles(), role) {
				return fmt.Errorf("unknown role %q", role)
			}
			user, _, err := store.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no user with email %s", email)
			}

			roles := slices.DeleteFunc(slices.Clone(user.Roles), func(r string) bool { return r == role })
			if grant {
				roles = append(roles, role)
			}
			if err := store.SetRoles(cmd.Context(), user.ID, roles); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", user.Email, strings.Join(roles, ", "))
			return nil
		},
	}
}
