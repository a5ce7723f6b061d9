package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hrportal/internal/domain/auth"
)

var policyRole string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the role capability table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		roles := auth.Roles
		if policyRole != "" {
			role, ok := auth.ParseRole(policyRole)
			if !ok {
				return fmt.Errorf("unknown role %q", policyRole)
			}
			roles = []auth.Role{role}
		}
		return writePolicy(cmd.OutOrStdout(), roles)
	},
}

func writePolicy(out io.Writer, roles []auth.Role) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "CAPABILITY")
	for _, role := range roles {
		fmt.Fprintf(tw, "\t%s", role)
	}
	fmt.Fprintln(tw)
	for _, capability := range auth.AllCapabilities {
		fmt.Fprint(tw, capability)
		for _, role := range roles {
			fmt.Fprintf(tw, "\t%s", auth.ReachFor(role, capability))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func init() { //nolint: gochecknoinits
	policyCmd.Flags().StringVar(&policyRole, "role", "", "Only show this role (EMPLOYEE, MANAGER, HR_ADMIN)")
	rootCmd.AddCommand(policyCmd)
}
