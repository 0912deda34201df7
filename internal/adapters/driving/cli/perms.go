package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vkauth/internal/core/domain"
)

var permsCmd = &cobra.Command{
	Use:   "perms [mask | name...]",
	Short: "Convert between permission masks and names",
	Long: `Without arguments, list every permission and its bit.

With a single integer argument, print the permission names in the mask.
Otherwise the arguments are permission names (space or comma separated)
and their mask is printed.`,
	Example: `  vkauth perms
  vkauth perms 8194
  vkauth perms friends,wall offline`,
	RunE: runPerms,
}

func init() {
	rootCmd.AddCommand(permsCmd)
}

func runPerms(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, p := range domain.Variants() {
			cmd.Printf("%-14s %8d\n", p, p.Mask())
		}
		cmd.Printf("%-14s %8s\n", domain.PermissionOffline, "-")
		cmd.Printf("%-14s %8s\n", domain.PermissionNoHTTPS, "-")
		return nil
	}

	var perms domain.Permissions
	if n, err := strconv.ParseInt(args[0], 10, 32); err == nil && len(args) == 1 {
		perms = domain.PermissionsFromInt(int32(n))
	} else {
		perms, err = domain.ParsePermissions(strings.Join(args, ","))
		if err != nil {
			return err
		}
	}

	cmd.Printf("mask:  %d\n", perms.Int())
	cmd.Printf("scope: %s\n", perms)
	return nil
}
