// Package members implements the group membership listing command
package members

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/common"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
	"github.com/dxue2012/bayclub-to-splitwise/internal/roster"
)

// Cmd represents the members command
var Cmd = &cobra.Command{
	Use:   "members",
	Short: "List the members of the configured Splitwise group",
	RunE:  membersFunc,
}

func membersFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if cfg.GroupID == 0 {
		return fmt.Errorf("group_id is not configured")
	}

	ctx := cmd.Context()
	client, err := common.NewSplitwiseClient(ctx, cfg, root.Log)
	if err != nil {
		return err
	}

	members, err := client.GetGroupMembers(ctx, cfg.GroupID)
	if err != nil {
		return err
	}

	// Same normalization and ordering the allocation run uses.
	for _, member := range roster.Resolve(members).Members() {
		fmt.Printf("%d\t%s\n", member.ID, member.Name)
	}
	return nil
}
