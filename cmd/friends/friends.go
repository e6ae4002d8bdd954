// Package friends implements the friends listing command
package friends

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/common"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
)

// Cmd represents the friends command
var Cmd = &cobra.Command{
	Use:   "friends",
	Short: "List the authenticated user's Splitwise friends",
	RunE:  friendsFunc,
}

func friendsFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := common.NewSplitwiseClient(ctx, root.Cfg, root.Log)
	if err != nil {
		return err
	}

	user, err := client.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Authenticated as %s (%s)\n", user.FullName(), user.Email)

	friends, err := client.GetFriends(ctx)
	if err != nil {
		return err
	}
	for _, friend := range friends {
		fmt.Printf("%d\t%s\n", friend.ID, friend.FullName())
	}
	return nil
}
