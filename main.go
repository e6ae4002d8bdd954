// Package main provides the entry point for the bayclub-to-splitwise CLI.
package main

import (
	"os"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/auth"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/expenses"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/friends"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/members"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/upload"
)

func init() {
	root.Init()
	upload.Init()
	expenses.Init()
	auth.Init()

	root.Cmd.AddCommand(upload.Cmd)
	root.Cmd.AddCommand(members.Cmd)
	root.Cmd.AddCommand(expenses.Cmd)
	root.Cmd.AddCommand(friends.Cmd)
	root.Cmd.AddCommand(auth.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		root.Log.Error(err)
		os.Exit(1)
	}
}
