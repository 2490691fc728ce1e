/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/chemist-edu/apiserver/config"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		manager, stateDB, err := newSessionManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer stateDB.Close()

		manager.Logout(ctx)
		fmt.Println("Signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
