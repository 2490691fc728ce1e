/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chemist-edu/apiserver/config"
	"github.com/chemist-edu/apiserver/internal/roles"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		manager, stateDB, err := newSessionManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer stateDB.Close()

		if err := manager.Initialize(ctx); err != nil || !manager.IsAuthenticated() {
			return errors.New("not signed in")
		}

		account, ok := manager.Account()
		if !ok {
			return errors.New("not signed in")
		}

		fmt.Printf("Username: %s\n", account.Username)
		fmt.Printf("Name:     %s\n", account.Name)
		fmt.Printf("Email:    %s\n", account.Email)
		fmt.Printf("Roles:    %s\n", strings.Join(roles.AllRoleNames(account), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
