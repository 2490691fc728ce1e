/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chemist-edu/apiserver/config"
	"github.com/chemist-edu/apiserver/internal/roles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the chemist server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		ctx := cmd.Context()

		manager, stateDB, err := newSessionManager(ctx, cfg)
		if err != nil {
			return err
		}
		defer stateDB.Close()

		if err := manager.Initialize(ctx); err == nil && manager.IsAuthenticated() {
			if account, ok := manager.Account(); ok {
				fmt.Printf("Already signed in as %s\n", account.Username)
				return nil
			}
		}

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(username)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		if err := manager.Login(ctx, username, string(password)); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		account, _ := manager.Account()
		fmt.Printf("Signed in as %s (%s)\n", account.Username, roles.CurrentRoleName(account))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
