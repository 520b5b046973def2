package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the Sentra user token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Register and store a user token (reads stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := ""
		if len(args) > 0 {
			token = args[0]
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), "Enter user token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = line
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.SetUserToken(cmd.Context(), strings.TrimSpace(token)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token registered.")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored user and access tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
		return nil
	},
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.session.Status()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User token:   %s\n", presence(status.HasUserToken))
		fmt.Fprintf(out, "Access token: %s\n", presence(status.HasAccessToken))
		return nil
	},
}

func presence(ok bool) string {
	if ok {
		return "set"
	}
	return "not set"
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd, tokenStatusCmd)
	rootCmd.AddCommand(tokenCmd)
}
