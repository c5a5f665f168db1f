package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the docuflow backend",
	Long: `Authenticate with email and password.

The password is read from the terminal without echo. On success the token
pair and your profile are stored under ~/.docuflow and reused by later
commands until the session expires or you log out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard stored tokens",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	var email string
	if len(args) == 1 {
		email = args[0]
	} else {
		cmd.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return errors.New("email is required")
	}

	cmd.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	session, err := authService.Login(context.Background(), email, string(password))
	if err != nil {
		return err
	}

	cmd.Printf("Logged in as %s\n", session.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	cmd.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	user, ok := authService.CurrentUser()
	if !ok {
		cmd.Println("Not logged in")
		return nil
	}
	if user.FullName != "" {
		cmd.Printf("%s <%s>\n", user.FullName, user.Email)
	} else {
		cmd.Println(user.Email)
	}
	return nil
}
