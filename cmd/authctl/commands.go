package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/authclient/pkg/auth"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

func loginCmd(flags *globalFlags) *cobra.Command {
	var (
		email    string
		password string
		redirect string
		remember bool
		logout   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the current user",
		Long: `Log in with email and password, then print the user the backend returns.
The password may also be given in AUTHCLIENT_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("AUTHCLIENT_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			c, err := newClient(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var query url.Values
			if redirect != "" {
				query = url.Values{auth.RedirectParam: {redirect}}
			}
			target, err := c.Auth.Login(ctx, auth.Credentials{Identifier: email, Secret: password, Remember: remember}, query)
			if err != nil {
				return describe(err)
			}

			user, _ := c.Session.CurrentUser()
			fmt.Fprintf(os.Stderr, "logged in, redirect target %s\n", target)
			if err := printJSON(user); err != nil {
				return err
			}

			if logout {
				c.Auth.Logout(ctx)
				fmt.Fprintln(os.Stderr, "logged out")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&redirect, "redirect", "", "page to return to after login")
	cmd.Flags().BoolVar(&remember, "remember", false, "ask for a long-lived session")
	cmd.Flags().BoolVar(&logout, "logout", false, "log out again before exiting")

	return cmd
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Restore the session and print the current user",
		Long:  `Restore the session from the cookies given with --cookie and print the current user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(flags)
			if err != nil {
				return err
			}

			c.Restore(cmd.Context())
			user, ok := c.Session.CurrentUser()
			if !ok {
				return errors.New("not logged in")
			}
			return printJSON(user)
		},
	}
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session given with --cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(flags)
			if err != nil {
				return err
			}
			c.Auth.Logout(cmd.Context())
			fmt.Fprintln(os.Stderr, "logged out")
			return nil
		},
	}
}

func csrfCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "csrf",
		Short: "Fetch a CSRF token and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(flags)
			if err != nil {
				return err
			}
			token, err := c.Tokens.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}

// describe turns a transport error into something readable on a terminal.
func describe(err error) error {
	fields := transport.FieldErrors(err)
	if len(fields) == 0 {
		return fmt.Errorf("%s (%w)", transport.Message(err), err)
	}
	msg := transport.Message(err)
	for _, fe := range fields {
		msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
	}
	return errors.New(msg)
}
