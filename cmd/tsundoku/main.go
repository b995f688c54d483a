// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Command tsundoku is the terminal client for the Tsundoku API.

It drives the client-core managers (session, navigation, folders, books,
admin view) over the HTTP API client, so the terminal frontend obeys the
same rules as any other frontend: local state mutates only from server
responses, one request in flight at a time, admin surfaces gated on the
probed role.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harutoki/tsundoku/internal/client/adminview"
	"github.com/harutoki/tsundoku/internal/client/books"
	"github.com/harutoki/tsundoku/internal/client/folders"
	"github.com/harutoki/tsundoku/internal/client/nav"
	"github.com/harutoki/tsundoku/internal/client/session"
	"github.com/harutoki/tsundoku/pkg/apiclient"
)

const defaultBaseURL = "http://localhost:8080"

// app bundles the client-core managers behind one handle shared by all
// subcommands.
type app struct {
	client    *apiclient.Client
	session   *session.Manager
	nav       *nav.Machine
	folders   *folders.Manager
	books     *books.Manager
	adminView *adminview.Manager
}

func newApp(baseURL string, options ...apiclient.Option) (*app, error) {
	client, err := apiclient.New(baseURL, options...)
	if err != nil {
		return nil, err
	}

	application := &app{client: client}
	application.session = session.NewManager(client)
	application.nav = nav.NewMachine(application.session.IsAdmin)
	application.folders = folders.NewManager(client)
	application.books = books.NewManager(client)
	application.adminView = adminview.NewManager(client, application.session.IsAdmin)
	return application, nil
}

func main() {
	var baseURL string

	root := &cobra.Command{
		Use:           "tsundoku",
		Short:         "Track your reading backlog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "api", envOr("TSUNDOKU_API", defaultBaseURL), "Base URL of the Tsundoku API")

	var token string
	root.PersistentFlags().StringVar(&token, "token", envOr("TSUNDOKU_TOKEN", ""), "Access token from a previous login; lets commands run without --email")

	// Each invocation builds a fresh app. With a token the prior session
	// is restored; otherwise the credential flags sign in anew.
	build := func() (*app, error) {
		if token != "" {
			return newApp(baseURL, apiclient.WithToken(token))
		}
		return newApp(baseURL)
	}

	root.AddCommand(
		registerCommand(build),
		loginCommand(build),
		passwdCommand(build),
		foldersCommand(build),
		booksCommand(build),
		adminCommand(build),
		shellCommand(build),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// signIn prompts nothing: credentials come from flags, and the session
// manager performs the sign-in plus role probe. Without credentials the
// session carried by --token (or TSUNDOKU_TOKEN) is restored instead.
func signIn(command *cobra.Command, application *app, email, password string) error {
	if email == "" {
		if err := application.session.Restore(command.Context()); err != nil {
			return err
		}
	} else if err := application.session.SignIn(command.Context(), email, password); err != nil {
		return err
	}

	snapshot := application.session.Snapshot()
	fmt.Fprintf(command.OutOrStdout(), "signed in as %s", snapshot.Identity.Email)
	if snapshot.Identity.Admin {
		fmt.Fprint(command.OutOrStdout(), " (admin)")
	}
	fmt.Fprintln(command.OutOrStdout())
	return nil
}

func registerCommand(build func() (*app, error)) *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := application.session.SignUp(command.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "account created; sign in with `tsundoku login`")
			return nil
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "Account email")
	command.Flags().StringVarP(&password, "password", "p", "", "Account password (8+ characters)")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func loginCommand(build func() (*app, error)) *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "login",
		Short: "Sign in and show the resolved identity",
		RunE: func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(),
				"export TSUNDOKU_TOKEN=%s to reuse this session until it expires\n",
				application.client.AccessToken())
			return nil
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "Account email")
	command.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func passwdCommand(build func() (*app, error)) *cobra.Command {
	var email, password, newPassword string

	command := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}
			if err := application.session.ChangePassword(command.Context(), password, newPassword); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "password changed; other sessions were signed out")
			return nil
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "Account email")
	command.Flags().StringVarP(&password, "password", "p", "", "Current password")
	command.Flags().StringVar(&newPassword, "new-password", "", "New password (8+ characters)")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	_ = command.MarkFlagRequired("new-password")
	return command
}
