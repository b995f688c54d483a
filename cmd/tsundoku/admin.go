// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// # Admin Commands

func adminCommand(build func() (*app, error)) *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "admin",
		Short: "Aggregate usage overview (admin accounts only)",
	}
	command.PersistentFlags().StringVarP(&email, "email", "e", "", "Admin account email")
	command.PersistentFlags().StringVarP(&password, "password", "p", "", "Admin account password")

	// gated signs in and enters the admin screen, which fails for
	// non-admin accounts before any admin request is made.
	gated := func(action func(command *cobra.Command, application *app) error) func(*cobra.Command, []string) error {
		return func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}
			if err := application.nav.OpenAdmin(); err != nil {
				return err
			}
			return action(command, application)
		}
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show totals, the active-user estimate and top genres",
		RunE: gated(func(command *cobra.Command, application *app) error {
			if err := application.adminView.RefreshStats(command.Context()); err != nil {
				return err
			}
			overview := application.adminView.Stats()

			out := command.OutOrStdout()
			fmt.Fprintf(out, "users:          %d\n", overview.TotalUsers)
			fmt.Fprintf(out, "active (est.):  %d\n", overview.ActiveUsers)
			fmt.Fprintf(out, "books:          %d\n", overview.TotalBooks)
			fmt.Fprintf(out, "folders:        %d\n", overview.TotalFolders)
			fmt.Fprintln(out, "top genres:")
			for _, genre := range overview.TopGenres {
				fmt.Fprintf(out, "  %-20s %d\n", genre.Genre, genre.Count)
			}
			fmt.Fprintf(out, "generated at:   %s\n", overview.GeneratedAt.Format("2006-01-02 15:04:05"))
			return nil
		}),
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "List every account with its book count",
		RunE: gated(func(command *cobra.Command, application *app) error {
			if err := application.adminView.RefreshUsers(command.Context()); err != nil {
				return err
			}

			writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tEMAIL\tROLE\tBOOKS")
			for _, row := range application.adminView.Users() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", row.ID, row.Email, row.Role, row.BookCount)
			}
			return writer.Flush()
		}),
	}

	recent := &cobra.Command{
		Use:   "books",
		Short: "List the most recently added books across all users",
		RunE: gated(func(command *cobra.Command, application *app) error {
			if err := application.adminView.RefreshBooks(command.Context()); err != nil {
				return err
			}

			writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tOWNER\tTITLE\tSTATUS")
			for _, row := range application.adminView.Books() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", row.ID, row.OwnerEmail, row.Title, row.Status)
			}
			return writer.Flush()
		}),
	}

	var removeUserID string
	removeUser := &cobra.Command{
		Use:   "rm-user",
		Short: "Delete an account and its entire library",
		RunE: gated(func(command *cobra.Command, application *app) error {
			if err := application.adminView.DeleteUser(command.Context(), removeUserID); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "account deleted")
			return nil
		}),
	}
	removeUser.Flags().StringVar(&removeUserID, "id", "", "Account ID")
	_ = removeUser.MarkFlagRequired("id")

	var removeBookID string
	removeBook := &cobra.Command{
		Use:   "rm-book",
		Short: "Delete one book from any library",
		RunE: gated(func(command *cobra.Command, application *app) error {
			if err := application.adminView.DeleteBook(command.Context(), removeBookID); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "book deleted")
			return nil
		}),
	}
	removeBook.Flags().StringVar(&removeBookID, "id", "", "Book ID")
	_ = removeBook.MarkFlagRequired("id")

	command.AddCommand(stats, users, recent, removeUser, removeBook)
	return command
}
