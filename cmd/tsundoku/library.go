// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harutoki/tsundoku/internal/library/book"
	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/pointer"
)

// # Folder Commands

func foldersCommand(build func() (*app, error)) *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "folders",
		Short: "Manage library folders",
	}
	command.PersistentFlags().StringVarP(&email, "email", "e", "", "Account email")
	command.PersistentFlags().StringVarP(&password, "password", "p", "", "Account password")

	// authed signs in, then hands the app to the action.
	authed := func(action func(command *cobra.Command, application *app) error) func(*cobra.Command, []string) error {
		return func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}
			return action(command, application)
		}
	}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List folders with their book counts",
		RunE: authed(func(command *cobra.Command, application *app) error {
			if err := application.folders.Refresh(command.Context()); err != nil {
				return err
			}
			application.folders.SetFilter(filter)

			writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tBOOKS")
			for _, item := range application.folders.Visible() {
				fmt.Fprintf(writer, "%s\t%s\t%d\n", item.ID, item.Name, item.BookCount)
			}
			return writer.Flush()
		}),
	}
	list.Flags().StringVar(&filter, "filter", "", "Show only folders whose name matches")

	var name, color string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a folder",
		RunE: authed(func(command *cobra.Command, application *app) error {
			created, err := application.folders.Create(command.Context(), folder.CreateInput{Name: name, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "created folder %s (%s)\n", created.Name, created.ID)
			return nil
		}),
	}
	create.Flags().StringVar(&name, "name", "", "Folder name")
	create.Flags().StringVar(&color, "color", "", "Display color, e.g. #1d4ed8")
	_ = create.MarkFlagRequired("name")

	var renameID, newName string
	rename := &cobra.Command{
		Use:   "rename",
		Short: "Rename a folder",
		RunE: authed(func(command *cobra.Command, application *app) error {
			if err := application.folders.Refresh(command.Context()); err != nil {
				return err
			}
			updated, err := application.folders.Update(command.Context(), renameID, folder.UpdateInput{
				Name: pointer.To(newName),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "renamed folder to %s\n", updated.Name)
			return nil
		}),
	}
	rename.Flags().StringVar(&renameID, "id", "", "Folder ID")
	rename.Flags().StringVar(&newName, "name", "", "New name")
	_ = rename.MarkFlagRequired("id")
	_ = rename.MarkFlagRequired("name")

	var deleteID string
	var force bool
	remove := &cobra.Command{
		Use:   "rm",
		Short: "Delete a folder and everything in it",
		RunE: authed(func(command *cobra.Command, application *app) error {
			if err := application.folders.Refresh(command.Context()); err != nil {
				return err
			}
			// Deleting a folder cascades to its books, so a non-empty one
			// needs the explicit --force acknowledgement.
			if count := application.folders.Count(deleteID); count > 0 && !force {
				return apperr.Conflict(fmt.Sprintf(
					"Folder still holds %d books; pass --force to delete them too", count))
			}
			if err := application.folders.Delete(command.Context(), deleteID); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "folder deleted")
			return nil
		}),
	}
	remove.Flags().StringVar(&deleteID, "id", "", "Folder ID")
	remove.Flags().BoolVar(&force, "force", false, "Delete even when the folder is not empty")
	_ = remove.MarkFlagRequired("id")

	command.AddCommand(list, create, rename, remove)
	return command
}

// # Book Commands

func booksCommand(build func() (*app, error)) *cobra.Command {
	var email, password, folderID string

	command := &cobra.Command{
		Use:   "books",
		Short: "Manage the books inside a folder",
	}
	command.PersistentFlags().StringVarP(&email, "email", "e", "", "Account email")
	command.PersistentFlags().StringVarP(&password, "password", "p", "", "Account password")
	command.PersistentFlags().StringVar(&folderID, "folder", "", "Folder ID to operate in")

	// opened signs in, drills into the folder and loads its books.
	opened := func(action func(command *cobra.Command, application *app) error) func(*cobra.Command, []string) error {
		return func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}
			if err := application.folders.Refresh(command.Context()); err != nil {
				return err
			}
			target := application.folders.Get(folderID)
			if target == nil {
				return apperr.NotFound("Folder")
			}
			if err := application.nav.OpenFolder(target.ID, target.Name); err != nil {
				return err
			}
			if err := application.books.Open(command.Context(), target.ID); err != nil {
				return err
			}
			return action(command, application)
		}
	}

	var search, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered by text and status",
		RunE: opened(func(command *cobra.Command, application *app) error {
			application.books.SetTextFilter(search)
			if err := application.books.SetStatusFilter(book.Status(status)); err != nil {
				return err
			}

			writer := tabwriter.NewWriter(command.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tTITLE\tAUTHOR\tSTATUS\tPROGRESS")
			for _, item := range application.books.Visible() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d/%d\n",
					item.ID, item.Title, item.Author, item.Status, item.Progress, item.TotalChapters)
			}
			return writer.Flush()
		}),
	}
	list.Flags().StringVar(&search, "search", "", "Match title or author")
	list.Flags().StringVar(&status, "status", "", "Restrict to one reading status")

	var title, author, language string
	var totalChapters int
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a title to the folder",
		RunE: opened(func(command *cobra.Command, application *app) error {
			created, err := application.books.Create(command.Context(), book.CreateInput{
				Title:         title,
				Author:        author,
				Language:      language,
				TotalChapters: totalChapters,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "added %q (%s) as %s\n", created.Title, created.ID, created.Status)
			return nil
		}),
	}
	add.Flags().StringVar(&title, "title", "", "Title")
	add.Flags().StringVar(&author, "author", "", "Author")
	add.Flags().StringVar(&language, "language", "", "Original language")
	add.Flags().IntVar(&totalChapters, "chapters", 0, "Total chapter count")
	_ = add.MarkFlagRequired("title")

	var setID, setStatus string
	var setProgress int
	var setRating float64
	set := &cobra.Command{
		Use:   "set",
		Short: "Update progress, status or rating",
		RunE: opened(func(command *cobra.Command, application *app) error {
			if err := application.books.BeginEdit(setID); err != nil {
				return err
			}
			stageErr := application.books.Stage(func(draft *book.UpdateInput) {
				if command.Flags().Changed("progress") {
					draft.Progress = pointer.To(setProgress)
				}
				if command.Flags().Changed("status") {
					draft.Status = pointer.To(book.Status(setStatus))
				}
				if command.Flags().Changed("rating") {
					draft.Rating = pointer.To(setRating)
				}
			})
			if stageErr != nil {
				return stageErr
			}

			updated, err := application.books.CommitEdit(command.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "%q is now %s at %d/%d\n",
				updated.Title, updated.Status, updated.Progress, updated.TotalChapters)
			return nil
		}),
	}
	set.Flags().StringVar(&setID, "id", "", "Book ID")
	set.Flags().IntVar(&setProgress, "progress", 0, "Chapters read")
	set.Flags().StringVar(&setStatus, "status", "", "Reading status")
	set.Flags().Float64Var(&setRating, "rating", 0, "Personal score within [0, 5]")
	_ = set.MarkFlagRequired("id")

	var moveID, moveTo string
	move := &cobra.Command{
		Use:   "move",
		Short: "Move a book into another folder",
		RunE: opened(func(command *cobra.Command, application *app) error {
			moved, err := application.books.Move(command.Context(), moveID, moveTo)
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "moved %q to folder %s\n", moved.Title, moved.FolderID)
			return nil
		}),
	}
	move.Flags().StringVar(&moveID, "id", "", "Book ID")
	move.Flags().StringVar(&moveTo, "to", "", "Destination folder ID")
	_ = move.MarkFlagRequired("id")
	_ = move.MarkFlagRequired("to")

	var copyID, copyTo string
	duplicate := &cobra.Command{
		Use:   "copy",
		Short: "Copy a book into another folder",
		RunE: opened(func(command *cobra.Command, application *app) error {
			copied, err := application.books.Copy(command.Context(), copyID, copyTo)
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), "copied %q into folder %s as %s\n", copied.Title, copied.FolderID, copied.ID)
			return nil
		}),
	}
	duplicate.Flags().StringVar(&copyID, "id", "", "Book ID")
	duplicate.Flags().StringVar(&copyTo, "to", "", "Destination folder ID")
	_ = duplicate.MarkFlagRequired("id")
	_ = duplicate.MarkFlagRequired("to")

	var removeID string
	remove := &cobra.Command{
		Use:   "rm",
		Short: "Delete a book",
		RunE: opened(func(command *cobra.Command, application *app) error {
			if err := application.books.Delete(command.Context(), removeID); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), "book deleted")
			return nil
		}),
	}
	remove.Flags().StringVar(&removeID, "id", "", "Book ID")
	_ = remove.MarkFlagRequired("id")

	command.AddCommand(list, add, set, move, duplicate, remove)
	return command
}
