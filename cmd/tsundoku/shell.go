// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harutoki/tsundoku/internal/client/nav"
	"github.com/harutoki/tsundoku/internal/library/book"
	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/pkg/convert"
	"github.com/harutoki/tsundoku/pkg/pointer"
)

// # Interactive Shell

// shell is the interactive session: one signed-in app whose navigation
// machine decides what each command means on the current screen.
type shell struct {
	app *app
	out io.Writer
}

func shellCommand(build func() (*app, error)) *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "shell",
		Short: "Interactive library browser",
		RunE: func(command *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			if err := signIn(command, application, email, password); err != nil {
				return err
			}

			session := &shell{app: application, out: command.OutOrStdout()}
			return session.run(command.Context(), command.InOrStdin())
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "Account email; omit to restore the session from --token")
	command.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return command
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	if err := s.app.folders.Refresh(ctx); err != nil {
		return err
	}
	s.list(ctx)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.app.nav.Current())
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		verb, args := fields[0], fields[1:]

		if verb == "quit" || verb == "exit" {
			// Teardown mirrors sign-out everywhere else: navigation
			// returns to the root before the session is dropped.
			s.app.nav.Reset()
			s.app.books.DiscardEdit()
			return s.app.session.SignOut(ctx)
		}

		if err := s.dispatch(ctx, verb, args); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *shell) dispatch(ctx context.Context, verb string, args []string) error {
	switch verb {
	case "help":
		s.help()
		return nil
	case "ls":
		s.list(ctx)
		return nil
	case "open":
		return s.open(ctx, args)
	case "back":
		fromDetail := s.app.nav.Current() == nav.ScreenBookDetail
		if !s.app.nav.Back() {
			fmt.Fprintln(s.out, "already at the folders screen")
			return nil
		}
		if fromDetail {
			s.app.books.DiscardEdit()
		}
		s.list(ctx)
		return nil
	case "search":
		return s.search(ctx, args)
	case "status":
		return s.status(ctx, args)
	case "mkdir":
		return s.mkdir(ctx, args)
	case "add":
		return s.add(ctx, args)
	case "set":
		return s.set(ctx, args)
	case "settings":
		if err := s.app.nav.OpenSettings(); err != nil {
			return err
		}
		s.settings()
		return nil
	case "admin":
		if err := s.app.nav.OpenAdmin(); err != nil {
			return err
		}
		return s.adminOverview(ctx)
	default:
		fmt.Fprintf(s.out, "unknown command %q; try help\n", verb)
		return nil
	}
}

func (s *shell) help() {
	fmt.Fprint(s.out, `commands:
  ls                   show the current screen
  open <id>            open a folder, or a book inside one
  back                 go up one screen
  search <text>        filter the current listing (empty clears)
  status <status>      restrict books to one reading status
  mkdir <name>         create a folder (folders screen)
  add <title...>       add a book (books screen)
  set progress|status|rating <value>   edit the open book
  settings             show the signed-in account
  admin                open the usage overview (admins only)
  quit                 sign out and leave
`)
}

// list renders whatever the current screen shows.
func (s *shell) list(ctx context.Context) {
	switch s.app.nav.Current() {
	case nav.ScreenFolders:
		writer := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "ID\tNAME\tBOOKS")
		for _, item := range s.app.folders.Visible() {
			fmt.Fprintf(writer, "%s\t%s\t%d\n", item.ID, item.Name, item.BookCount)
		}
		_ = writer.Flush()
	case nav.ScreenBooks:
		writer := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "ID\tTITLE\tAUTHOR\tSTATUS\tPROGRESS")
		for _, item := range s.app.books.Visible() {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d/%d\n",
				item.ID, item.Title, item.Author, item.Status, item.Progress, item.TotalChapters)
		}
		_ = writer.Flush()
	case nav.ScreenBookDetail:
		s.detail()
	case nav.ScreenSettings:
		s.settings()
	case nav.ScreenAdmin:
		_ = s.adminOverview(ctx)
	}
}

func (s *shell) detail() {
	item := s.app.books.GetByID(s.app.nav.Context().BookID)
	if item == nil {
		fmt.Fprintln(s.out, "book no longer exists")
		return
	}
	fmt.Fprintf(s.out, "%s — %s\n", item.Title, item.Author)
	fmt.Fprintf(s.out, "  status:   %s\n", item.Status)
	fmt.Fprintf(s.out, "  progress: %d/%d\n", item.Progress, item.TotalChapters)
	fmt.Fprintf(s.out, "  rating:   %.1f\n", item.Rating)
	if item.LastRead != nil {
		fmt.Fprintf(s.out, "  last read: %s\n", item.LastRead.Format("2006-01-02"))
	}
	if item.FinishDate != nil {
		fmt.Fprintf(s.out, "  finished:  %s\n", item.FinishDate.Format("2006-01-02"))
	}
}

// open drills down: a folder from the folders screen, a book from the
// books screen.
func (s *shell) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: open <id>")
		return nil
	}

	switch s.app.nav.Current() {
	case nav.ScreenFolders:
		target := s.app.folders.Get(args[0])
		if target == nil {
			fmt.Fprintln(s.out, "no such folder")
			return nil
		}
		if err := s.app.books.Open(ctx, target.ID); err != nil {
			return err
		}
		if err := s.app.nav.OpenFolder(target.ID, target.Name); err != nil {
			return err
		}
	case nav.ScreenBooks:
		if s.app.books.GetByID(args[0]) == nil {
			fmt.Fprintln(s.out, "no such book")
			return nil
		}
		if err := s.app.nav.OpenBook(args[0]); err != nil {
			return err
		}
		if err := s.app.books.BeginEdit(args[0]); err != nil {
			return err
		}
	default:
		fmt.Fprintln(s.out, "nothing to open here")
		return nil
	}

	s.list(ctx)
	return nil
}

func (s *shell) search(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	switch s.app.nav.Current() {
	case nav.ScreenFolders:
		s.app.folders.SetFilter(text)
	case nav.ScreenBooks:
		s.app.books.SetTextFilter(text)
	default:
		fmt.Fprintln(s.out, "nothing to search here")
		return nil
	}
	s.list(ctx)
	return nil
}

func (s *shell) status(ctx context.Context, args []string) error {
	if s.app.nav.Current() != nav.ScreenBooks {
		fmt.Fprintln(s.out, "status filtering applies to the books screen")
		return nil
	}
	value := ""
	if len(args) > 0 && args[0] != "all" {
		value = args[0]
	}
	if err := s.app.books.SetStatusFilter(book.Status(value)); err != nil {
		return err
	}
	s.list(ctx)
	return nil
}

func (s *shell) mkdir(ctx context.Context, args []string) error {
	if s.app.nav.Current() != nav.ScreenFolders {
		fmt.Fprintln(s.out, "folders are created from the folders screen")
		return nil
	}
	created, err := s.app.folders.Create(ctx, folder.CreateInput{Name: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "created %s (%s)\n", created.Name, created.ID)
	return nil
}

func (s *shell) add(ctx context.Context, args []string) error {
	if s.app.nav.Current() != nav.ScreenBooks {
		fmt.Fprintln(s.out, "books are added from inside a folder")
		return nil
	}
	created, err := s.app.books.Create(ctx, book.CreateInput{Title: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "added %q as %s\n", created.Title, created.Status)
	return nil
}

// set stages one field on the open book and commits immediately.
func (s *shell) set(ctx context.Context, args []string) error {
	if s.app.nav.Current() != nav.ScreenBookDetail {
		fmt.Fprintln(s.out, "open a book first")
		return nil
	}
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: set progress|status|rating <value>")
		return nil
	}

	err := s.app.books.Stage(func(draft *book.UpdateInput) {
		switch args[0] {
		case "progress":
			draft.Progress = pointer.To(convert.ToInt(args[1]))
		case "status":
			draft.Status = pointer.To(book.Status(args[1]))
		case "rating":
			draft.Rating = pointer.To(convert.ToFloat64(args[1]))
		}
	})
	if err != nil {
		return err
	}

	updated, err := s.app.books.CommitEdit(ctx)
	if err != nil {
		return err
	}
	// Keep editing the same book so further sets work.
	if err := s.app.books.BeginEdit(updated.ID); err != nil {
		return err
	}
	s.detail()
	return nil
}

func (s *shell) settings() {
	snapshot := s.app.session.Snapshot()
	if snapshot.Identity == nil {
		fmt.Fprintln(s.out, "not signed in")
		return
	}
	fmt.Fprintf(s.out, "account: %s\n", snapshot.Identity.Email)
	if snapshot.Identity.Admin {
		fmt.Fprintln(s.out, "role:    admin")
	} else {
		fmt.Fprintln(s.out, "role:    user")
	}
}

func (s *shell) adminOverview(ctx context.Context) error {
	if err := s.app.adminView.RefreshStats(ctx); err != nil {
		return err
	}
	overview := s.app.adminView.Stats()

	fmt.Fprintf(s.out, "users: %d (est. active %d)  books: %d  folders: %d\n",
		overview.TotalUsers, overview.ActiveUsers, overview.TotalBooks, overview.TotalFolders)
	for _, genre := range overview.TopGenres {
		fmt.Fprintf(s.out, "  %-20s %d\n", genre.Genre, genre.Count)
	}
	return nil
}
