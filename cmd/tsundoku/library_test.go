// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/apiclient"
)

// libraryCalls counts the endpoints the tests care about.
type libraryCalls struct {
	login  int
	delete int
}

// libraryServer is a minimal API double: one signed-in user and one
// folder with three books.
func libraryServer(t *testing.T, calls *libraryCalls) *httptest.Server {
	t.Helper()

	wrap := func(writer http.ResponseWriter, data any) {
		writer.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(writer).Encode(map[string]any{"data": data}))
	}

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.URL.Path == "/api/v1/auth/login":
			calls.login++
			wrap(writer, map[string]any{
				"access_token": "at-1",
				"user":         map[string]string{"id": "user-1", "email": "haru@example.com", "role": "user"},
			})
		case request.URL.Path == "/api/v1/auth/me":
			wrap(writer, map[string]string{"id": "user-1", "email": "haru@example.com", "role": "user"})
		case request.URL.Path == "/api/v1/folders" && request.Method == http.MethodGet:
			wrap(writer, []map[string]any{
				{"id": "folder-1", "name": "Shounen", "book_count": 3},
			})
		case request.URL.Path == "/api/v1/folders/folder-1" && request.Method == http.MethodDelete:
			calls.delete++
			writer.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", request.Method, request.URL.Path)
		}
	}))
}

func runFolders(t *testing.T, baseURL string, args ...string) error {
	t.Helper()

	command := foldersCommand(func() (*app, error) { return newApp(baseURL) })
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(append(args, "--email", "haru@example.com", "--password", "s3cret-pass"))
	return command.Execute()
}

/*
TestFoldersRemove_NonEmptyNeedsForce verifies that deleting a folder
that still holds books is refused until the caller passes --force; the
refusal happens before any delete request reaches the server.
*/
func TestFoldersRemove_NonEmptyNeedsForce(t *testing.T) {
	calls := &libraryCalls{}
	server := libraryServer(t, calls)
	defer server.Close()

	err := runFolders(t, server.URL, "rm", "--id", "folder-1")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "3 books")
	assert.Equal(t, 0, calls.delete)
}

/*
TestFoldersRemove_ForcedDelete verifies --force acknowledges the cascade
and issues the delete.
*/
func TestFoldersRemove_ForcedDelete(t *testing.T) {
	calls := &libraryCalls{}
	server := libraryServer(t, calls)
	defer server.Close()

	require.NoError(t, runFolders(t, server.URL, "rm", "--id", "folder-1", "--force"))
	assert.Equal(t, 1, calls.delete)
}

/*
TestFoldersList_TokenRestore verifies a stored access token restores the
session without a credential exchange: the listing succeeds and the
login endpoint is never hit.
*/
func TestFoldersList_TokenRestore(t *testing.T) {
	calls := &libraryCalls{}
	server := libraryServer(t, calls)
	defer server.Close()

	command := foldersCommand(func() (*app, error) {
		return newApp(server.URL, apiclient.WithToken("at-1"))
	})
	out := &bytes.Buffer{}
	command.SetOut(out)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"list"})

	require.NoError(t, command.Execute())
	assert.Contains(t, out.String(), "signed in as haru@example.com")
	assert.Contains(t, out.String(), "Shounen")
	assert.Equal(t, 0, calls.login)
}
