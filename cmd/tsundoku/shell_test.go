// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/client/nav"
	"github.com/harutoki/tsundoku/pkg/apiclient"
)

// shellServer serves one folder with one book and counts sign-outs.
func shellServer(t *testing.T, logoutCalls *int) *httptest.Server {
	t.Helper()

	wrap := func(writer http.ResponseWriter, data any) {
		writer.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(writer).Encode(map[string]any{"data": data}))
	}

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/auth/me":
			wrap(writer, map[string]string{"id": "user-1", "email": "haru@example.com", "role": "user"})
		case "/api/v1/auth/logout":
			*logoutCalls++
			writer.WriteHeader(http.StatusNoContent)
		case "/api/v1/folders":
			wrap(writer, []map[string]any{{"id": "folder-1", "name": "Shounen", "book_count": 1}})
		case "/api/v1/books":
			wrap(writer, []map[string]any{{
				"id": "book-1", "folder_id": "folder-1", "title": "Naruto",
				"status": "reading", "progress": 400, "total_chapters": 700,
			}})
		default:
			t.Fatalf("unexpected request %s %s", request.Method, request.URL.Path)
		}
	}))
}

/*
TestShell_QuitTearsDownSession verifies leaving the shell walks the
navigation machine back to the root and signs the session out, even
when quit is issued deep inside a folder.
*/
func TestShell_QuitTearsDownSession(t *testing.T) {
	logoutCalls := 0
	server := shellServer(t, &logoutCalls)
	defer server.Close()

	application, err := newApp(server.URL, apiclient.WithToken("at-1"))
	require.NoError(t, err)
	require.NoError(t, application.session.Restore(context.Background()))

	session := &shell{app: application, out: &bytes.Buffer{}}
	input := strings.NewReader("open folder-1\nquit\n")
	require.NoError(t, session.run(context.Background(), input))

	assert.Equal(t, nav.ScreenFolders, application.nav.Current())
	assert.Equal(t, nav.Context{}, application.nav.Context())
	assert.Equal(t, 1, logoutCalls)
	assert.Nil(t, application.session.Snapshot().Identity)
}
