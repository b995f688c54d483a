// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

/*
Package apiclient is the HTTP client for the Tsundoku API.

It speaks the server's JSON envelopes (a "data" wrapper on success, an
"error"/"code"/"details" triple on failure) and reconstructs server
errors as [apperr.AppError] values so callers branch on the same codes
on both sides of the wire.

Credential handling: the short-lived access token is held in memory and
sent as a bearer header; the refresh token lives in the cookie jar and
never leaves it. On a 401 the client refreshes once and retries the
request, so callers normally never see token expiry.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/harutoki/tsundoku/internal/admin"
	"github.com/harutoki/tsundoku/internal/client/session"
	"github.com/harutoki/tsundoku/internal/library/book"
	"github.com/harutoki/tsundoku/internal/library/folder"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/internal/platform/sec"
)

// # Definitions & Constructors

const defaultTimeout = 30 * time.Second

// Client is a Tsundoku API client. It implements the remote interfaces
// of the client-side managers.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client. A cookie jar is
// installed if the given client has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithToken seeds the client with a previously issued access token, so
// a session can be restored without exchanging credentials again.
func WithToken(token string) Option {
	return func(client *Client) { client.accessToken = token }
}

/*
New constructs a Client for the given base URL.

Parameters:
  - baseURL: string, e.g. "https://api.tsundoku.page" (a trailing slash
    is tolerated)
  - options: ...Option

Returns:
  - *Client: The configured client
  - error: Invalid base URL
*/
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient_invalid_base_url: %q", baseURL)
	}

	client := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, option := range options {
		option(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient_cookie_jar_failed: %w", err)
		}
		client.httpClient.Jar = jar
	}

	return client, nil
}

func (client *Client) token() string {
	client.mu.Lock()
	defer client.mu.Unlock()
	return client.accessToken
}

// AccessToken returns the current access token, empty when signed out.
// Callers that want to reuse a session later hand it back via
// [WithToken].
func (client *Client) AccessToken() string {
	return client.token()
}

func (client *Client) setToken(token string) {
	client.mu.Lock()
	client.accessToken = token
	client.mu.Unlock()
}

// # Transport

// envelope mirrors the server's success wrapper with the payload left
// raw for the caller to decode.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorEnvelope mirrors the server's error wrapper.
type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// do issues one API request and decodes the success envelope into out
// (out may be nil for 204 responses). A 401 on an authenticated request
// triggers a single refresh-and-retry.
func (client *Client) do(context context.Context, method, path string, body, out any) error {
	err := client.doOnce(context, method, path, body, out)
	if err == nil {
		return nil
	}

	appErr := apperr.As(err)
	if appErr == nil || appErr.Code != "UNAUTHORIZED" || path == "/api/v1/auth/login" || path == "/api/v1/auth/refresh" {
		return err
	}

	if refreshErr := client.refresh(context); refreshErr != nil {
		return err
	}
	return client.doOnce(context, method, path, body, out)
}

func (client *Client) doOnce(context context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient_encode_failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient_build_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := client.token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("apiclient_request_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNoContent {
		return nil
	}

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("apiclient_read_body_failed: %w", err)
	}

	if response.StatusCode >= 400 {
		return decodeError(response.StatusCode, payload)
	}

	if out == nil {
		return nil
	}

	var wrapped envelope
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return fmt.Errorf("apiclient_decode_envelope_failed: %w", err)
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		return fmt.Errorf("apiclient_decode_payload_failed: %w", err)
	}
	return nil
}

// decodeError rebuilds the server's AppError so client code can branch
// on the same machine-readable codes the server uses.
func decodeError(statusCode int, payload []byte) error {
	var wrapped errorEnvelope
	if err := json.Unmarshal(payload, &wrapped); err != nil || wrapped.Code == "" {
		return &apperr.AppError{
			Code:       "INTERNAL_ERROR",
			Message:    fmt.Sprintf("Unexpected response (status %d)", statusCode),
			HTTPStatus: statusCode,
		}
	}
	return &apperr.AppError{
		Code:       wrapped.Code,
		Message:    wrapped.Error,
		HTTPStatus: statusCode,
		Details:    wrapped.Details,
	}
}

// # Auth Endpoints

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string       `json:"id"`
		Email string       `json:"email"`
		Role  sec.UserRole `json:"role"`
	} `json:"user"`
}

// SignUp registers a new account. No session is established.
func (client *Client) SignUp(context context.Context, email, password string) error {
	return client.do(context, http.MethodPost, "/api/v1/auth/register",
		credentialsRequest{Email: email, Password: password}, nil)
}

// SignIn exchanges credentials for an access token. The refresh token
// arrives as a cookie and stays in the jar.
func (client *Client) SignIn(context context.Context, email, password string) error {
	var result sessionResponse
	err := client.do(context, http.MethodPost, "/api/v1/auth/login",
		credentialsRequest{Email: email, Password: password}, &result)
	if err != nil {
		return err
	}
	client.setToken(result.AccessToken)
	return nil
}

// refresh rotates the session using the cookie-jar refresh token.
func (client *Client) refresh(context context.Context) error {
	var result sessionResponse
	if err := client.doOnce(context, http.MethodPost, "/api/v1/auth/refresh", nil, &result); err != nil {
		return err
	}
	client.setToken(result.AccessToken)
	return nil
}

// SignOut revokes the session server-side and drops the access token.
// The token is dropped even when revocation fails.
func (client *Client) SignOut(context context.Context) error {
	err := client.do(context, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	client.setToken("")
	return err
}

// ChangePassword rotates the account password.
func (client *Client) ChangePassword(context context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return client.do(context, http.MethodPost, "/api/v1/auth/change-password", body, nil)
}

// Profile resolves the current credentials into an identity. Used on
// startup restore and after sign-in to learn the account's role.
func (client *Client) Profile(context context.Context) (*session.Identity, error) {
	var result struct {
		ID    string       `json:"id"`
		Email string       `json:"email"`
		Role  sec.UserRole `json:"role"`
	}
	if err := client.do(context, http.MethodGet, "/api/v1/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &session.Identity{
		UserID: result.ID,
		Email:  result.Email,
		Admin:  result.Role.AtLeast(sec.RoleAdmin),
	}, nil
}

// # Folder Endpoints

// ListFolders returns all folders with derived book counts.
func (client *Client) ListFolders(context context.Context) ([]*folder.Folder, error) {
	var result []*folder.Folder
	if err := client.do(context, http.MethodGet, "/api/v1/folders", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFolder creates a folder and returns the server's record.
func (client *Client) CreateFolder(context context.Context, input folder.CreateInput) (*folder.Folder, error) {
	body := map[string]string{"name": input.Name, "color": input.Color}
	var result folder.Folder
	if err := client.do(context, http.MethodPost, "/api/v1/folders", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateFolder applies a partial edit. Nil fields are left unchanged.
func (client *Client) UpdateFolder(context context.Context, folderID string, input folder.UpdateInput) (*folder.Folder, error) {
	body := map[string]*string{}
	if input.Name != nil {
		body["name"] = input.Name
	}
	if input.Color != nil {
		body["color"] = input.Color
	}
	var result folder.Folder
	if err := client.do(context, http.MethodPatch, "/api/v1/folders/"+url.PathEscape(folderID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFolder removes a folder and everything in it.
func (client *Client) DeleteFolder(context context.Context, folderID string) error {
	return client.do(context, http.MethodDelete, "/api/v1/folders/"+url.PathEscape(folderID), nil, nil)
}

// # Book Endpoints

// createPayload mirrors book.CreateInput on the wire. The folder and
// title are always sent; everything else is omitted when unset.
type createPayload struct {
	FolderID      string      `json:"folder_id"`
	Title         string      `json:"title"`
	Author        string      `json:"author,omitempty"`
	Status        book.Status `json:"status,omitempty"`
	Progress      int         `json:"progress,omitempty"`
	TotalChapters int         `json:"total_chapters,omitempty"`
	Rating        float64     `json:"rating,omitempty"`
	CoverURL      string      `json:"cover_url,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Synopsis      string      `json:"synopsis,omitempty"`
	Genre         []string    `json:"genre,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Year          *int        `json:"year,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	Language      string      `json:"language,omitempty"`
	Favorite      bool        `json:"favorite,omitempty"`
	StartDate     *time.Time  `json:"start_date,omitempty"`
}

type bookPayload struct {
	FolderID      *string      `json:"folder_id,omitempty"`
	Title         *string      `json:"title,omitempty"`
	Author        *string      `json:"author,omitempty"`
	Status        *book.Status `json:"status,omitempty"`
	Progress      *int         `json:"progress,omitempty"`
	TotalChapters *int         `json:"total_chapters,omitempty"`
	Rating        *float64     `json:"rating,omitempty"`
	CoverURL      *string      `json:"cover_url,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Synopsis      *string      `json:"synopsis,omitempty"`
	Genre         []string     `json:"genre,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Year          *int         `json:"year,omitempty"`
	Publisher     *string      `json:"publisher,omitempty"`
	Language      *string      `json:"language,omitempty"`
	Favorite      *bool        `json:"favorite,omitempty"`
	StartDate     *time.Time   `json:"start_date,omitempty"`
}

type placementPayload struct {
	FolderID string `json:"folder_id"`
}

// ListBooks returns the user's books, optionally filtered by folder and
// status, newest first.
func (client *Client) ListBooks(context context.Context, filter book.Filter) ([]*book.Book, error) {
	values := url.Values{}
	if filter.FolderID != "" {
		values.Set("folder_id", filter.FolderID)
	}
	if filter.Status != "" {
		values.Set("status", string(filter.Status))
	}
	if len(filter.Genre) > 0 {
		values.Set("genre", strings.Join(filter.Genre, ","))
	}
	path := "/api/v1/books"
	if query := values.Encode(); query != "" {
		path += "?" + query
	}

	var result []*book.Book
	if err := client.do(context, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateBook adds a tracked title and returns the server's record with
// defaults and clamping already applied.
func (client *Client) CreateBook(context context.Context, input book.CreateInput) (*book.Book, error) {
	// Unset optional fields are dropped from the payload so the server
	// applies its own defaults instead of storing empty strings.
	body := createPayload{
		FolderID:      input.FolderID,
		Title:         input.Title,
		Author:        input.Author,
		Status:        input.Status,
		Progress:      input.Progress,
		TotalChapters: input.TotalChapters,
		Rating:        input.Rating,
		CoverURL:      input.CoverURL,
		Notes:         input.Notes,
		Synopsis:      input.Synopsis,
		Genre:         input.Genre,
		Tags:          input.Tags,
		Year:          input.Year,
		Publisher:     input.Publisher,
		Language:      input.Language,
		Favorite:      input.Favorite,
		StartDate:     input.StartDate,
	}
	var result book.Book
	if err := client.do(context, http.MethodPost, "/api/v1/books", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBook applies a partial edit. Nil fields are omitted from the
// payload so the server leaves them unchanged.
func (client *Client) UpdateBook(context context.Context, bookID string, input book.UpdateInput) (*book.Book, error) {
	body := bookPayload{
		FolderID:      input.FolderID,
		Title:         input.Title,
		Author:        input.Author,
		Status:        input.Status,
		Progress:      input.Progress,
		TotalChapters: input.TotalChapters,
		Rating:        input.Rating,
		CoverURL:      input.CoverURL,
		Notes:         input.Notes,
		Synopsis:      input.Synopsis,
		Genre:         input.Genre,
		Tags:          input.Tags,
		Year:          input.Year,
		Publisher:     input.Publisher,
		Language:      input.Language,
		Favorite:      input.Favorite,
		StartDate:     input.StartDate,
	}
	var result book.Book
	if err := client.do(context, http.MethodPatch, "/api/v1/books/"+url.PathEscape(bookID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBook removes a tracked title.
func (client *Client) DeleteBook(context context.Context, bookID string) error {
	return client.do(context, http.MethodDelete, "/api/v1/books/"+url.PathEscape(bookID), nil, nil)
}

// MoveBook relocates a book into another folder.
func (client *Client) MoveBook(context context.Context, bookID, folderID string) (*book.Book, error) {
	var result book.Book
	err := client.do(context, http.MethodPost, "/api/v1/books/"+url.PathEscape(bookID)+"/move",
		placementPayload{FolderID: folderID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CopyBook duplicates a book into a destination folder.
func (client *Client) CopyBook(context context.Context, bookID, folderID string) (*book.Book, error) {
	var result book.Book
	err := client.do(context, http.MethodPost, "/api/v1/books/"+url.PathEscape(bookID)+"/copy",
		placementPayload{FolderID: folderID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// # Admin Endpoints

// AdminStats returns the aggregate usage overview.
func (client *Client) AdminStats(context context.Context) (*admin.Stats, error) {
	var result admin.Stats
	if err := client.do(context, http.MethodGet, "/api/v1/admin/stats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminListUsers returns every account with its book count.
func (client *Client) AdminListUsers(context context.Context) ([]*admin.UserRow, error) {
	var result []*admin.UserRow
	if err := client.do(context, http.MethodGet, "/api/v1/admin/users", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AdminListBooks returns the most recently added books across all users.
func (client *Client) AdminListBooks(context context.Context) ([]*admin.BookRow, error) {
	var result []*admin.BookRow
	if err := client.do(context, http.MethodGet, "/api/v1/admin/books", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AdminDeleteUser removes an account and its entire library.
func (client *Client) AdminDeleteUser(context context.Context, userID string) error {
	return client.do(context, http.MethodDelete, "/api/v1/admin/users/"+url.PathEscape(userID), nil, nil)
}

// AdminDeleteBook removes one book from any user's library.
func (client *Client) AdminDeleteBook(context context.Context, bookID string) error {
	return client.do(context, http.MethodDelete, "/api/v1/admin/books/"+url.PathEscape(bookID), nil, nil)
}
