// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package books_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/client/books"
	"github.com/harutoki/tsundoku/internal/library/book"
	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/pkg/pointer"
)

// # Fakes

// fakeRemote mimics the server's normalization: defaults on create,
// clamps on any write, completion forcing progress to the total.
type fakeRemote struct {
	byFolder map[string][]*book.Book
	failAll  error

	createCalls int
	updateCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{byFolder: map[string][]*book.Book{
		"folder-1": {
			{ID: "book-1", FolderID: "folder-1", Title: "Naruto", Author: "Masashi Kishimoto", Status: book.StatusReading, Progress: 400, TotalChapters: 700},
			{ID: "book-2", FolderID: "folder-1", Title: "One Piece", Author: "Eiichiro Oda", Status: book.StatusReading, Progress: 1000, TotalChapters: 1100},
			{ID: "book-3", FolderID: "folder-1", Title: "Mōryō no Hako", Author: "Natsuhiko Kyogoku", Status: book.StatusPlanToRead, Progress: 0, TotalChapters: 1},
		},
		"folder-2": {},
	}}
}

func (remote *fakeRemote) find(bookID string) *book.Book {
	for _, items := range remote.byFolder {
		for _, item := range items {
			if item.ID == bookID {
				return item
			}
		}
	}
	return nil
}

func (remote *fakeRemote) normalize(item *book.Book, progressTouched, completing bool) {
	if item.TotalChapters < 1 {
		item.TotalChapters = 1
	}
	if completing {
		item.Progress = item.TotalChapters
		progressTouched = true
		now := time.Now()
		item.FinishDate = &now
	}
	if item.Progress > item.TotalChapters {
		item.Progress = item.TotalChapters
		progressTouched = true
	}
	if item.Progress < 0 {
		item.Progress = 0
		progressTouched = true
	}
	if item.Rating > book.MaxRating {
		item.Rating = book.MaxRating
	}
	if item.Rating < 0 {
		item.Rating = 0
	}
	if progressTouched {
		now := time.Now()
		item.LastRead = &now
	}
}

func (remote *fakeRemote) ListBooks(_ context.Context, filter book.Filter) ([]*book.Book, error) {
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	items := remote.byFolder[filter.FolderID]
	result := make([]*book.Book, 0, len(items))
	for _, item := range items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		clone := *item
		result = append(result, &clone)
	}
	return result, nil
}

func (remote *fakeRemote) CreateBook(_ context.Context, input book.CreateInput) (*book.Book, error) {
	remote.createCalls++
	if remote.failAll != nil {
		return nil, remote.failAll
	}

	created := &book.Book{
		ID:            "book-new",
		FolderID:      input.FolderID,
		Title:         input.Title,
		Author:        input.Author,
		Status:        input.Status,
		Progress:      input.Progress,
		TotalChapters: input.TotalChapters,
		Rating:        input.Rating,
		Language:      input.Language,
	}
	if created.Status == "" {
		created.Status = book.StatusPlanToRead
	}
	if created.TotalChapters == 0 {
		created.TotalChapters = book.DefaultTotalChapters
	}
	if created.Language == "" {
		created.Language = book.DefaultLanguage
	}
	remote.normalize(created, input.Progress != 0, created.Status == book.StatusCompleted)

	clone := *created
	remote.byFolder[created.FolderID] = append([]*book.Book{&clone}, remote.byFolder[created.FolderID]...)
	return created, nil
}

func (remote *fakeRemote) UpdateBook(_ context.Context, bookID string, input book.UpdateInput) (*book.Book, error) {
	remote.updateCalls++
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	item := remote.find(bookID)
	if item == nil {
		return nil, apperr.NotFound("Book")
	}

	progressTouched := input.Progress != nil && *input.Progress != item.Progress
	completing := input.Status != nil && *input.Status == book.StatusCompleted && item.Status != book.StatusCompleted
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.Progress != nil {
		item.Progress = *input.Progress
	}
	if input.TotalChapters != nil {
		item.TotalChapters = *input.TotalChapters
	}
	if input.Rating != nil {
		item.Rating = *input.Rating
	}
	remote.normalize(item, progressTouched, completing)

	clone := *item
	return &clone, nil
}

func (remote *fakeRemote) DeleteBook(_ context.Context, bookID string) error {
	if remote.failAll != nil {
		return remote.failAll
	}
	for folderID, items := range remote.byFolder {
		kept := items[:0]
		for _, item := range items {
			if item.ID != bookID {
				kept = append(kept, item)
			}
		}
		remote.byFolder[folderID] = kept
	}
	return nil
}

func (remote *fakeRemote) MoveBook(_ context.Context, bookID, folderID string) (*book.Book, error) {
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	item := remote.find(bookID)
	if item == nil {
		return nil, apperr.NotFound("Book")
	}
	if err := remote.DeleteBook(context.Background(), bookID); err != nil {
		return nil, err
	}
	item.FolderID = folderID
	clone := *item
	remote.byFolder[folderID] = append(remote.byFolder[folderID], &clone)
	return item, nil
}

func (remote *fakeRemote) CopyBook(_ context.Context, bookID, folderID string) (*book.Book, error) {
	if remote.failAll != nil {
		return nil, remote.failAll
	}
	item := remote.find(bookID)
	if item == nil {
		return nil, apperr.NotFound("Book")
	}
	duplicate := *item
	duplicate.ID = "book-copy"
	duplicate.FolderID = folderID
	clone := duplicate
	remote.byFolder[folderID] = append(remote.byFolder[folderID], &clone)
	return &duplicate, nil
}

func openedManager(t *testing.T) (*books.Manager, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	manager := books.NewManager(remote)
	require.NoError(t, manager.Open(context.Background(), "folder-1"))
	return manager, remote
}

// # Tests

/*
TestManager_FilterComposition verifies that the text and status filters
compose: each alone narrows the list, together they can empty it.
*/
func TestManager_FilterComposition(t *testing.T) {
	manager, _ := openedManager(t)

	manager.SetTextFilter("naruto")
	visible := manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Naruto", visible[0].Title)

	require.NoError(t, manager.SetStatusFilter(book.StatusPlanToRead))
	assert.Empty(t, manager.Visible(), "Naruto is reading, not plan-to-read")

	manager.SetTextFilter("")
	visible = manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Mōryō no Hako", visible[0].Title)
}

/*
TestManager_TextFilter_FoldsAccents verifies that the text filter
matches across diacritics and case, on author as well as title.
*/
func TestManager_TextFilter_FoldsAccents(t *testing.T) {
	manager, _ := openedManager(t)

	manager.SetTextFilter("moryo")
	visible := manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "book-3", visible[0].ID)

	manager.SetTextFilter("KISHIMOTO")
	visible = manager.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Naruto", visible[0].Title)
}

/*
TestManager_Create_DisplaysServerNormalization verifies that the entry
added to the snapshot is the server's answer: defaults filled in and
progress clamped, not the raw input.
*/
func TestManager_Create_DisplaysServerNormalization(t *testing.T) {
	manager, _ := openedManager(t)

	created, err := manager.Create(context.Background(), book.CreateInput{
		Title:         "Berserk",
		Progress:      999,
		TotalChapters: 380,
	})
	require.NoError(t, err)

	assert.Equal(t, book.StatusPlanToRead, created.Status)
	assert.Equal(t, book.DefaultLanguage, created.Language)
	assert.Equal(t, 380, created.Progress, "server clamp must be what the client shows")
	require.NotNil(t, created.LastRead)

	all := manager.All()
	require.Len(t, all, 4)
	assert.Equal(t, "book-new", all[0].ID, "new entries lead the newest-first snapshot")
}

/*
TestManager_Create_RejectsBlankTitleLocally verifies that a blank title
never reaches the remote.
*/
func TestManager_Create_RejectsBlankTitleLocally(t *testing.T) {
	manager, remote := openedManager(t)

	_, err := manager.Create(context.Background(), book.CreateInput{Title: "  "})

	require.Error(t, err)
	assert.Equal(t, 0, remote.createCalls)
	assert.Len(t, manager.All(), 3)
}

/*
TestManager_EditSession verifies the draft lifecycle: staged edits
accumulate, commit submits them as one update and installs the server's
answer, and a failed commit keeps the session open.
*/
func TestManager_EditSession(t *testing.T) {
	manager, remote := openedManager(t)

	require.NoError(t, manager.BeginEdit("book-2"))
	require.NoError(t, manager.Stage(func(draft *book.UpdateInput) {
		draft.Status = pointer.To(book.StatusCompleted)
	}))
	require.NoError(t, manager.Stage(func(draft *book.UpdateInput) {
		draft.Rating = pointer.To(9.5)
	}))

	remote.failAll = errors.New("gateway timeout")
	_, err := manager.CommitEdit(context.Background())
	require.Error(t, err)
	require.NotNil(t, manager.Editing(), "failed commit keeps the draft for retry")
	entry := manager.GetByID("book-2")
	assert.Equal(t, book.StatusReading, entry.Status, "failed commit must not touch the snapshot")

	remote.failAll = nil
	updated, err := manager.CommitEdit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1100, updated.Progress, "completion forces progress to the total")
	assert.Equal(t, book.MaxRating, updated.Rating, "rating arrives clamped")
	require.NotNil(t, updated.FinishDate)
	assert.Nil(t, manager.Editing())
	assert.Equal(t, 1100, manager.GetByID("book-2").Progress)
}

/*
TestManager_InFlightGuard verifies that a queued second mutation is
refused while the first holds the flag.
*/
func TestManager_InFlightGuard(t *testing.T) {
	blocker := &blockingRemote{inner: newFakeRemote(), gate: make(chan struct{})}
	manager := books.NewManager(blocker)
	require.NoError(t, manager.Open(context.Background(), "folder-1"))

	done := make(chan error, 1)
	go func() {
		_, err := manager.Create(context.Background(), book.CreateInput{Title: "Berserk"})
		done <- err
	}()
	require.Eventually(t, manager.Busy, time.Second, time.Millisecond)

	_, err := manager.Create(context.Background(), book.CreateInput{Title: "Vagabond"})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	close(blocker.gate)
	require.NoError(t, <-done)
	assert.False(t, manager.Busy())
}

/*
TestManager_MoveAndCopy verifies snapshot membership after relocation:
a move out removes the entry, a copy into the open folder adds one.
*/
func TestManager_MoveAndCopy(t *testing.T) {
	manager, _ := openedManager(t)

	moved, err := manager.Move(context.Background(), "book-1", "folder-2")
	require.NoError(t, err)
	assert.Equal(t, "folder-2", moved.FolderID)
	assert.Nil(t, manager.GetByID("book-1"))
	assert.Len(t, manager.All(), 2)

	copied, err := manager.Copy(context.Background(), "book-2", "folder-1")
	require.NoError(t, err)
	assert.Equal(t, "book-copy", copied.ID)
	require.NotNil(t, manager.GetByID("book-copy"))
	assert.Len(t, manager.All(), 3)
}

/*
TestManager_Delete_ClosesEditSession verifies that deleting the book
under edit also drops the draft.
*/
func TestManager_Delete_ClosesEditSession(t *testing.T) {
	manager, _ := openedManager(t)
	require.NoError(t, manager.BeginEdit("book-1"))

	require.NoError(t, manager.Delete(context.Background(), "book-1"))

	assert.Nil(t, manager.Editing())
	assert.Nil(t, manager.GetByID("book-1"))
}

// blockingRemote parks every call until gate closes.
type blockingRemote struct {
	inner *fakeRemote
	gate  chan struct{}
}

func (remote *blockingRemote) ListBooks(ctx context.Context, filter book.Filter) ([]*book.Book, error) {
	return remote.inner.ListBooks(ctx, filter)
}

func (remote *blockingRemote) CreateBook(ctx context.Context, input book.CreateInput) (*book.Book, error) {
	<-remote.gate
	return remote.inner.CreateBook(ctx, input)
}

func (remote *blockingRemote) UpdateBook(ctx context.Context, bookID string, input book.UpdateInput) (*book.Book, error) {
	return remote.inner.UpdateBook(ctx, bookID, input)
}

func (remote *blockingRemote) DeleteBook(ctx context.Context, bookID string) error {
	return remote.inner.DeleteBook(ctx, bookID)
}

func (remote *blockingRemote) MoveBook(ctx context.Context, bookID, folderID string) (*book.Book, error) {
	return remote.inner.MoveBook(ctx, bookID, folderID)
}

func (remote *blockingRemote) CopyBook(ctx context.Context, bookID, folderID string) (*book.Book, error) {
	return remote.inner.CopyBook(ctx, bookID, folderID)
}
