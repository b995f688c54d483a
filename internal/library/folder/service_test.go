// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package folder_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/platform/apperr"
	"github.com/harutoki/tsundoku/internal/library/folder"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	folders map[string]*folder.Folder
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{folders: make(map[string]*folder.Folder)}
}

func (r *fakeRepository) ListByUser(_ context.Context, userID string) ([]*folder.Folder, error) {
	var out []*folder.Folder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRepository) FindByID(_ context.Context, userID, folderID string) (*folder.Folder, error) {
	f, ok := r.folders[folderID]
	if !ok || f.UserID != userID {
		return nil, apperr.NotFound("Folder not found")
	}
	clone := *f
	return &clone, nil
}

func (r *fakeRepository) Create(_ context.Context, f *folder.Folder) error {
	clone := *f
	r.folders[f.ID] = &clone
	return nil
}

func (r *fakeRepository) Update(_ context.Context, f *folder.Folder) error {
	existing, ok := r.folders[f.ID]
	if !ok || existing.UserID != f.UserID {
		return apperr.NotFound("Folder not found")
	}
	clone := *f
	r.folders[f.ID] = &clone
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, userID, folderID string) error {
	f, ok := r.folders[folderID]
	if !ok || f.UserID != userID {
		return apperr.NotFound("Folder not found")
	}
	delete(r.folders, folderID)
	return nil
}

func newService(repo folder.Repository) *folder.Service {
	return folder.NewService(repo, slog.Default(), nil)
}

/*
TestService_Create_TrimsName verifies the folder name is trimmed before
persisting and whitespace-only names are rejected.
*/
func TestService_Create_TrimsName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{"plain", "Shounen", "Shounen", false},
		{"padded", "  Seinen  ", "Seinen", false},
		{"empty", "", "", true},
		{"whitespace_only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository())

			f, err := service.Create(context.Background(), "user-1", folder.CreateInput{Name: tt.input})

			if tt.wantErr {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, f.Name)
			assert.Equal(t, "user-1", f.UserID)
			assert.NotEmpty(t, f.ID)
		})
	}
}

/*
TestService_Update_Partial verifies that omitted fields keep their values
and a blank new name is rejected.
*/
func TestService_Update_Partial(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	created, err := service.Create(context.Background(), "user-1", folder.CreateInput{Name: "Manga", Color: "#ff0000"})
	require.NoError(t, err)

	// Color-only update keeps the name
	blue := "#0000ff"
	updated, err := service.Update(context.Background(), "user-1", created.ID, folder.UpdateInput{Color: &blue})
	require.NoError(t, err)
	assert.Equal(t, "Manga", updated.Name)
	assert.Equal(t, blue, updated.Color)

	// Blank rename is rejected and nothing changes
	blank := "   "
	_, err = service.Update(context.Background(), "user-1", created.ID, folder.UpdateInput{Name: &blank})
	require.Error(t, err)

	current, err := service.Get(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manga", current.Name)
}

/*
TestService_OwnerScoping verifies another user can never see or mutate a
folder they do not own.
*/
func TestService_OwnerScoping(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	created, err := service.Create(context.Background(), "user-1", folder.CreateInput{Name: "Manhwa"})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), "user-2", created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.Delete(context.Background(), "user-2", created.ID)
	require.Error(t, err)

	// Still present for the real owner
	_, err = service.Get(context.Background(), "user-1", created.ID)
	assert.NoError(t, err)
}
