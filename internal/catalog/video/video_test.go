// Copyright (c) 2026 Fermata. All rights reserved.

package video_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/catalog/video"
	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/pkg/pointer"
)

// fakeRepository is an in-memory stand-in for the video store.
type fakeRepository struct {
	created *video.Video
	videos  map[int]*video.Video
}

func (f *fakeRepository) FindByPiece(ctx context.Context, pieceID int, onlyApproved bool) ([]*video.Video, error) {
	var out []*video.Video
	for _, v := range f.videos {
		if v.PieceID != pieceID {
			continue
		}
		if onlyApproved && !v.IsApproved() {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int) (*video.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	return v, nil
}

func (f *fakeRepository) FindPending(ctx context.Context) ([]*video.Video, error) {
	var out []*video.Video
	for _, v := range f.videos {
		if v.IsPending() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, v *video.Video) error {
	v.ID = len(f.videos) + 1
	if f.videos == nil {
		f.videos = map[int]*video.Video{}
	}
	f.videos[v.ID] = v
	f.created = v
	return nil
}

func (f *fakeRepository) SetStatus(ctx context.Context, id int, status video.Status, approverID int) error {
	v, ok := f.videos[id]
	if !ok {
		return apperr.NotFound("Video")
	}
	v.Status = status
	v.ApprovedBy = pointer.To(approverID)
	return nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	delete(f.videos, id)
	return nil
}

func testService(repo video.Repository) *video.Service {
	return video.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestVideo_VideoID extracts the 11-character id from the supported URL forms.
*/
func TestVideo_VideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
	}{
		{"watch_url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short_url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch_with_extra_params", "https://www.youtube.com/watch?v=lCOF9LN_Zxs&t=42s", "lCOF9LN_Zxs"},
		{"no_scheme_host_only", "youtube.com/watch?v=lCOF9LN_Zxs", "lCOF9LN_Zxs"},
		{"other_site", "https://vimeo.com/123456789", ""},
		{"id_too_short", "https://youtu.be/abc", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &video.Video{URL: tt.url}
			assert.Equal(t, tt.id, v.VideoID())
		})
	}
}

/*
TestVideo_ThumbnailURL derives the static YouTube thumbnail location.
*/
func TestVideo_ThumbnailURL(t *testing.T) {
	v := &video.Video{URL: "https://youtu.be/dQw4w9WgXcQ"}
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", v.ThumbnailURL())

	unknown := &video.Video{URL: "https://example.com/clip"}
	assert.Equal(t, "", unknown.ThumbnailURL())
}

/*
TestService_Submit_ForcesPending ignores any moderation state smuggled into
the submission payload.
*/
func TestService_Submit_ForcesPending(t *testing.T) {
	repo := &fakeRepository{}
	input := &video.Video{
		PieceID:    3,
		URL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Status:     video.StatusApproved,
		ApprovedBy: pointer.To(1),
		CreatedBy:  8,
	}

	err := testService(repo).Submit(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, video.StatusPending, repo.created.Status)
	assert.Nil(t, repo.created.ApprovedBy)
}

/*
TestService_Submit_RejectsNonYouTube only accepts URLs that carry a
recognizable YouTube video id.
*/
func TestService_Submit_RejectsNonYouTube(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"not_a_url", "not a url"},
		{"other_site", "https://vimeo.com/123456789"},
		{"youtube_without_id", "https://www.youtube.com/feed/subscriptions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			input := &video.Video{PieceID: 3, URL: tt.url}

			err := testService(repo).Submit(context.Background(), input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created)
		})
	}
}

/*
TestService_Moderation_LatestDecisionWins allows a rejection to be reversed
and restamps the deciding admin each time.
*/
func TestService_Moderation_LatestDecisionWins(t *testing.T) {
	repo := &fakeRepository{}
	service := testService(repo)

	submitted := &video.Video{PieceID: 3, URL: "https://youtu.be/dQw4w9WgXcQ"}
	require.NoError(t, service.Submit(context.Background(), submitted))

	require.NoError(t, service.Reject(context.Background(), submitted.ID, 100))
	stored, err := repo.FindByID(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, video.StatusRejected, stored.Status)
	assert.Equal(t, 100, *stored.ApprovedBy)

	// Reversal of the rejection is a plain overwrite.
	require.NoError(t, service.Approve(context.Background(), submitted.ID, 101))
	stored, err = repo.FindByID(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, video.StatusApproved, stored.Status)
	assert.Equal(t, 101, *stored.ApprovedBy)
}

/*
TestService_ListByPiece hides non-approved entries from public callers while
moderators see everything.
*/
func TestService_ListByPiece(t *testing.T) {
	repo := &fakeRepository{}
	service := testService(repo)

	first := &video.Video{PieceID: 3, URL: "https://youtu.be/dQw4w9WgXcQ"}
	second := &video.Video{PieceID: 3, URL: "https://youtu.be/lCOF9LN_Zxs"}
	require.NoError(t, service.Submit(context.Background(), first))
	require.NoError(t, service.Submit(context.Background(), second))
	require.NoError(t, service.Approve(context.Background(), first.ID, 100))

	public, err := service.ListByPiece(context.Background(), 3, false)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	moderation, err := service.ListByPiece(context.Background(), 3, true)
	require.NoError(t, err)
	assert.Len(t, moderation, 2)
}
