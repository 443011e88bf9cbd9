// Copyright (c) 2026 Fermata. All rights reserved.

/*
Package video manages YouTube performance references attached to pieces.

Submissions start out pending and become publicly visible only after an admin
approves them. Moderation decisions are overwrites, not one-way transitions:
a rejected video can later be approved and vice versa.
*/
package video

import (
	"regexp"
	"time"
)

// Status is the moderation state of a video reference.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// videoIDPattern extracts the 11-character YouTube video id from watch and
// short-link URL forms.
var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// Video represents one YouTube reference on a piece.
type Video struct {
	ID         int        `json:"id"`
	PieceID    int        `json:"piece_id"`
	URL        string     `json:"url"`
	Status     Status     `json:"status"`
	Thumbnail  string     `json:"thumbnail_url"`
	ApprovedBy *int       `json:"approved_by"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  int        `json:"created_by"`
	DeletedAt  *time.Time `json:"-"` // soft-delete tracker
	DeletedBy  *int       `json:"-"`
}

// VideoID extracts the YouTube video id from the stored URL.
// An unrecognized URL yields an empty string, not an error.
func (video *Video) VideoID() string {
	match := videoIDPattern.FindStringSubmatch(video.URL)
	if match == nil {
		return ""
	}
	return match[1]
}

// ThumbnailURL derives the YouTube thumbnail location for the video,
// or an empty string when the URL carries no recognizable video id.
func (video *Video) ThumbnailURL() string {
	id := video.VideoID()
	if id == "" {
		return ""
	}
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}

// IsApproved reports whether the video is publicly visible.
func (video *Video) IsApproved() bool {
	return video.Status == StatusApproved
}

// IsPending reports whether the video awaits moderation.
func (video *Video) IsPending() bool {
	return video.Status == StatusPending
}

// Global field names for validation
const (
	FieldURL = "url"
)
