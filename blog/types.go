// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import "github.com/lectern-press/lectern/lib/ref"

// Blog is the readable view of a blog space. Title and Description are
// empty when the underlying name/topic records are absent.
type Blog struct {
	RoomID      ref.RoomID `json:"room_id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
}

// BlogWithPosts is a blog together with the metadata of its posts, in
// the hierarchy summary's room order.
type BlogWithPosts struct {
	Blog
	Posts []PostMetadata `json:"posts"`
}

// PostMetadata identifies a post and carries its room-level fields.
// Slug is empty when the post has no canonical alias matching the
// configured prefix scheme.
type PostMetadata struct {
	RoomID  ref.RoomID `json:"room_id"`
	Title   string     `json:"title,omitempty"`
	Summary string     `json:"summary,omitempty"`
	Slug    string     `json:"slug,omitempty"`
}

// PostContent is the message-level view of a post. Timestamps are
// Unix milliseconds; EditedMS and PublishedMS are zero when the post
// was never edited or has no canonical alias.
type PostContent struct {
	Text        string `json:"text"`
	HTML        string `json:"html"`
	CreatedMS   int64  `json:"created_ms"`
	EditedMS    int64  `json:"edited_ms,omitempty"`
	PublishedMS int64  `json:"published_ms,omitempty"`
}

// Post is the full view of a post: metadata plus content.
type Post struct {
	PostMetadata
	PostContent
}

// NewPost is the input to AddPost. Title, Text, and HTML are required;
// Summary and Slug are optional.
type NewPost struct {
	Title   string
	Summary string
	Slug    string
	Text    string
	HTML    string
}

// PostEdit is the input to EditPost. Nil fields are left untouched.
// A non-nil Slug pointing at "" removes the post's alias.
type PostEdit struct {
	Title   *string
	Summary *string
	Slug    *string
	Content *ContentEdit
}

// ContentEdit replaces a post's body. Both renderings are updated
// together — a post never carries text and HTML from different
// revisions.
type ContentEdit struct {
	Text string
	HTML string
}
