// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/lib/schema"
	"github.com/lectern-press/lectern/messaging"
)

// GetBlog fetches a blog's room-level fields and verifies that the room
// actually is a space. A room with no creation record or without the
// m.space marker is rejected with a *ServiceError.
func (s *Service) GetBlog(ctx context.Context, roomID ref.RoomID) (*Blog, error) {
	events, err := s.session.GetRoomState(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetching blog state: %w", err)
	}
	index := indexState(events)

	createEvent, ok := index.get(schema.EventTypeCreate, "")
	if !ok {
		return nil, &ServiceError{Kind: KindNoCreateEvent, RoomID: roomID}
	}
	var create schema.CreateContent
	if err := createEvent.DecodeContent(&create); err != nil {
		return nil, fmt.Errorf("decoding creation event for %s: %w", roomID, err)
	}
	if create.Type != schema.RoomTypeSpace {
		return nil, &ServiceError{Kind: KindNotASpace, RoomID: roomID}
	}

	blog := &Blog{RoomID: roomID}
	if nameEvent, ok := index.get(schema.EventTypeName, ""); ok {
		var name schema.NameContent
		if err := nameEvent.DecodeContent(&name); err != nil {
			return nil, fmt.Errorf("decoding name for %s: %w", roomID, err)
		}
		blog.Title = name.Name
	}
	if topicEvent, ok := index.get(schema.EventTypeTopic, ""); ok {
		var topic schema.TopicContent
		if err := topicEvent.DecodeContent(&topic); err != nil {
			return nil, fmt.Errorf("decoding topic for %s: %w", roomID, err)
		}
		blog.Description = topic.Topic
	}
	return blog, nil
}

// GetBlogWithPosts fetches a blog and its post metadata from one
// hierarchy summary. The blog room must appear in its own summary; a
// summary that omits it means the identifier does not head a space the
// session can see. Every other room in the summary is a post, in the
// summary's order.
func (s *Service) GetBlogWithPosts(ctx context.Context, blogID ref.RoomID) (*BlogWithPosts, error) {
	hierarchy, err := s.session.SpaceHierarchy(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("fetching blog hierarchy: %w", err)
	}

	var blog *Blog
	posts := make([]PostMetadata, 0, len(hierarchy.Rooms))
	for _, room := range hierarchy.Rooms {
		if room.RoomID == blogID {
			blog = &Blog{RoomID: blogID, Title: room.Name, Description: room.Topic}
			continue
		}
		posts = append(posts, s.postMetadataFromSummary(room))
	}
	if blog == nil {
		return nil, &ServiceError{Kind: KindBlogNotFound, RoomID: blogID}
	}
	return &BlogWithPosts{Blog: *blog, Posts: posts}, nil
}

// GetPosts fetches the metadata of every post under a blog: the posts
// projection of GetBlogWithPosts.
func (s *Service) GetPosts(ctx context.Context, blogID ref.RoomID) ([]PostMetadata, error) {
	withPosts, err := s.GetBlogWithPosts(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return withPosts.Posts, nil
}

func (s *Service) postMetadataFromSummary(room messaging.HierarchyRoom) PostMetadata {
	metadata := PostMetadata{
		RoomID:  room.RoomID,
		Title:   room.Name,
		Summary: room.Topic,
	}
	if !room.CanonicalAlias.IsZero() {
		if slug, ok := s.SlugFromAlias(room.CanonicalAlias); ok {
			metadata.Slug = slug
		}
	}
	return metadata
}

// GetFullPosts fetches every post under a blog with content included.
// Post contents are fetched concurrently, one goroutine per post, and
// the result preserves the metadata order.
func (s *Service) GetFullPosts(ctx context.Context, blogID ref.RoomID) ([]Post, error) {
	metadata, err := s.GetPosts(ctx, blogID)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, len(metadata))
	group, ctx := errgroup.WithContext(ctx)
	for i, meta := range metadata {
		i, meta := i, meta
		group.Go(func() error {
			content, err := s.getPostContent(ctx, meta.RoomID)
			if err != nil {
				return err
			}
			posts[i] = Post{PostMetadata: meta, PostContent: content}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post in full. The four reads (title,
// summary, slug, content) run concurrently. Title and content are
// mandatory; summary and slug records may be absent.
func (s *Service) GetPost(ctx context.Context, postID ref.RoomID) (*Post, error) {
	post := &Post{PostMetadata: PostMetadata{RoomID: postID}}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		name, err := messaging.GetState[schema.NameContent](ctx, s.session, postID, schema.EventTypeName, "")
		if err != nil {
			if messaging.IsNotFound(err) {
				return &ServiceError{Kind: KindNoTitle, RoomID: postID}
			}
			return fmt.Errorf("fetching post title: %w", err)
		}
		post.Title = name.Name
		return nil
	})
	group.Go(func() error {
		topic, err := messaging.GetState[schema.TopicContent](ctx, s.session, postID, schema.EventTypeTopic, "")
		if err != nil {
			if messaging.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("fetching post summary: %w", err)
		}
		post.Summary = topic.Topic
		return nil
	})
	group.Go(func() error {
		canonical, err := messaging.GetState[schema.CanonicalAliasContent](ctx, s.session, postID, schema.EventTypeCanonicalAlias, "")
		if err != nil {
			if messaging.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("fetching post alias: %w", err)
		}
		if !canonical.Alias.IsZero() {
			if slug, ok := s.SlugFromAlias(canonical.Alias); ok {
				post.Slug = slug
			}
		}
		return nil
	})
	group.Go(func() error {
		content, err := s.getPostContent(ctx, postID)
		if err != nil {
			return err
		}
		post.PostContent = content
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return post, nil
}

// getPostContent resolves a post room to its current content: the full
// state snapshot locates the content pointer and the publish timestamp,
// then the referenced message supplies the body. When the message
// carries an m.replace aggregation, the latest replacement's body and
// timestamp win.
func (s *Service) getPostContent(ctx context.Context, postID ref.RoomID) (PostContent, error) {
	events, err := s.session.GetRoomState(ctx, postID)
	if err != nil {
		return PostContent{}, fmt.Errorf("fetching post state: %w", err)
	}
	index := indexState(events)

	pointerEvent, ok := index.get(schema.EventTypePostContent, "")
	if !ok {
		return PostContent{}, &ServiceError{Kind: KindNoContentPointer, RoomID: postID}
	}
	var pointer schema.PostContentPointer
	if err := pointerEvent.DecodeContent(&pointer); err != nil {
		return PostContent{}, fmt.Errorf("decoding content pointer for %s: %w", postID, err)
	}

	content := PostContent{}
	if aliasEvent, ok := index.get(schema.EventTypeCanonicalAlias, ""); ok {
		content.PublishedMS = aliasEvent.OriginServerTS
	}

	message, err := s.session.GetEvent(ctx, postID, pointer.EventID)
	if err != nil {
		return PostContent{}, fmt.Errorf("fetching post message %s: %w", pointer.EventID, err)
	}
	var body messaging.MessageContent
	if err := message.DecodeContent(&body); err != nil {
		return PostContent{}, fmt.Errorf("decoding post message %s: %w", pointer.EventID, err)
	}
	content.Text = body.Body
	content.HTML = body.FormattedBody
	content.CreatedMS = message.OriginServerTS

	if message.Unsigned != nil && message.Unsigned.Relations != nil && message.Unsigned.Relations.Replace != nil {
		replace := message.Unsigned.Relations.Replace
		content.EditedMS = replace.OriginServerTS
		var edited messaging.MessageContent
		if err := replace.DecodeContent(&edited); err != nil {
			return PostContent{}, fmt.Errorf("decoding post replacement %s: %w", replace.EventID, err)
		}
		if edited.NewContent != nil {
			content.Text = edited.NewContent.Body
			content.HTML = edited.NewContent.FormattedBody
		} else {
			content.Text = edited.Body
			content.HTML = edited.FormattedBody
		}
	}
	return content, nil
}
