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

// AddPost publishes a new post under a blog. The post room is created
// first; the content message, the child link on the blog, and the
// parent link on the post are then written concurrently; the content
// pointer is written last, once the message's event ID is known.
//
// Writes after room creation are not rolled back on failure. A partial
// post is repairable by retrying, while deleting a half-created room
// would destroy the content message already accepted by the server.
func (s *Service) AddPost(ctx context.Context, blogID ref.RoomID, post NewPost) (*PostMetadata, error) {
	if post.Title == "" {
		return nil, fmt.Errorf("blog: post title is required")
	}
	if post.Text == "" || post.HTML == "" {
		return nil, fmt.Errorf("blog: post content is required")
	}

	request := messaging.CreateRoomRequest{
		Name:       post.Title,
		Topic:      post.Summary,
		Visibility: "public",
		InitialState: []messaging.StateEvent{{
			Type:     schema.EventTypeHistoryVisibility,
			StateKey: "",
			Content: schema.HistoryVisibilityContent{
				HistoryVisibility: schema.HistoryVisibilityWorldReadable,
			},
		}},
	}
	if post.Slug != "" {
		request.Alias = s.LocalAlias(post.Slug)
	}
	created, err := s.session.CreateRoom(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("creating post room: %w", err)
	}
	postID := created.RoomID
	s.logger.Info("created post room", "blog", blogID, "post", postID, "slug", post.Slug)

	var messageID ref.EventID
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		messageID, err = s.session.SendMessage(groupCtx, postID, messaging.NewHTMLMessage(post.Text, post.HTML))
		if err != nil {
			return fmt.Errorf("sending post content: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		content := schema.SpaceChildContent{Via: s.via()}
		if _, err := s.session.SendStateEvent(groupCtx, blogID, schema.EventTypeSpaceChild, postID.String(), content); err != nil {
			return fmt.Errorf("linking post into blog: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		content := schema.SpaceParentContent{Via: s.via(), Canonical: true}
		if _, err := s.session.SendStateEvent(groupCtx, postID, schema.EventTypeSpaceParent, blogID.String(), content); err != nil {
			return fmt.Errorf("linking post to its blog: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	pointer := schema.PostContentPointer{EventID: messageID}
	if _, err := s.session.SendStateEvent(ctx, postID, schema.EventTypePostContent, "", pointer); err != nil {
		return nil, fmt.Errorf("writing content pointer: %w", err)
	}

	return &PostMetadata{
		RoomID:  postID,
		Title:   post.Title,
		Summary: post.Summary,
		Slug:    post.Slug,
	}, nil
}

// EditPost applies the non-nil fields of an edit to a post. Field
// updates run concurrently and independently; a failed field leaves
// the others' writes in place.
func (s *Service) EditPost(ctx context.Context, postID ref.RoomID, edit PostEdit) error {
	group, ctx := errgroup.WithContext(ctx)
	if edit.Title != nil {
		group.Go(func() error {
			content := schema.NameContent{Name: *edit.Title}
			if _, err := s.session.SendStateEvent(ctx, postID, schema.EventTypeName, "", content); err != nil {
				return fmt.Errorf("updating post title: %w", err)
			}
			return nil
		})
	}
	if edit.Summary != nil {
		group.Go(func() error {
			content := schema.TopicContent{Topic: *edit.Summary}
			if _, err := s.session.SendStateEvent(ctx, postID, schema.EventTypeTopic, "", content); err != nil {
				return fmt.Errorf("updating post summary: %w", err)
			}
			return nil
		})
	}
	if edit.Slug != nil {
		group.Go(func() error {
			return s.updateSlug(ctx, postID, *edit.Slug)
		})
	}
	if edit.Content != nil {
		group.Go(func() error {
			return s.updateContent(ctx, postID, *edit.Content)
		})
	}
	return group.Wait()
}

// updateSlug moves a post to a new slug: bind the new alias, promote it
// to canonical, then unbind the old alias. The old binding is removed
// last so the post is never without an alias mid-update, and it is
// removed whatever its localpart, so canonical aliases bound outside
// the slug prefix do not linger in the directory. An empty slug
// unbinds the current alias without touching the canonical record; the
// stale record is harmless because slug derivation goes through the
// directory-backed alias, and redacting state would require elevated
// power levels.
func (s *Service) updateSlug(ctx context.Context, postID ref.RoomID, slug string) error {
	var existing ref.RoomAlias
	canonical, err := messaging.GetState[schema.CanonicalAliasContent](ctx, s.session, postID, schema.EventTypeCanonicalAlias, "")
	switch {
	case err == nil:
		existing = canonical.Alias
	case messaging.IsNotFound(err):
		// no alias yet
	default:
		return fmt.Errorf("fetching current alias: %w", err)
	}

	var desired ref.RoomAlias
	if slug != "" {
		desired, err = s.Alias(slug)
		if err != nil {
			return fmt.Errorf("building alias for slug %q: %w", slug, err)
		}
	}
	if desired == existing {
		return nil
	}

	if desired.IsZero() {
		if err := s.session.DeleteRoomAlias(ctx, existing); err != nil {
			return fmt.Errorf("removing alias %s: %w", existing, err)
		}
		s.logger.Info("removed post slug", "post", postID, "alias", existing)
		return nil
	}

	if err := s.session.CreateRoomAlias(ctx, desired, postID); err != nil {
		return fmt.Errorf("binding alias %s: %w", desired, err)
	}
	content := schema.CanonicalAliasContent{Alias: desired}
	if _, err := s.session.SendStateEvent(ctx, postID, schema.EventTypeCanonicalAlias, "", content); err != nil {
		return fmt.Errorf("updating canonical alias: %w", err)
	}
	if !existing.IsZero() {
		if err := s.session.DeleteRoomAlias(ctx, existing); err != nil {
			return fmt.Errorf("removing old alias %s: %w", existing, err)
		}
	}
	s.logger.Info("updated post slug", "post", postID, "alias", desired)
	return nil
}

// updateContent replaces a post's body by sending an m.replace message
// against the pointed-at original. The content pointer itself never
// moves; readers resolve the latest replacement through the server's
// relation aggregation.
func (s *Service) updateContent(ctx context.Context, postID ref.RoomID, edit ContentEdit) error {
	pointer, err := messaging.GetState[schema.PostContentPointer](ctx, s.session, postID, schema.EventTypePostContent, "")
	if err != nil {
		if messaging.IsNotFound(err) {
			return &ServiceError{Kind: KindNoContentPointer, RoomID: postID}
		}
		return fmt.Errorf("fetching content pointer: %w", err)
	}
	replacement := messaging.NewReplacementMessage(pointer.EventID, edit.Text, edit.HTML)
	if _, err := s.session.SendMessage(ctx, postID, replacement); err != nil {
		return fmt.Errorf("sending replacement content: %w", err)
	}
	return nil
}
