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

// DeletePost retires a post: both linkage events are redacted, the
// alias is unbound, every other joined or invited member is kicked
// with the given reason, and the acting account leaves the room last. Rooms cannot be
// destroyed over the protocol; an unlinked, unaliased, empty room is
// as deleted as a post gets.
//
// The post's parent record is resolved before anything destructive
// runs, so a post that was never linked into a blog fails cleanly with
// KindNoParentLinkage.
func (s *Service) DeletePost(ctx context.Context, postID ref.RoomID, reason string) error {
	events, err := s.session.GetRoomState(ctx, postID)
	if err != nil {
		return fmt.Errorf("fetching post state: %w", err)
	}
	index := indexState(events)

	parentEvent, blogID, err := findParentLink(index, postID)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if _, err := s.session.RedactEvent(groupCtx, postID, parentEvent.EventID, reason); err != nil {
			return fmt.Errorf("redacting parent link: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return s.unlinkChild(groupCtx, blogID, postID, reason)
	})
	group.Go(func() error {
		return s.unbindAlias(groupCtx, index, postID)
	})
	group.Go(func() error {
		return s.kickMembers(groupCtx, index, postID, reason)
	})
	if err := group.Wait(); err != nil {
		return err
	}

	if err := s.session.LeaveRoom(ctx, postID); err != nil {
		return fmt.Errorf("leaving post room: %w", err)
	}
	s.logger.Info("deleted post", "blog", blogID, "post", postID)
	return nil
}

// findParentLink locates the post's owning blog via its m.space.parent
// record. A redacted record (content emptied) does not count.
func findParentLink(index *stateIndex, postID ref.RoomID) (*messaging.Event, ref.RoomID, error) {
	for _, event := range index.ofType(schema.EventTypeSpaceParent) {
		if event.StateKey == nil {
			continue
		}
		blogID, err := ref.ParseRoomID(*event.StateKey)
		if err != nil {
			continue
		}
		var parent schema.SpaceParentContent
		if err := event.DecodeContent(&parent); err != nil {
			continue
		}
		if len(parent.Via) == 0 && !parent.Canonical {
			continue
		}
		return event, blogID, nil
	}
	return nil, ref.RoomID{}, &ServiceError{Kind: KindNoParentLinkage, RoomID: postID}
}

// unlinkChild redacts the blog's m.space.child record for the post.
// A blog that has already dropped the link is left alone.
func (s *Service) unlinkChild(ctx context.Context, blogID, postID ref.RoomID, reason string) error {
	events, err := s.session.GetRoomState(ctx, blogID)
	if err != nil {
		return fmt.Errorf("fetching blog state: %w", err)
	}
	child, ok := indexState(events).get(schema.EventTypeSpaceChild, postID.String())
	if !ok {
		return nil
	}
	if _, err := s.session.RedactEvent(ctx, blogID, child.EventID, reason); err != nil {
		return fmt.Errorf("redacting child link: %w", err)
	}
	return nil
}

// unbindAlias removes the post's canonical alias from the directory,
// when it carries one.
func (s *Service) unbindAlias(ctx context.Context, index *stateIndex, postID ref.RoomID) error {
	aliasEvent, ok := index.get(schema.EventTypeCanonicalAlias, "")
	if !ok {
		return nil
	}
	var canonical schema.CanonicalAliasContent
	if err := aliasEvent.DecodeContent(&canonical); err != nil {
		return fmt.Errorf("decoding canonical alias for %s: %w", postID, err)
	}
	if canonical.Alias.IsZero() {
		return nil
	}
	if err := s.session.DeleteRoomAlias(ctx, canonical.Alias); err != nil {
		return fmt.Errorf("removing alias %s: %w", canonical.Alias, err)
	}
	return nil
}

// kickMembers evicts every joined or invited member other than the
// acting account. Kicking an invited user revokes the pending invite;
// members who already left or were banned are skipped because they
// hold no access to revoke.
func (s *Service) kickMembers(ctx context.Context, index *stateIndex, postID ref.RoomID, reason string) error {
	self := s.self()
	for _, event := range index.ofType(schema.EventTypeMember) {
		if event.StateKey == nil {
			continue
		}
		member, err := ref.ParseUserID(*event.StateKey)
		if err != nil || member == self {
			continue
		}
		var content schema.MemberContent
		if err := event.DecodeContent(&content); err != nil {
			return fmt.Errorf("decoding membership of %s: %w", member, err)
		}
		if content.Membership != schema.MembershipJoin && content.Membership != schema.MembershipInvite {
			continue
		}
		if err := s.session.KickUser(ctx, postID, member, reason); err != nil {
			return fmt.Errorf("kicking %s: %w", member, err)
		}
	}
	return nil
}
