// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"errors"
	"fmt"

	"github.com/lectern-press/lectern/lib/ref"
)

// Kind classifies structural violations of the blog/post model. These
// are not transient protocol failures — no retry can fix them.
type Kind string

const (
	// KindNoCreateEvent: the room has no m.room.create record at all.
	KindNoCreateEvent Kind = "room creation event missing"

	// KindNotASpace: the room exists but its creation content lacks
	// the m.space marker, so it cannot be a blog.
	KindNotASpace Kind = "room is not a space"

	// KindBlogNotFound: the requested room ID is absent from its own
	// hierarchy summary — the identifier does not head a space.
	KindBlogNotFound Kind = "blog room not found in summary"

	// KindNoParentLinkage: the post has no m.space.parent record; a
	// post that was never attached cannot be deleted through this
	// path.
	KindNoParentLinkage Kind = "no parent linkage"

	// KindNoContentPointer: the post room has no content-pointer
	// record. A post room without it is malformed.
	KindNoContentPointer Kind = "content pointer event missing"

	// KindNoTitle: the post has no m.room.name record. Titles are
	// mandatory.
	KindNoTitle Kind = "title record missing"
)

// ServiceError signals that a room's state violates the blog model.
type ServiceError struct {
	Kind   Kind
	RoomID ref.RoomID
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("blog: %s: %s", e.RoomID, e.Kind)
}

// IsKind reports whether err is a *ServiceError of the given kind.
func IsKind(err error, kind Kind) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind == kind
	}
	return false
}
