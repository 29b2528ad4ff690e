// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/lib/schema"
)

func TestAddPost(t *testing.T) {
	session := newFakeSession()
	service := newTestService(t, session)

	metadata, err := service.AddPost(context.Background(), testBlogID, NewPost{
		Title:   "Hello",
		Summary: "First post",
		Slug:    "hello",
		Text:    "Hi",
		HTML:    "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("AddPost: %v", err)
	}
	if metadata.Title != "Hello" || metadata.Summary != "First post" || metadata.Slug != "hello" {
		t.Errorf("metadata = %+v", metadata)
	}
	postID := metadata.RoomID
	if postID.IsZero() {
		t.Fatal("metadata.RoomID is zero")
	}

	if len(session.createRequests) != 1 {
		t.Fatalf("got %d room creations, want 1", len(session.createRequests))
	}
	request := session.createRequests[0]
	if request.Name != "Hello" || request.Topic != "First post" {
		t.Errorf("create request name/topic = %q, %q", request.Name, request.Topic)
	}
	if request.Alias != "blog.hello" {
		t.Errorf("create request alias = %q, want %q", request.Alias, "blog.hello")
	}
	foundVisibility := false
	for _, state := range request.InitialState {
		if state.Type == schema.EventTypeHistoryVisibility {
			foundVisibility = true
			content, ok := state.Content.(schema.HistoryVisibilityContent)
			if !ok || content.HistoryVisibility != schema.HistoryVisibilityWorldReadable {
				t.Errorf("history visibility content = %+v", state.Content)
			}
		}
	}
	if !foundVisibility {
		t.Error("create request carries no history visibility record")
	}

	if len(session.sentMessages) != 1 {
		t.Fatalf("got %d messages, want 1", len(session.sentMessages))
	}
	message := session.sentMessages[0]
	if message.roomID != postID {
		t.Errorf("message sent to %s, want %s", message.roomID, postID)
	}
	if message.content.Body != "Hi" || message.content.FormattedBody != "<p>Hi</p>" {
		t.Errorf("message content = %+v", message.content)
	}

	// The pointer must reference the content message, and both linkage
	// records must be in place.
	writes := make(map[stateRef]stateWrite)
	for _, write := range session.stateWrites {
		writes[stateRef{write.eventType, write.stateKey}] = write
	}
	pointerWrite, ok := writes[stateRef{schema.EventTypePostContent, ""}]
	if !ok {
		t.Fatal("content pointer was never written")
	}
	if pointerWrite.roomID != postID {
		t.Errorf("pointer written to %s, want %s", pointerWrite.roomID, postID)
	}
	var pointer schema.PostContentPointer
	if err := json.Unmarshal(pointerWrite.content, &pointer); err != nil {
		t.Fatalf("unmarshal pointer: %v", err)
	}
	if pointer.EventID != message.eventID {
		t.Errorf("pointer = %s, want message event %s", pointer.EventID, message.eventID)
	}

	childWrite, ok := writes[stateRef{schema.EventTypeSpaceChild, postID.String()}]
	if !ok {
		t.Fatal("child link was never written")
	}
	if childWrite.roomID != testBlogID {
		t.Errorf("child link written to %s, want blog %s", childWrite.roomID, testBlogID)
	}
	parentWrite, ok := writes[stateRef{schema.EventTypeSpaceParent, testBlogID.String()}]
	if !ok {
		t.Fatal("parent link was never written")
	}
	if parentWrite.roomID != postID {
		t.Errorf("parent link written to %s, want post %s", parentWrite.roomID, postID)
	}
	var parent schema.SpaceParentContent
	if err := json.Unmarshal(parentWrite.content, &parent); err != nil {
		t.Fatalf("unmarshal parent link: %v", err)
	}
	if !parent.Canonical {
		t.Error("parent link is not canonical")
	}
	if len(parent.Via) != 1 || parent.Via[0] != "lectern.test" {
		t.Errorf("parent via = %v, want [lectern.test]", parent.Via)
	}
}

func TestAddPostWithoutSlug(t *testing.T) {
	session := newFakeSession()
	service := newTestService(t, session)

	metadata, err := service.AddPost(context.Background(), testBlogID, NewPost{
		Title: "Hello",
		Text:  "Hi",
		HTML:  "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("AddPost: %v", err)
	}
	if metadata.Slug != "" {
		t.Errorf("Slug = %q, want empty", metadata.Slug)
	}
	if alias := session.createRequests[0].Alias; alias != "" {
		t.Errorf("create request alias = %q, want empty", alias)
	}
}

func TestAddPostValidation(t *testing.T) {
	session := newFakeSession()
	service := newTestService(t, session)

	if _, err := service.AddPost(context.Background(), testBlogID, NewPost{Text: "Hi", HTML: "<p>Hi</p>"}); err == nil {
		t.Error("AddPost without title: expected error")
	}
	if _, err := service.AddPost(context.Background(), testBlogID, NewPost{Title: "Hello"}); err == nil {
		t.Error("AddPost without content: expected error")
	}
	if len(session.createRequests) != 0 {
		t.Errorf("invalid posts created %d rooms", len(session.createRequests))
	}
}

func TestEditPostTitleAndSummary(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "First post", "", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	title := "Hello, world"
	summary := "Revised"
	err := service.EditPost(context.Background(), testPostID, PostEdit{Title: &title, Summary: &summary})
	if err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	raw, err := session.GetStateEvent(context.Background(), testPostID, schema.EventTypeName, "")
	if err != nil {
		t.Fatalf("GetStateEvent: %v", err)
	}
	var name schema.NameContent
	if err := json.Unmarshal(raw, &name); err != nil {
		t.Fatalf("unmarshal name: %v", err)
	}
	if name.Name != "Hello, world" {
		t.Errorf("title = %q, want %q", name.Name, "Hello, world")
	}
	if len(session.sentMessages) != 0 {
		t.Errorf("metadata edit sent %d messages", len(session.sentMessages))
	}
}

func TestEditPostContent(t *testing.T) {
	session := newFakeSession()
	message := seedPost(session, testPostID, "Hello", "", "", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	err := service.EditPost(context.Background(), testPostID, PostEdit{
		Content: &ContentEdit{Text: "Hi again", HTML: "<p>Hi again</p>"},
	})
	if err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	if len(session.sentMessages) != 1 {
		t.Fatalf("got %d messages, want 1", len(session.sentMessages))
	}
	sent := session.sentMessages[0].content
	if sent.RelatesTo == nil || sent.RelatesTo.RelType != schema.RelTypeReplace {
		t.Fatalf("replacement relation = %+v", sent.RelatesTo)
	}
	if sent.RelatesTo.EventID != message.EventID {
		t.Errorf("replacement targets %s, want original %s", sent.RelatesTo.EventID, message.EventID)
	}
	if sent.NewContent == nil || sent.NewContent.Body != "Hi again" {
		t.Errorf("m.new_content = %+v", sent.NewContent)
	}

	// The pointer never moves.
	for _, write := range session.stateWrites {
		if write.eventType == schema.EventTypePostContent {
			t.Error("content edit rewrote the pointer")
		}
	}
}

func TestEditPostContentWithoutPointer(t *testing.T) {
	session := newFakeSession()
	session.putState(testPostID, schema.EventTypeName, "", schema.NameContent{Name: "Hello"})
	service := newTestService(t, session)

	err := service.EditPost(context.Background(), testPostID, PostEdit{
		Content: &ContentEdit{Text: "Hi", HTML: "<p>Hi</p>"},
	})
	if !IsKind(err, KindNoContentPointer) {
		t.Errorf("EditPost without pointer: err = %v, want KindNoContentPointer", err)
	}
}

func TestEditPostSetSlug(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	slug := "hello"
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &slug}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	wantAlias := ref.MustParseRoomAlias("#blog.hello:lectern.test")
	if len(session.aliasBinds) != 1 || session.aliasBinds[0].alias != wantAlias {
		t.Fatalf("alias binds = %+v, want bind of %s", session.aliasBinds, wantAlias)
	}
	if session.aliasBinds[0].roomID != testPostID {
		t.Errorf("alias bound to %s, want %s", session.aliasBinds[0].roomID, testPostID)
	}

	raw, err := session.GetStateEvent(context.Background(), testPostID, schema.EventTypeCanonicalAlias, "")
	if err != nil {
		t.Fatalf("GetStateEvent: %v", err)
	}
	var canonical schema.CanonicalAliasContent
	if err := json.Unmarshal(raw, &canonical); err != nil {
		t.Fatalf("unmarshal canonical alias: %v", err)
	}
	if canonical.Alias != wantAlias {
		t.Errorf("canonical alias = %s, want %s", canonical.Alias, wantAlias)
	}
}

func TestEditPostChangeSlug(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "hello", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	slug := "hello-world"
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &slug}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	newAlias := ref.MustParseRoomAlias("#blog.hello-world:lectern.test")
	oldAlias := ref.MustParseRoomAlias("#blog.hello:lectern.test")
	if len(session.aliasBinds) != 1 || session.aliasBinds[0].alias != newAlias {
		t.Errorf("alias binds = %+v, want bind of %s", session.aliasBinds, newAlias)
	}
	if len(session.aliasDeletes) != 1 || session.aliasDeletes[0] != oldAlias {
		t.Errorf("alias deletes = %+v, want removal of %s", session.aliasDeletes, oldAlias)
	}
	if _, ok := session.directory[newAlias]; !ok {
		t.Error("new alias is not in the directory")
	}
	if _, ok := session.directory[oldAlias]; ok {
		t.Error("old alias is still in the directory")
	}
}

func TestEditPostSetSlugUnbindsForeignCanonicalAlias(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "", "Hi", "<p>Hi</p>")
	foreign := ref.MustParseRoomAlias("#announcements:lectern.test")
	session.directory[foreign] = testPostID
	session.putState(testPostID, schema.EventTypeCanonicalAlias, "", schema.CanonicalAliasContent{Alias: foreign})
	service := newTestService(t, session)

	slug := "hello"
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &slug}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	newAlias := ref.MustParseRoomAlias("#blog.hello:lectern.test")
	if len(session.aliasBinds) != 1 || session.aliasBinds[0].alias != newAlias {
		t.Errorf("alias binds = %+v, want bind of %s", session.aliasBinds, newAlias)
	}
	if len(session.aliasDeletes) != 1 || session.aliasDeletes[0] != foreign {
		t.Errorf("alias deletes = %+v, want removal of %s", session.aliasDeletes, foreign)
	}
	if _, ok := session.directory[foreign]; ok {
		t.Error("old alias is still in the directory")
	}
}

func TestEditPostRemoveSlugUnbindsForeignCanonicalAlias(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "", "Hi", "<p>Hi</p>")
	foreign := ref.MustParseRoomAlias("#announcements:lectern.test")
	session.directory[foreign] = testPostID
	session.putState(testPostID, schema.EventTypeCanonicalAlias, "", schema.CanonicalAliasContent{Alias: foreign})
	service := newTestService(t, session)

	empty := ""
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &empty}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}
	if len(session.aliasDeletes) != 1 || session.aliasDeletes[0] != foreign {
		t.Errorf("alias deletes = %+v, want removal of %s", session.aliasDeletes, foreign)
	}
	if len(session.aliasBinds) != 0 {
		t.Errorf("slug removal bound aliases: %+v", session.aliasBinds)
	}
}

func TestEditPostRemoveSlug(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "hello", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	empty := ""
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &empty}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}

	oldAlias := ref.MustParseRoomAlias("#blog.hello:lectern.test")
	if len(session.aliasDeletes) != 1 || session.aliasDeletes[0] != oldAlias {
		t.Errorf("alias deletes = %+v, want removal of %s", session.aliasDeletes, oldAlias)
	}
	if len(session.aliasBinds) != 0 {
		t.Errorf("slug removal bound aliases: %+v", session.aliasBinds)
	}
	// Removal unbinds the directory entry only; the canonical record is
	// left behind because redacting state needs elevated power levels.
	for _, write := range session.stateWrites {
		if write.eventType == schema.EventTypeCanonicalAlias {
			t.Error("slug removal rewrote the canonical alias record")
		}
	}
}

func TestEditPostSlugUnchangedIsNoOp(t *testing.T) {
	session := newFakeSession()
	seedPost(session, testPostID, "Hello", "", "hello", "Hi", "<p>Hi</p>")
	service := newTestService(t, session)

	slug := "hello"
	if err := service.EditPost(context.Background(), testPostID, PostEdit{Slug: &slug}); err != nil {
		t.Fatalf("EditPost: %v", err)
	}
	if len(session.aliasBinds) != 0 || len(session.aliasDeletes) != 0 || len(session.stateWrites) != 0 {
		t.Errorf("unchanged slug touched the server: binds=%+v deletes=%+v writes=%d",
			session.aliasBinds, session.aliasDeletes, len(session.stateWrites))
	}
}

func TestEditPostEmpty(t *testing.T) {
	session := newFakeSession()
	service := newTestService(t, session)

	if err := service.EditPost(context.Background(), testPostID, PostEdit{}); err != nil {
		t.Fatalf("EditPost with no fields: %v", err)
	}
	if len(session.stateWrites) != 0 || len(session.sentMessages) != 0 {
		t.Error("empty edit touched the server")
	}
}
