// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/lib/secret"
	"github.com/lectern-press/lectern/messaging"
)

// StoredSession is the on-disk authentication state written by
// "lectern login" and loaded by every authenticated command.
type StoredSession struct {
	// UserID is the author's full user ID (e.g., "@ben:lectern.press").
	UserID string `json:"user_id"`

	// AccessToken proves the author's identity to the homeserver.
	AccessToken string `json:"access_token"`

	// Homeserver is the base URL of the homeserver the token belongs
	// to, so later commands need no --homeserver flag.
	Homeserver string `json:"homeserver"`
}

// SessionFilePath returns the session file location: $LECTERN_SESSION_FILE
// if set, otherwise <config dir>/lectern/session.json.
func SessionFilePath() string {
	if envPath := os.Getenv("LECTERN_SESSION_FILE"); envPath != "" {
		return envPath
	}
	return filepath.Join(configDirectory(), "lectern", "session.json")
}

// LoadSession reads the stored session from the well-known path.
func LoadSession() (*StoredSession, error) {
	return LoadSessionFrom(SessionFilePath())
}

// LoadSessionFrom reads a stored session from a specific path.
func LoadSessionFrom(path string) (*StoredSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no lectern session found at %s, run \"lectern login\" first", path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		secret.Zero(data)
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	secret.Zero(data)

	if session.UserID == "" {
		return nil, fmt.Errorf("session file %s has no user_id", path)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if session.Homeserver == "" {
		return nil, fmt.Errorf("session file %s has no homeserver", path)
	}
	return &session, nil
}

// SaveSession writes the session to the well-known path. The parent
// directory is created with mode 0700 and the file with mode 0600; the
// file holds an access token.
func SaveSession(session *StoredSession) error {
	return SaveSessionTo(session, SessionFilePath())
}

// SaveSessionTo writes a session to a specific path.
func SaveSessionTo(session *StoredSession, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	writeError := os.WriteFile(path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("writing session file %s: %w", path, writeError)
	}
	return nil
}

// Connect restores an authenticated protocol session from the session
// file. The caller must Close the returned session.
func Connect() (*messaging.DirectSession, error) {
	stored, err := LoadSession()
	if err != nil {
		return nil, err
	}

	userID, err := ref.ParseUserID(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("session file user_id: %w", err)
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: stored.Homeserver,
	})
	if err != nil {
		return nil, fmt.Errorf("creating homeserver client: %w", err)
	}
	return client.SessionFromToken(userID, stored.AccessToken)
}
