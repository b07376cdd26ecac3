package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Profile is the catalog user a sync run acts for.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Name returns the display name, falling back to the user id.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// Collection is a playlist created by a sync run. Its identity is fixed at creation.
type Collection struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url" yaml:"url"`
	OwnerID string `json:"owner_id" yaml:"owner_id"`
}

// Keys of the single-slot auth state entries.
const (
	AuthKeyVerifier    = "pkce_verifier"
	AuthKeyState       = "oauth_state"
	AuthKeyAccessToken = "access_token"
)

// AuthEntry is one persisted slot of login session state.
type AuthEntry struct {
	id        string
	sequence  int
	key       string
	value     string
	createdAt time.Time
	updatedAt time.Time
}

var _ Model = (*AuthEntry)(nil)

// NewAuthEntry builds an unsaved entry; the repository assigns id and sequence.
func NewAuthEntry(key, value string) *AuthEntry {
	now := time.Now().UTC()
	return &AuthEntry{key: key, value: value, createdAt: now, updatedAt: now}
}

// RestoreAuthEntry rebuilds an entry read from storage.
func RestoreAuthEntry(id string, sequence int, key, value string, createdAt, updatedAt time.Time) *AuthEntry {
	return &AuthEntry{
		id:        id,
		sequence:  sequence,
		key:       key,
		value:     value,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e *AuthEntry) ID() string           { return e.id }
func (e *AuthEntry) Sequence() int        { return e.sequence }
func (e *AuthEntry) Key() string          { return e.key }
func (e *AuthEntry) Value() string        { return e.value }
func (e *AuthEntry) CreatedAt() time.Time { return e.createdAt }
func (e *AuthEntry) UpdatedAt() time.Time { return e.updatedAt }

func (e *AuthEntry) SetID(id string)          { e.id = id }
func (e *AuthEntry) SetSequence(sequence int) { e.sequence = sequence }

// Validate rejects entries without a key or value.
func (e *AuthEntry) Validate() error {
	if strings.TrimSpace(e.key) == "" {
		return fmt.Errorf("auth entry key is required")
	}
	if e.value == "" {
		return fmt.Errorf("auth entry %s has an empty value", e.key)
	}
	return nil
}
