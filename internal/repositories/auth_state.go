package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotdir/internal/models"
	"github.com/desertthunder/spotdir/internal/shared"
)

// AuthStateRepository persists login session slots (verifier, state, access token) keyed by name.
//
// Each key holds at most one value. Writing a key again replaces the slot with a fresh id and sequence.
type AuthStateRepository struct {
	db *sql.DB
}

// NewAuthStateRepository creates a new AuthStateRepository with the given database connection
func NewAuthStateRepository(db *sql.DB) *AuthStateRepository {
	return &AuthStateRepository{db: db}
}

// Save upserts entry, assigning a new id and sequence.
func (r *AuthStateRepository) Save(ctx context.Context, entry *models.AuthEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "auth_state")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.SetID(shared.GenerateID())
	entry.SetSequence(sequence)

	query := `
		INSERT INTO auth_state (key, id, sequence, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			sequence = excluded.sequence,
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query,
		entry.Key(),
		entry.ID(),
		entry.Sequence(),
		entry.Value(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	); err != nil {
		return fmt.Errorf("failed to save auth state %s: %w", entry.Key(), err)
	}

	return nil
}

// Entry retrieves the slot stored under key. Returns [ErrNotFound] when the slot is empty.
func (r *AuthStateRepository) Entry(ctx context.Context, key string) (*models.AuthEntry, error) {
	query := `
		SELECT id, sequence, key, value, created_at, updated_at
		FROM auth_state
		WHERE key = ?
	`

	var (
		id        string
		sequence  int
		k         string
		value     string
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, query, key).Scan(&id, &sequence, &k, &value, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: auth state %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan auth state: %w", err)
	}

	return models.RestoreAuthEntry(id, sequence, k, value, createdAt, updatedAt), nil
}

// Put stores value under key.
func (r *AuthStateRepository) Put(ctx context.Context, key, value string) error {
	return r.Save(ctx, models.NewAuthEntry(key, value))
}

// Get returns the value under key and whether the slot was set.
func (r *AuthStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := r.Entry(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value(), true, nil
}

// Delete clears the slot under key. Clearing an empty slot is not an error.
func (r *AuthStateRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM auth_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete auth state %s: %w", key, err)
	}
	return nil
}

// Clear removes every slot, ending the login session.
func (r *AuthStateRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM auth_state"); err != nil {
		return fmt.Errorf("failed to clear auth state: %w", err)
	}
	return nil
}
