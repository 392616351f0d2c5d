package prefstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"ligmir-backend/services/charsheet"
)

// namespace keys all rows written by this transport. The store itself
// is transport agnostic.
const namespace = "telegram"

// Store persists each user's default character sheet reference.
// Writes are last write wins, rows never expire.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// GetDefaultCharacter returns the stored reference for a user. The
// second return value is false when the user has no stored preference.
func (s Store) GetDefaultCharacter(ctx context.Context, userID int64) (charsheet.Ref, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`select character_id from default_characters where namespace = ? and user_id = ?`,
		namespace, userID,
	)

	var characterID int64
	err := row.Scan(&characterID)
	if errors.Is(err, sql.ErrNoRows) {
		return charsheet.Ref{}, false, nil
	}
	if err != nil {
		return charsheet.Ref{}, false, fmt.Errorf("get default character: %w", err)
	}

	return charsheet.Ref{ID: characterID}, true, nil
}

func (s Store) SetDefaultCharacter(ctx context.Context, userID int64, ref charsheet.Ref) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into default_characters (namespace, user_id, character_id)
		values (?, ?, ?)
		on conflict (namespace, user_id) do update set character_id = excluded.character_id`,
		namespace, userID, ref.ID,
	)
	if err != nil {
		return fmt.Errorf("set default character: %w", err)
	}

	slog.DebugContext(ctx, "stored default character", "user_id", userID, "character_id", ref.ID)
	return nil
}
