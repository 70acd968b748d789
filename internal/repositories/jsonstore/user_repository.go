package jsonstore

import (
	"context"
	"fmt"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
	"github.com/valutatrade/valutatrade-hub/internal/core/domain"
	"github.com/valutatrade/valutatrade-hub/internal/core/ports"
)

// userRecord is the on-disk representation of a user.
type userRecord struct {
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toUserRecord(d domain.User) userRecord {
	return userRecord{
		UserID:       d.UserID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		RegisteredAt: d.RegisteredAt,
	}
}

func toDomainUser(r userRecord) domain.User {
	return domain.User{
		UserID:       r.UserID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		RegisteredAt: r.RegisteredAt,
	}
}

// UserRepository persists users in users.json.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a UserRepository on the given store.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) load() ([]userRecord, error) {
	var records []userRecord
	if err := r.store.readJSON(usersFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveUser inserts the user, or replaces the stored record with the same ID.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	records, err := r.load()
	if err != nil {
		return err
	}

	record := toUserRecord(user)
	replaced := false
	for i := range records {
		if records[i].UserID == record.UserID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return r.store.writeJSON(usersFile, records)
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID int) (*domain.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.UserID == userID {
			user := toDomainUser(record)
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Username == username {
			user := toDomainUser(record)
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
}

// NextUserID returns max(existing IDs) + 1, starting at 1 for an empty store.
func (r *UserRepository) NextUserID(ctx context.Context) (int, error) {
	records, err := r.load()
	if err != nil {
		return 0, err
	}
	next := 1
	for _, record := range records {
		if record.UserID >= next {
			next = record.UserID + 1
		}
	}
	return next, nil
}
