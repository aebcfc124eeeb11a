package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one database handle.
type Store struct {
	db     *gorm.DB
	Boards *BoardRepository
	Tasks  *TaskRepository
	Users  *UserRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		Boards: NewBoardRepository(db),
		Tasks:  NewTaskRepository(db),
		Users:  NewUserRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
