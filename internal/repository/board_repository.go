package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// BoardRepository manages boards.
type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

func (r *BoardRepository) FindByID(ctx context.Context, id uint) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &board, nil
}

func (r *BoardRepository) FindByName(ctx context.Context, name string) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&board).Error; err != nil {
		return nil, notFound(err)
	}
	return &board, nil
}

func (r *BoardRepository) List(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// ListWithTasks loads every board together with its tasks and their owners.
func (r *BoardRepository) ListWithTasks(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		Preload("Tasks.Owner").
		Order("id ASC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}
