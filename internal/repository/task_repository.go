package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// withRelations preloads the board and owner of every task and fixes the order.
func (r *TaskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Board").Preload("Owner").Order("tasks.id ASC")
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.withRelations(ctx).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.withRelations(ctx).Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// Search returns tasks whose title or description contains keyword,
// compared by the store's collation.
func (r *TaskRepository) Search(ctx context.Context, keyword string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.withRelations(ctx).
		Where("instr(title, ?) > 0 OR instr(description, ?) > 0", keyword, keyword).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return tasks, nil
}

// ListByBoardName returns the tasks of the board whose name equals boardName exactly.
func (r *TaskRepository) ListByBoardName(ctx context.Context, boardName string) ([]model.Task, error) {
	boards := r.db.WithContext(ctx).Model(&model.Board{}).Select("id").Where("name = ?", boardName)

	var tasks []model.Task
	if err := r.withRelations(ctx).Where("board_id IN (?)", boards).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update overwrites the mutable fields of task. CreatedOn and OwnerID are left untouched.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	updates := map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"board_id":    task.BoardID,
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
