package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// BoardRef names the board of a task either by name or by id.
// Name takes precedence when both are set.
type BoardRef struct {
	ID   uint
	Name string
}

// TaskInput represents data required to create or update a task.
type TaskInput struct {
	Title       string
	Description string
	Board       BoardRef
}

func (in TaskInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		problems = append(problems, "description is required")
	}
	if in.Board.ID == 0 && strings.TrimSpace(in.Board.Name) == "" {
		problems = append(problems, "board is required")
	}
	if len(problems) > 0 {
		return badRequestf("%s.", strings.Join(problems, "; "))
	}
	return nil
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store  *repository.Store
	policy Policy
	now    func() time.Time
}

func NewTaskService(store *repository.Store, policy Policy) *TaskService {
	return &TaskService{store: store, policy: policy, now: time.Now}
}

// Policy reports the behavior switches this service was built with.
func (s *TaskService) Policy() Policy {
	return s.policy
}

func (s *TaskService) List(ctx context.Context) ([]TaskSummary, error) {
	tasks, err := s.store.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return summarizeAll(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (TaskSummary, error) {
	task, err := s.findTask(ctx, s.store, id)
	if err != nil {
		return TaskSummary{}, err
	}
	return summarize(*task), nil
}

// Search returns the tasks whose title or description contains keyword.
// An empty keyword disables filtering. In case-insensitive mode the keyword
// is trimmed first and both sides are lower-cased; case-sensitive mode
// matches the keyword exactly as given.
func (s *TaskService) Search(ctx context.Context, keyword string) ([]TaskSummary, error) {
	sensitive := s.policy.Search == SearchCaseSensitive
	if !sensitive {
		keyword = strings.TrimSpace(keyword)
	}
	if keyword == "" {
		return s.List(ctx)
	}

	var (
		tasks []model.Task
		err   error
	)
	if sensitive {
		tasks, err = s.store.Tasks.Search(ctx, keyword)
	} else {
		// SQL LOWER folds ASCII only, so Unicode case folding happens here.
		tasks, err = s.store.Tasks.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	// The store's collation may be looser than the configured mode.
	matched := tasks[:0]
	for _, t := range tasks {
		if containsKeyword(t.Title, keyword, sensitive) || containsKeyword(t.Description, keyword, sensitive) {
			matched = append(matched, t)
		}
	}
	return summarizeAll(matched), nil
}

func (s *TaskService) ListByBoard(ctx context.Context, boardName string) ([]TaskSummary, error) {
	tasks, err := s.store.Tasks.ListByBoardName(ctx, boardName)
	if err != nil {
		return nil, fmt.Errorf("list tasks of board %q: %w", boardName, err)
	}
	return summarizeAll(tasks), nil
}

// Create stores a new task owned by who and returns its summary.
func (s *TaskService) Create(ctx context.Context, who auth.Identity, input TaskInput) (TaskSummary, error) {
	if err := input.validate(); err != nil {
		return TaskSummary{}, err
	}

	var id uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		board, err := resolveBoard(ctx, tx, input.Board)
		if err != nil {
			return err
		}
		owner, err := resolveOwner(ctx, tx, who)
		if err != nil {
			return err
		}

		task := model.Task{
			Title:       input.Title,
			Description: input.Description,
			CreatedOn:   s.now(),
			BoardID:     board.ID,
			OwnerID:     owner.ID,
		}
		if err := tx.Tasks.Create(ctx, &task); err != nil {
			return err
		}
		id = task.ID
		return nil
	})
	if err != nil {
		return TaskSummary{}, err
	}

	return s.Get(ctx, id)
}

// Update overwrites title, description and board of task id.
func (s *TaskService) Update(ctx context.Context, who auth.Identity, id uint, input TaskInput) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := s.findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.policy.Owner.Update && task.OwnerID != who.UserID {
			return unauthorizedf("Only the owner can edit task #%d.", id)
		}
		if err := input.validate(); err != nil {
			return err
		}
		board, err := resolveBoard(ctx, tx, input.Board)
		if err != nil {
			return err
		}

		task.Title = input.Title
		task.Description = input.Description
		task.BoardID = board.ID
		return tx.Tasks.Update(ctx, task)
	})
}

// Delete removes task id and returns the summary it had before removal.
func (s *TaskService) Delete(ctx context.Context, who auth.Identity, id uint) (TaskSummary, error) {
	var removed TaskSummary
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := s.findTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.policy.Owner.Delete && task.OwnerID != who.UserID {
			return unauthorizedf("Only the owner can delete task #%d.", id)
		}
		removed = summarize(*task)
		return tx.Tasks.Delete(ctx, id)
	})
	if err != nil {
		return TaskSummary{}, err
	}
	return removed, nil
}

func (s *TaskService) findTask(ctx context.Context, store *repository.Store, id uint) (*model.Task, error) {
	task, err := store.Tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("Task #%d not found.", id)
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return task, nil
}

func resolveBoard(ctx context.Context, store *repository.Store, ref BoardRef) (*model.Board, error) {
	var (
		board *model.Board
		err   error
	)
	name := ref.Name
	if strings.TrimSpace(name) != "" {
		board, err = store.Boards.FindByName(ctx, name)
	} else {
		board, err = store.Boards.FindByID(ctx, ref.ID)
	}
	switch {
	case err == nil:
		return board, nil
	case errors.Is(err, repository.ErrNotFound) && ref.ID == 0:
		return nil, badRequestf("Board %s name does not exist.", name)
	case errors.Is(err, repository.ErrNotFound):
		return nil, badRequestf("Board does not exist.")
	default:
		return nil, fmt.Errorf("find board: %w", err)
	}
}

func resolveOwner(ctx context.Context, store *repository.Store, who auth.Identity) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	if who.UserID != "" {
		user, err = store.Users.FindByID(ctx, who.UserID)
	} else {
		user, err = store.Users.FindByUsername(ctx, who.Username)
	}
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, unauthorizedf("Current user does not exist.")
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func containsKeyword(text, keyword string, sensitive bool) bool {
	if sensitive {
		return strings.Contains(text, keyword)
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}
