package service

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// BoardService provides helpers around boards.
type BoardService struct {
	repo *repository.BoardRepository
}

func NewBoardService(repo *repository.BoardRepository) *BoardService {
	return &BoardService{repo: repo}
}

// Create registers a new board. Boards are created administratively only.
func (s *BoardService) Create(ctx context.Context, name string) (BoardOption, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BoardOption{}, badRequestf("Board name is required.")
	}
	board := model.Board{Name: name}
	if err := s.repo.Create(ctx, &board); err != nil {
		return BoardOption{}, err
	}
	return BoardOption{ID: board.ID, Name: board.Name}, nil
}

// Options lists boards as id/name pairs for selection forms.
func (s *BoardService) Options(ctx context.Context) ([]BoardOption, error) {
	boards, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	out := make([]BoardOption, 0, len(boards))
	for _, b := range boards {
		out = append(out, BoardOption{ID: b.ID, Name: b.Name})
	}
	return out, nil
}

// All lists every board with its tasks.
func (s *BoardService) All(ctx context.Context) ([]BoardListing, error) {
	boards, err := s.repo.ListWithTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	out := make([]BoardListing, 0, len(boards))
	for _, b := range boards {
		listing := BoardListing{ID: b.ID, Name: b.Name, Tasks: make([]TaskDetails, 0, len(b.Tasks))}
		for _, t := range b.Tasks {
			listing.Tasks = append(listing.Tasks, TaskDetails{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Owner:       t.Owner.Username,
			})
		}
		out = append(out, listing)
	}
	return out, nil
}
