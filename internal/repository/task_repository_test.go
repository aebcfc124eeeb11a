package repository

import (
	"context"
	"errors"
	"testing"
)

func TestTaskFindByIDPreloadsRelations(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	created := addTask(t, s, f.sprint, f.maria, "Fix bug", "NPE on save")

	got, err := s.Tasks.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Board.Name != "Sprint1" {
		t.Fatalf("expected board Sprint1, got %q", got.Board.Name)
	}
	if got.Owner.Username != "maria" {
		t.Fatalf("expected owner maria, got %q", got.Owner.Username)
	}
}

func TestTaskFindByIDMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Tasks.FindByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskSearch(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	addTask(t, s, f.sprint, f.maria, "Fix bug", "NPE on save")
	addTask(t, s, f.sprint, f.peter, "Write docs", "Document the BUG tracker")
	addTask(t, s, f.backlog, f.peter, "Plan", "100% coverage")
	ctx := context.Background()

	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{name: "title", keyword: "bug", want: []string{"Fix bug"}},
		{name: "description", keyword: "BUG", want: []string{"Write docs"}},
		{name: "leading space kept", keyword: " bug", want: []string{"Fix bug"}},
		{name: "percent is literal", keyword: "%", want: []string{"Plan"}},
		{name: "underscore is literal", keyword: "_", want: nil},
		{name: "no match", keyword: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.Tasks.Search(ctx, tt.keyword)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("expected %v, got %d tasks", tt.want, len(tasks))
			}
			for i, task := range tasks {
				if task.Title != tt.want[i] {
					t.Fatalf("expected %v, got title %q at %d", tt.want, task.Title, i)
				}
			}
		})
	}
}

func TestTaskListByBoardNameIsExact(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	addTask(t, s, f.sprint, f.maria, "A", "a")
	addTask(t, s, f.backlog, f.maria, "B", "b")

	tasks, err := s.Tasks.ListByBoardName(context.Background(), "Sprint1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "A" {
		t.Fatalf("expected only task A, got %+v", tasks)
	}

	tasks, err = s.Tasks.ListByBoardName(context.Background(), "Sprint")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks for partial name, got %d", len(tasks))
	}
}

func TestTaskUpdateKeepsCreatedOnAndOwner(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()
	task := addTask(t, s, f.sprint, f.maria, "Old", "old")

	loaded, err := s.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	loaded.Title = "New"
	loaded.Description = "new"
	loaded.BoardID = f.backlog.ID
	if err := s.Tasks.Update(ctx, loaded); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "New" || got.Description != "new" || got.Board.Name != "Sprint10" {
		t.Fatalf("unexpected task after update: %+v", got)
	}
	if !got.CreatedOn.Equal(task.CreatedOn) {
		t.Fatalf("created on changed: %v -> %v", task.CreatedOn, got.CreatedOn)
	}
	if got.OwnerID != f.maria.ID {
		t.Fatalf("owner changed to %q", got.OwnerID)
	}
}

func TestTaskDelete(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()
	task := addTask(t, s, f.sprint, f.maria, "Gone", "soon")

	if err := s.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Tasks.FindByID(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.Boards.FindByID(ctx, f.sprint.ID); err != nil {
		t.Fatalf("board must survive task delete: %v", err)
	}
	if _, err := s.Users.FindByID(ctx, f.maria.ID); err != nil {
		t.Fatalf("user must survive task delete: %v", err)
	}
}

func TestBoardListWithTasks(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	addTask(t, s, f.sprint, f.maria, "A", "a")
	addTask(t, s, f.sprint, f.peter, "B", "b")

	boards, err := s.Boards.ListWithTasks(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	if len(boards[0].Tasks) != 2 || boards[0].Tasks[1].Owner.Username != "peter" {
		t.Fatalf("unexpected tasks on first board: %+v", boards[0].Tasks)
	}
	if len(boards[1].Tasks) != 0 {
		t.Fatalf("expected empty second board, got %d tasks", len(boards[1].Tasks))
	}
}

func TestBoardAndUserLookups(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	if _, err := s.Boards.FindByName(ctx, "Sprint1"); err != nil {
		t.Fatalf("find board: %v", err)
	}
	if _, err := s.Boards.FindByName(ctx, "sprint1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for different case, got %v", err)
	}
	if _, err := s.Users.FindByUsername(ctx, "peter"); err != nil {
		t.Fatalf("find user: %v", err)
	}
	if _, err := s.Users.FindByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0].Username != "maria" {
		t.Fatalf("unexpected users: %+v", users)
	}
}
