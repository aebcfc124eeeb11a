package service

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/auth"
)

func TestBoardServiceAll(t *testing.T) {
	svc, store := newTestService(t, Policy{})
	mustCreate(t, svc, maria, "A", "a", "Sprint1")
	mustCreate(t, svc, peter, "B", "b", "Sprint1")

	boards := NewBoardService(store.Boards)
	all, err := boards.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(all))
	}
	if all[0].Name != "Sprint1" || len(all[0].Tasks) != 2 || all[0].Tasks[1].Owner != "peter" {
		t.Fatalf("unexpected first board: %+v", all[0])
	}
	if all[1].Tasks == nil || len(all[1].Tasks) != 0 {
		t.Fatalf("expected empty non-nil task list, got %#v", all[1].Tasks)
	}
}

func TestBoardServiceCreateAndOptions(t *testing.T) {
	store := newTestStore(t)
	boards := NewBoardService(store.Boards)
	ctx := context.Background()

	if _, err := boards.Create(ctx, "   "); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for blank name, got %v", err)
	}
	created, err := boards.Create(ctx, " Backlog ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Backlog" || created.ID == 0 {
		t.Fatalf("unexpected board: %+v", created)
	}
	if _, err := boards.Create(ctx, "Backlog"); err == nil {
		t.Fatalf("expected duplicate board name to fail")
	}

	opts, err := boards.Options(ctx)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts) != 3 || opts[2] != created {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestUserServiceRegister(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store.Users)
	ctx := context.Background()

	_, err := users.Register(ctx, UserInput{Username: "x", Email: "not-an-email", FirstName: "X", LastName: "Y", Password: "short"})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if want := "Email must be a valid address; Password must be at least 8 characters."; err.Error() != want {
		t.Fatalf("unexpected message %q, want %q", err.Error(), want)
	}

	_, err = users.Register(ctx, UserInput{Username: "  ", Email: "x@example.com", LastName: "Y", Password: "long-enough"})
	if want := "Username is required; FirstName is required."; err == nil || err.Error() != want {
		t.Fatalf("unexpected error %v, want %q", err, want)
	}

	created, err := users.Register(ctx, UserInput{
		Username:  "ivan",
		Email:     "ivan@example.com",
		FirstName: "Ivan",
		LastName:  "Georgiev",
		Password:  "secret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == "" || created.Username != "ivan" {
		t.Fatalf("unexpected user: %+v", created)
	}

	stored, err := store.Users.FindByUsername(ctx, "ivan")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !auth.CheckPassword(stored.PasswordHash, "secret-pass") {
		t.Fatalf("stored password hash does not verify")
	}

	all, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
}

func TestParsePolicies(t *testing.T) {
	if m, err := ParseSearchMode("Insensitive"); err != nil || m != SearchCaseInsensitive {
		t.Fatalf("ParseSearchMode: %v %v", m, err)
	}
	if _, err := ParseSearchMode("fuzzy"); err == nil {
		t.Fatalf("expected error for unknown search mode")
	}

	tests := map[string]OwnerPolicy{
		"none":          {},
		"":              {},
		"delete":        {Delete: true},
		"update,delete": {Update: true, Delete: true},
		"all":           {Update: true, Delete: true},
		" update ":      {Update: true},
	}
	for raw, want := range tests {
		got, err := ParseOwnerPolicy(raw)
		if err != nil {
			t.Fatalf("ParseOwnerPolicy(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseOwnerPolicy(%q) = %+v, want %+v", raw, got, want)
		}
		if back, _ := ParseOwnerPolicy(got.String()); back != got {
			t.Fatalf("String() of %+v does not parse back", got)
		}
	}
	if _, err := ParseOwnerPolicy("create"); err == nil {
		t.Fatalf("expected error for unknown owner check")
	}
}
