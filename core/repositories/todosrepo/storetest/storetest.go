// Package storetest checks a todosrepo.Storer implementation against the
// behavior the repository relies on.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jrazmi/todolist/core/repositories"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
)

var base = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func desc(s string) *string { return &s }

// Run exercises s. The store must start empty.
func Run(t *testing.T, s todosrepo.Storer) {
	t.Helper()
	ctx := context.Background()

	if err := s.Check(ctx); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() on empty store error = %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List() on empty store = %d records", len(list))
	}

	first := todosrepo.Todo{
		ID:          "a-first",
		Title:       "first",
		Description: desc("with description"),
		Status:      todosrepo.StatusPending,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	second := todosrepo.Todo{
		ID:        "b-second",
		Title:     "second",
		Status:    todosrepo.StatusPending,
		CreatedAt: base.Add(time.Minute),
		UpdatedAt: base.Add(time.Minute),
	}
	tie := todosrepo.Todo{
		ID:        "c-tie",
		Title:     "same instant as second",
		Status:    todosrepo.StatusCompleted,
		CreatedAt: base.Add(time.Minute),
		UpdatedAt: base.Add(time.Minute),
	}

	for _, todo := range []todosrepo.Todo{first, second, tie} {
		if err := s.Create(ctx, todo); err != nil {
			t.Fatalf("Create(%s) error = %v", todo.ID, err)
		}
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		assertTodo(t, got, first)

		got, err = s.Get(ctx, second.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Description != nil {
			t.Errorf("Description = %q, want nil", *got.Description)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("Get() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("list order", func(t *testing.T) {
		got, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{tie.ID, second.ID, first.ID}
		if len(got) != len(want) {
			t.Fatalf("List() = %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("List()[%d] = %s, want %s", i, got[i].ID, want[i])
			}
		}
	})

	t.Run("update", func(t *testing.T) {
		changed := first
		changed.Title = "first renamed"
		changed.Description = nil
		changed.Status = todosrepo.StatusCompleted
		changed.UpdatedAt = base.Add(time.Hour + 123*time.Millisecond)

		if err := s.Update(ctx, changed); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := s.Get(ctx, first.ID)
		if err != nil {
			t.Fatal(err)
		}
		assertTodo(t, got, changed)
	})

	t.Run("update missing", func(t *testing.T) {
		ghost := first
		ghost.ID = "missing"
		if err := s.Update(ctx, ghost); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("Update() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, second.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, second.ID); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("Get() after delete err = %v", err)
		}
		if err := s.Delete(ctx, second.ID); !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("second Delete() err = %v, want ErrNotFound", err)
		}

		got, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("List() after delete = %d records, want 2", len(got))
		}
	})

	t.Run("list order ignores insertion order", func(t *testing.T) {
		later := base.Add(2 * time.Hour)
		offsets := []time.Duration{
			300 * time.Millisecond,
			5 * time.Millisecond,
			999 * time.Millisecond,
			0,
			1*time.Second + 120*time.Millisecond,
		}
		for i, off := range offsets {
			todo := todosrepo.Todo{
				ID:        fmt.Sprintf("o-%d", i),
				Title:     fmt.Sprintf("out of order %d", i),
				Status:    todosrepo.StatusPending,
				CreatedAt: later.Add(off),
				UpdatedAt: later.Add(off),
			}
			if err := s.Create(ctx, todo); err != nil {
				t.Fatalf("Create(%s) error = %v", todo.ID, err)
			}
		}

		got, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"o-4", "o-2", "o-0", "o-1", "o-3"}
		if len(got) < len(want) {
			t.Fatalf("List() = %d records, want at least %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("List()[%d] = %s, want %s", i, got[i].ID, want[i])
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i].CreatedAt.After(got[i-1].CreatedAt) {
				t.Errorf("List()[%d] created %v after List()[%d] %v", i, got[i].CreatedAt, i-1, got[i-1].CreatedAt)
			}
		}
	})
}

func assertTodo(t *testing.T, got, want todosrepo.Todo) {
	t.Helper()

	if got.ID != want.ID || got.Title != want.Title || got.Status != want.Status {
		t.Errorf("got %+v, want %+v", got, want)
	}
	switch {
	case want.Description == nil && got.Description != nil:
		t.Errorf("Description = %q, want nil", *got.Description)
	case want.Description != nil && (got.Description == nil || *got.Description != *want.Description):
		t.Errorf("Description = %v, want %q", got.Description, *want.Description)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
	if got.CreatedAt.Location() != time.UTC || got.UpdatedAt.Location() != time.UTC {
		t.Errorf("timestamps not UTC: %v / %v", got.CreatedAt.Location(), got.UpdatedAt.Location())
	}
}
