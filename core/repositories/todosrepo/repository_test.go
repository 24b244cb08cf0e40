package todosrepo_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/jrazmi/todolist/core/repositories"
	"github.com/jrazmi/todolist/core/repositories/todosrepo"
	"github.com/jrazmi/todolist/sdk/logger"
)

// stubStore is an in-memory Storer.
type stubStore struct {
	records map[string]todosrepo.Todo
	calls   int
	failAll error
}

func newStubStore() *stubStore {
	return &stubStore{records: make(map[string]todosrepo.Todo)}
}

func (s *stubStore) List(ctx context.Context) ([]todosrepo.Todo, error) {
	s.calls++
	if s.failAll != nil {
		return nil, s.failAll
	}
	out := make([]todosrepo.Todo, 0, len(s.records))
	for _, t := range s.records {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubStore) Get(ctx context.Context, id string) (todosrepo.Todo, error) {
	s.calls++
	if s.failAll != nil {
		return todosrepo.Todo{}, s.failAll
	}
	t, ok := s.records[id]
	if !ok {
		return todosrepo.Todo{}, fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
	}
	return t, nil
}

func (s *stubStore) Create(ctx context.Context, todo todosrepo.Todo) error {
	s.calls++
	if s.failAll != nil {
		return s.failAll
	}
	s.records[todo.ID] = todo
	return nil
}

func (s *stubStore) Update(ctx context.Context, todo todosrepo.Todo) error {
	s.calls++
	if _, ok := s.records[todo.ID]; !ok {
		return fmt.Errorf("todo %s: %w", todo.ID, repositories.ErrNotFound)
	}
	s.records[todo.ID] = todo
	return nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	s.calls++
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("todo %s: %w", id, repositories.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

func (s *stubStore) Check(ctx context.Context) error {
	return s.failAll
}

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func newRepo(store *stubStore, clock *fakeClock) *todosrepo.Repository {
	log := logger.NewDefault(logger.WithOutput(io.Discard))
	return todosrepo.NewRepository(log, store, todosrepo.WithClock(clock.Now))
}

func ptr(s string) *string { return &s }

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	repo := newRepo(store, &fakeClock{t: epoch, step: time.Second})

	got, err := repo.Create(ctx, todosrepo.CreateTodo{Title: "Buy milk", Description: ptr("2L")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.ID == "" {
		t.Error("ID is empty")
	}
	if got.Status != todosrepo.StatusPending {
		t.Errorf("Status = %q", got.Status)
	}
	if got.Description == nil || *got.Description != "2L" {
		t.Errorf("Description = %v", got.Description)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt not UTC: %v", got.CreatedAt.Location())
	}
	if got.CreatedAt.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("CreatedAt not truncated to milliseconds: %v", got.CreatedAt)
	}

	stored, err := repo.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored != got {
		t.Errorf("Get() = %+v, want %+v", stored, got)
	}
}

func TestCreateUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	seen := make(map[string]bool)
	for i := range 50 {
		got, err := repo.Create(ctx, todosrepo.CreateTodo{Title: fmt.Sprintf("t%d", i)})
		if err != nil {
			t.Fatal(err)
		}
		if seen[got.ID] {
			t.Fatalf("duplicate id %s", got.ID)
		}
		seen[got.ID] = true
	}
}

func TestCreateEmptyDescriptionIsNull(t *testing.T) {
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	got, err := repo.Create(context.Background(), todosrepo.CreateTodo{Title: "x", Description: ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != nil {
		t.Errorf("Description = %q, want nil", *got.Description)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	store := newStubStore()
	repo := newRepo(store, &fakeClock{t: epoch})

	_, err := repo.Create(context.Background(), todosrepo.CreateTodo{Title: ""})
	if !errors.Is(err, todosrepo.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if store.calls != 0 || len(store.records) != 0 {
		t.Error("store touched on invalid create")
	}
}

func TestListOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newStubStore(), &fakeClock{t: epoch, step: time.Second})

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty store = %#v, want empty non-nil slice", empty)
	}

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		got, err := repo.Create(ctx, todosrepo.CreateTodo{Title: title})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, got.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestCreateUsesIDGenerator(t *testing.T) {
	ctx := context.Background()
	log := logger.NewDefault(logger.WithOutput(io.Discard))

	var n int
	repo := todosrepo.NewRepository(log, newStubStore(),
		todosrepo.WithClock((&fakeClock{t: epoch}).Now),
		todosrepo.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("todo-%d", n)
		}),
	)

	for _, title := range []string{"first", "second", "third"} {
		if _, err := repo.Create(ctx, todosrepo.CreateTodo{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Same createdAt for all three, so ids decide.
	for i, want := range []string{"todo-3", "todo-2", "todo-1"} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestUpdateMerge(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		input    todosrepo.UpdateTodo
		wantT    string
		wantDesc *string
	}{
		{
			name:     "title only keeps description",
			input:    todosrepo.UpdateTodo{Title: ptr("New")},
			wantT:    "New",
			wantDesc: ptr("old desc"),
		},
		{
			name:     "empty title keeps title",
			input:    todosrepo.UpdateTodo{Title: ptr(""), Description: ptr("d2"), DescriptionSet: true},
			wantT:    "Old",
			wantDesc: ptr("d2"),
		},
		{
			name:     "empty description replaces",
			input:    todosrepo.UpdateTodo{Description: ptr(""), DescriptionSet: true},
			wantT:    "Old",
			wantDesc: ptr(""),
		},
		{
			name:     "null description clears",
			input:    todosrepo.UpdateTodo{DescriptionSet: true},
			wantT:    "Old",
			wantDesc: nil,
		},
		{
			name:     "nothing supplied",
			input:    todosrepo.UpdateTodo{},
			wantT:    "Old",
			wantDesc: ptr("old desc"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(newStubStore(), &fakeClock{t: epoch, step: time.Second})
			created, err := repo.Create(ctx, todosrepo.CreateTodo{Title: "Old", Description: ptr("old desc")})
			if err != nil {
				t.Fatal(err)
			}

			got, err := repo.Update(ctx, created.ID, tt.input)
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}

			if got.Title != tt.wantT {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantT)
			}
			switch {
			case tt.wantDesc == nil && got.Description != nil:
				t.Errorf("Description = %q, want nil", *got.Description)
			case tt.wantDesc != nil && (got.Description == nil || *got.Description != *tt.wantDesc):
				t.Errorf("Description = %v, want %q", got.Description, *tt.wantDesc)
			}
			if got.Status != created.Status || !got.CreatedAt.Equal(created.CreatedAt) || got.ID != created.ID {
				t.Errorf("immutable fields changed: %+v", got)
			}
			if !got.UpdatedAt.After(created.UpdatedAt) {
				t.Errorf("UpdatedAt %v not after %v", got.UpdatedAt, created.UpdatedAt)
			}
		})
	}
}

func TestUpdatedAtStrictlyIncreasesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	created, err := repo.Create(ctx, todosrepo.CreateTodo{Title: "a"})
	if err != nil {
		t.Fatal(err)
	}

	prev := created.UpdatedAt
	for range 3 {
		got, err := repo.SetStatus(ctx, created.ID, "completed")
		if err != nil {
			t.Fatal(err)
		}
		if !got.UpdatedAt.After(prev) {
			t.Fatalf("UpdatedAt %v not after %v", got.UpdatedAt, prev)
		}
		prev = got.UpdatedAt
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	_, err := repo.Update(context.Background(), "missing", todosrepo.UpdateTodo{Title: ptr("x")})
	if !errors.Is(err, todosrepo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newStubStore(), &fakeClock{t: epoch, step: time.Millisecond})

	created, err := repo.Create(ctx, todosrepo.CreateTodo{Title: "a", Description: ptr("d")})
	if err != nil {
		t.Fatal(err)
	}

	done, err := repo.SetStatus(ctx, created.ID, "completed")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != todosrepo.StatusCompleted {
		t.Errorf("Status = %q", done.Status)
	}
	if done.Title != "a" || *done.Description != "d" {
		t.Errorf("other fields changed: %+v", done)
	}

	back, err := repo.SetStatus(ctx, created.ID, "pending")
	if err != nil {
		t.Fatal(err)
	}
	if back.Status != todosrepo.StatusPending {
		t.Errorf("Status = %q", back.Status)
	}
}

func TestSetStatusInvalidDoesNotTouchStore(t *testing.T) {
	store := newStubStore()
	repo := newRepo(store, &fakeClock{t: epoch})

	for _, status := range []string{"done", "", "Completed"} {
		_, err := repo.SetStatus(context.Background(), "missing", status)
		if !errors.Is(err, todosrepo.ErrInvalidArgument) {
			t.Errorf("status %q: err = %v, want ErrInvalidArgument", status, err)
		}
	}
	if store.calls != 0 {
		t.Errorf("store calls = %d, want 0", store.calls)
	}
}

func TestSetStatusNotFound(t *testing.T) {
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	_, err := repo.SetStatus(context.Background(), "missing", "completed")
	if !errors.Is(err, todosrepo.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(newStubStore(), &fakeClock{t: epoch})

	created, err := repo.Create(ctx, todosrepo.CreateTodo{Title: "a"})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, todosrepo.ErrNotFound) {
		t.Errorf("Get() after delete err = %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, todosrepo.ErrNotFound) {
		t.Errorf("second Delete() err = %v, want ErrNotFound", err)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	store := newStubStore()
	store.failAll = errors.New("connection refused")
	repo := newRepo(store, &fakeClock{t: epoch})

	if _, err := repo.List(context.Background()); !errors.Is(err, store.failAll) {
		t.Errorf("List() err = %v", err)
	}
	if err := repo.Check(context.Background()); !errors.Is(err, store.failAll) {
		t.Errorf("Check() err = %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := todosrepo.ParseStatus("pending"); err != nil || s != todosrepo.StatusPending {
		t.Errorf("ParseStatus(pending) = %q, %v", s, err)
	}
	if _, err := todosrepo.ParseStatus("archived"); !errors.Is(err, todosrepo.ErrInvalidArgument) {
		t.Errorf("ParseStatus(archived) err = %v", err)
	}
}
