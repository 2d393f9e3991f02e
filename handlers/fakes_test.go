package handlers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/store"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	err     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]models.User)}
}

func (f *fakeUsers) Create(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.byEmail {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrConflict
		}
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

type fakeTodos struct {
	mu    sync.Mutex
	todos map[string]models.Todo
	err   error
}

func newFakeTodos() *fakeTodos {
	return &fakeTodos{todos: make(map[string]models.Todo)}
}

func (f *fakeTodos) List(_ context.Context, userID string) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Todo{}
	for _, t := range f.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTodos) Get(_ context.Context, userID, id string) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return models.Todo{}, store.ErrNotFound
	}
	return t, nil
}

func (f *fakeTodos) Create(_ context.Context, todo models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.todos[todo.ID] = todo
	return nil
}

func (f *fakeTodos) Update(_ context.Context, userID, id string, update models.TodoUpdate, now time.Time) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return models.Todo{}, store.ErrNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = update.Description
	}
	if update.Completed != nil {
		t.Completed = *update.Completed
	}
	t.UpdatedAt = now
	f.todos[id] = t
	return t, nil
}

func (f *fakeTodos) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

var errBoom = errors.New("boom")
