package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"coursedeck/internal/model"
	"coursedeck/internal/repository"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrTitleRequired = errors.New("title is required")
)

// TodoListResult is the service-level DTO for paginated todos.
type TodoListResult struct {
	Items []model.Todo `json:"data"`
	Total int          `json:"total"`
}

// TodoUpdate carries the mutable fields of a todo. Nil means "leave unchanged".
type TodoUpdate struct {
	Title       *string
	Description *string
	Done        *bool
	DueAt       *time.Time
	ClearDueAt  bool
}

// TodoService defines the use cases for user-owned todos.
type TodoService interface {
	Create(ctx context.Context, userID int64, title, description string, dueAt *time.Time) (*model.Todo, error)
	Get(ctx context.Context, userID int64, id string) (*model.Todo, error)
	List(ctx context.Context, userID int64, limit, offset int) (*TodoListResult, error)
	Update(ctx context.Context, userID int64, id string, upd TodoUpdate) (*model.Todo, error)
	Complete(ctx context.Context, userID int64, id string) (*model.Todo, error)
	Overdue(ctx context.Context, userID int64) ([]model.Todo, error)
	Delete(ctx context.Context, userID int64, id string) error
}

// todoService is a concrete implementation of TodoService.
type todoService struct {
	repo repository.TodoRepository
	now  func() time.Time
}

// NewTodoService constructs a new TodoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *todoService) Create(ctx context.Context, userID int64, title, description string, dueAt *time.Time) (*model.Todo, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	now := s.now()
	td := &model.Todo{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		DueAt:       dueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, td)
}

func (s *todoService) Get(ctx context.Context, userID int64, id string) (*model.Todo, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	td, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return td, nil
}

func (s *todoService) List(ctx context.Context, userID int64, limit, offset int) (*TodoListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TodoListResult{Items: res.Items, Total: res.Total}, nil
}

// Update applies the provided fields on top of the stored todo.
func (s *todoService) Update(ctx context.Context, userID int64, id string, upd TodoUpdate) (*model.Todo, error) {
	td, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, ErrTitleRequired
		}
		td.Title = *upd.Title
	}
	if upd.Description != nil {
		td.Description = *upd.Description
	}
	if upd.Done != nil {
		td.Done = *upd.Done
	}
	if upd.ClearDueAt {
		td.DueAt = nil
	} else if upd.DueAt != nil {
		td.DueAt = upd.DueAt
	}

	stored, err := s.repo.Update(ctx, td)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return stored, nil
}

func (s *todoService) Complete(ctx context.Context, userID int64, id string) (*model.Todo, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	td, err := s.repo.MarkDone(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return td, nil
}

func (s *todoService) Overdue(ctx context.Context, userID int64) ([]model.Todo, error) {
	return s.repo.Overdue(ctx, userID, s.now())
}

func (s *todoService) Delete(ctx context.Context, userID int64, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTodoNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}
