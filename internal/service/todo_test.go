package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"coursedeck/internal/model"
	"coursedeck/internal/repository"
	repoMocks "coursedeck/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTodoService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(td *model.Todo) bool {
			return td.ID != "" && td.UserID == 7 && td.Title == "buy milk" && !td.Done
		})).Return(&model.Todo{ID: "gen-id", UserID: 7, Title: "buy milk"}, nil)

		svc := NewTodoService(mRepo)
		got, err := svc.Create(ctx, 7, "buy milk", "", nil)

		assert.NoError(t, err)
		assert.Equal(t, "gen-id", got.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty title", func(t *testing.T) {
		svc := NewTodoService(new(repoMocks.MockTodoRepository))
		_, err := svc.Create(ctx, 7, "", "", nil)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})
}

func TestTodoService_Update(t *testing.T) {
	ctx := context.Background()

	existing := &model.Todo{ID: "t1", UserID: 7, Title: "old", Description: "d"}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "t1").Return(existing, nil)
		newTitle := "new"
		mRepo.On("Update", ctx, mock.MatchedBy(func(td *model.Todo) bool {
			return td.Title == "new" && td.Description == "d"
		})).Return(&model.Todo{ID: "t1", UserID: 7, Title: "new", Description: "d"}, nil)

		svc := NewTodoService(mRepo)
		got, err := svc.Update(ctx, 7, "t1", TodoUpdate{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, "new", got.Title)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "t1").Return(existing, nil)

		svc := NewTodoService(mRepo)
		empty := ""
		_, err := svc.Update(ctx, 7, "t1", TodoUpdate{Title: &empty})

		assert.ErrorIs(t, err, ErrTitleRequired)
		mRepo.AssertNotCalled(t, "Update")
	})

	t.Run("clear due date", func(t *testing.T) {
		due := time.Now().Add(time.Hour)
		withDue := &model.Todo{ID: "t1", UserID: 7, Title: "old", DueAt: &due}
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "t1").Return(withDue, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(td *model.Todo) bool {
			return td.DueAt == nil
		})).Return(&model.Todo{ID: "t1", UserID: 7, Title: "old"}, nil)

		svc := NewTodoService(mRepo)
		got, err := svc.Update(ctx, 7, "t1", TodoUpdate{ClearDueAt: true})

		assert.NoError(t, err)
		assert.Nil(t, got.DueAt)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "missing").Return(nil, sql.ErrNoRows)

		svc := NewTodoService(mRepo)
		_, err := svc.Update(ctx, 7, "missing", TodoUpdate{})

		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func TestTodoService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("MarkDone", ctx, int64(7), "t1").Return(&model.Todo{ID: "t1", Done: true}, nil)

		svc := NewTodoService(mRepo)
		got, err := svc.Complete(ctx, 7, "t1")

		assert.NoError(t, err)
		assert.True(t, got.Done)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("MarkDone", ctx, int64(7), "missing").Return(nil, sql.ErrNoRows)

		svc := NewTodoService(mRepo)
		_, err := svc.Complete(ctx, 7, "missing")

		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func TestTodoService_Overdue(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockTodoRepository)
	mRepo.On("Overdue", ctx, int64(7), mock.AnythingOfType("time.Time")).
		Return([]model.Todo{{ID: "late"}}, nil)

	svc := NewTodoService(mRepo)
	items, err := svc.Overdue(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTodoService_List(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockTodoRepository)
	mRepo.On("List", ctx, int64(7), repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.Todo]{Items: []model.Todo{{ID: "t1"}}, Total: 1}, nil)

	svc := NewTodoService(mRepo)
	res, err := svc.List(ctx, 7, 0, -1)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	mRepo.AssertExpectations(t)
}

func TestTodoService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "t1").Return(&model.Todo{ID: "t1"}, nil)
		mRepo.On("Delete", ctx, int64(7), "t1").Return(nil)

		svc := NewTodoService(mRepo)
		assert.NoError(t, svc.Delete(ctx, 7, "t1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockTodoRepository)
		mRepo.On("FindByID", ctx, int64(7), "missing").Return(nil, sql.ErrNoRows)

		svc := NewTodoService(mRepo)
		assert.ErrorIs(t, svc.Delete(ctx, 7, "missing"), ErrTodoNotFound)
	})
}
