package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"coursedeck/internal/auth"
	"coursedeck/internal/service"
)

// createTodoRequest is the JSON body for POST /todos.
type createTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

// updateTodoRequest is the JSON body for PATCH /todos/:id.
// Omitted fields are left unchanged; clear_due_at removes the deadline.
type updateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Done        *bool      `json:"done"`
	DueAt       *time.Time `json:"due_at"`
	ClearDueAt  bool       `json:"clear_due_at"`
}

// ListTodos returns a handler for GET /todos with limit & offset.
func ListTodos(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), auth.UserIDFromCtx(c), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateTodo returns a handler for POST /todos.
func CreateTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTodoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		td, err := svc.Create(c.UserContext(), auth.UserIDFromCtx(c), req.Title, req.Description, req.DueAt)
		if err != nil {
			if errors.Is(err, service.ErrTitleRequired) {
				return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(td)
	}
}

// GetTodo returns a handler for GET /todos/:id.
func GetTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		td, err := svc.Get(c.UserContext(), auth.UserIDFromCtx(c), id)
		if err != nil {
			if errors.Is(err, service.ErrTodoNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "todo not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(td)
	}
}

// UpdateTodo returns a handler for PATCH /todos/:id.
func UpdateTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateTodoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		td, err := svc.Update(c.UserContext(), auth.UserIDFromCtx(c), id, service.TodoUpdate{
			Title:       req.Title,
			Description: req.Description,
			Done:        req.Done,
			DueAt:       req.DueAt,
			ClearDueAt:  req.ClearDueAt,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTodoNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "todo not found")
			case errors.Is(err, service.ErrTitleRequired):
				return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title must not be empty")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(td)
	}
}

// CompleteTodo returns a handler for POST /todos/:id/complete.
func CompleteTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		td, err := svc.Complete(c.UserContext(), auth.UserIDFromCtx(c), id)
		if err != nil {
			if errors.Is(err, service.ErrTodoNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "todo not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(td)
	}
}

// OverdueTodos returns a handler for GET /todos/overdue.
func OverdueTodos(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Overdue(c.UserContext(), auth.UserIDFromCtx(c))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// DeleteTodo returns a handler for DELETE /todos/:id.
func DeleteTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), auth.UserIDFromCtx(c), id); err != nil {
			if errors.Is(err, service.ErrTodoNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "todo not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
