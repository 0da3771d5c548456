package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"coursedeck/internal/auth"
	"coursedeck/internal/i18n"
	"coursedeck/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the service layer.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	products service.ProductService,
	todos service.TodoService,
	users service.UserService,
	sessions auth.SessionStore,
	bundle *i18n.Bundle,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Backward-compatible simple liveness probe
	app.Get("/healthz", LivenessProbe())

	// Locale discovery and dictionaries
	app.Get("/locales", ListLocales(bundle))
	app.Get("/locales/:locale", GetDictionary(bundle))

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", Signup(users, sessions))
	authGroup.Post("/login", Login(users, sessions))
	authGroup.Post("/logout", Logout(sessions))

	productGroup := api.Group("/products")
	productGroup.Get("/", ListProducts(products))
	productGroup.Post("/", CreateProduct(products))
	productGroup.Get("/:id", GetProduct(products))
	productGroup.Delete("/:id", DeleteProduct(products))

	// Todos require a valid session; ownership is enforced per user.
	todoGroup := api.Group("/todos", auth.RequireSession(sessions))
	todoGroup.Get("/", ListTodos(todos))
	todoGroup.Post("/", CreateTodo(todos))
	todoGroup.Get("/overdue", OverdueTodos(todos))
	todoGroup.Get("/:id", GetTodo(todos))
	todoGroup.Patch("/:id", UpdateTodo(todos))
	todoGroup.Post("/:id/complete", CompleteTodo(todos))
	todoGroup.Delete("/:id", DeleteTodo(todos))
}
