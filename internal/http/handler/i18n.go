package handler

import (
	"github.com/gofiber/fiber/v2"

	"coursedeck/internal/http/middleware"
	"coursedeck/internal/i18n"
)

// ListLocales returns a handler for GET /locales.
func ListLocales(bundle *i18n.Bundle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"default": i18n.BaseLocale,
			"locales": bundle.Locales(),
			"current": middleware.LocaleFromCtx(c),
		})
	}
}

// GetDictionary returns a handler for GET /locales/:locale serving the full
// key/value dictionary for one locale.
func GetDictionary(bundle *i18n.Bundle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale, ok := bundle.Canonical(c.Params("locale"))
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "locale not supported")
		}
		dict, _ := bundle.Dictionary(locale)
		return c.JSON(fiber.Map{"locale": locale, "messages": dict})
	}
}
