package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"coursedeck/internal/i18n"
)

const (
	// LocaleLocalKey is the key used to store the resolved locale in Fiber's context locals.
	LocaleLocalKey = "locale"
	// LocaleQueryParam selects a language explicitly, e.g. ?lang=de.
	LocaleQueryParam = "lang"
	// LocaleCookieName stores the user's language preference.
	LocaleCookieName = "lang"
)

// LocaleFromCtx returns the locale resolved by the Locale middleware.
// Falls back to the base locale if the middleware did not run.
func LocaleFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocaleLocalKey).(string); ok && v != "" {
		return v
	}
	return i18n.BaseLocale
}

// Locale resolves the request language in order: lang query param, lang
// cookie, Accept-Language header. An explicit query-param choice is persisted
// as a cookie so it sticks across requests.
func Locale(bundle *i18n.Bundle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := ""

		if raw := c.Query(LocaleQueryParam); raw != "" {
			if resolved, ok := bundle.Canonical(raw); ok {
				locale = resolved
				c.Cookie(&fiber.Cookie{
					Name:     LocaleCookieName,
					Value:    resolved,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
					HTTPOnly: true,
					SameSite: fiber.CookieSameSiteLaxMode,
				})
			}
		}

		if locale == "" {
			if raw := c.Cookies(LocaleCookieName); raw != "" {
				if resolved, ok := bundle.Canonical(raw); ok {
					locale = resolved
				}
			}
		}

		if locale == "" {
			locale = bundle.Match(c.Get(fiber.HeaderAcceptLanguage))
		}

		c.Locals(LocaleLocalKey, locale)
		return c.Next()
	}
}
