package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sport-analytics/internal/domain"
	apperrors "github.com/spec-kit/sport-analytics/pkg/util"
)

const userKey = "auth_verified_user"

// Handler applies the guard's decision to every request it sees.
func (g *Guard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision, err := g.Evaluate(c.UserContext(), Request{
			Path:    c.Path(),
			Cookies: requestCookies(c),
		})
		if err != nil {
			if errors.Is(err, ErrRequestAborted) {
				return apperrors.NewRequestCancelled(err)
			}
			return apperrors.NewInternalError(err)
		}

		for _, name := range decision.DeleteCookies {
			c.Cookie(&fiber.Cookie{
				Name:     name,
				Value:    "",
				Path:     "/",
				Expires:  time.Unix(0, 0).UTC(),
				Secure:   g.cfg.SecureCookies,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		for _, ck := range decision.SetCookies {
			c.Cookie(&fiber.Cookie{
				Name:     ck.Name,
				Value:    ck.Value,
				Path:     "/",
				Secure:   g.cfg.SecureCookies,
				HTTPOnly: ck.HTTPOnly,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		switch decision.Action {
		case ActionRedirect:
			return c.Redirect(decision.Location, fiber.StatusTemporaryRedirect)
		case ActionPassThroughWithCookies:
			c.Locals(userKey, decision.Verification.User)
		}
		return c.Next()
	}
}

// UserFromContext returns the user verified by the guard for this request, if any.
func UserFromContext(c *fiber.Ctx) (*domain.VerifiedUser, bool) {
	user, ok := c.Locals(userKey).(*domain.VerifiedUser)
	return user, ok && user != nil
}

func requestCookies(c *fiber.Ctx) map[string]string {
	cookies := make(map[string]string)
	c.Request().Header.VisitAllCookie(func(key, value []byte) {
		cookies[string(key)] = string(value)
	})
	return cookies
}
