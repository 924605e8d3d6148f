package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sport-analytics/internal/auth"
	"github.com/spec-kit/sport-analytics/internal/domain"
)

func TestPagesHandler_Page(t *testing.T) {
	verifier := auth.VerifierFunc(func(_ context.Context, token string) (*domain.VerifiedUser, error) {
		if token == "abc123" {
			return &domain.VerifiedUser{ID: "42"}, nil
		}
		return nil, errors.New("rejected")
	})
	guard := auth.NewGuard(auth.GuardConfig{
		Routes:        auth.MustRouteTable([]string{"/sign-in"}, []string{"/dashboard"}, ""),
		SessionCookie: "sport_analytics",
		UserIDCookie:  "x-user-id",
		SignInPath:    "/sign-in",
		DashboardPath: "/dashboard",
	}, verifier, nil, nil)

	pages := NewPagesHandler()
	app := fiber.New()
	app.Use(guard.Handler())
	app.Get("/", pages.Page("home", "Home <&>"))
	app.Get("/dashboard", pages.Page("dashboard", "Dashboard"))

	t.Run("public page", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, string(b), `data-page="home"`)
		assert.Contains(t, string(b), "Home &lt;&amp;&gt; | Sport Analytics")
		assert.NotContains(t, string(b), "data-user-id")
	})

	t.Run("protected page carries user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "sport_analytics", Value: "abc123"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(b), `data-user-id="42"`)
	})
}
