package handlers

import (
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sport-analytics/internal/auth"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | Sport Analytics</title></head>
<body data-page="{{.Name}}"{{if .UserID}} data-user-id="{{.UserID}}"{{end}}>
<main id="root"></main>
</body>
</html>
`))

type pageData struct {
	Name   string
	Title  string
	UserID string
}

// PagesHandler renders the HTML shells the client application mounts into.
type PagesHandler struct{}

// NewPagesHandler returns a new handler instance.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Page renders a named shell. Protected shells carry the id of the user the guard verified.
func (h *PagesHandler) Page(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := pageData{Name: name, Title: title}
		if user, ok := auth.UserFromContext(c); ok {
			data.UserID = user.ID.String()
		}
		c.Type("html", "utf-8")
		return pageTemplate.Execute(c.Response().BodyWriter(), data)
	}
}
