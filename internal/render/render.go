// Package render produces the HTML list of captured messages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mailgun-mock/internal/model"
)

// ListTemplate is the template name handlers pass to echo.Context.Render.
const ListTemplate = "list.html"

// timeLayout mirrors the en-US toLocaleString format.
const timeLayout = "1/2/2006, 3:04:05 PM"

//go:embed templates/*.html
var templateFS embed.FS

// ListData is what the list template renders.
type ListData struct {
	Messages []model.Message
}

// Renderer renders the list page. Receive times are shown in its location.
type Renderer struct {
	templates *template.Template
}

func NewRenderer(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}

	funcs := template.FuncMap{
		"localTime": func(t time.Time) string {
			return t.In(loc).Format(timeLayout)
		},
		"join": strings.Join,
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// RenderList writes the complete document for messages, in the given order.
func (r *Renderer) RenderList(w io.Writer, messages []model.Message) error {
	// render to a buffer so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, ListTemplate, ListData{Messages: messages}); err != nil {
		return fmt.Errorf("failed to render message list: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if name == ListTemplate {
		if list, ok := data.(ListData); ok {
			return r.RenderList(w, list.Messages)
		}
	}
	return r.templates.ExecuteTemplate(w, name, data)
}
