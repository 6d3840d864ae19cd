package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex         = "index"
	pageUsers         = "users"
	pageAddUser       = "add_user"
	pageUserMovies    = "user_movies"
	pageAddMovie      = "add_movie"
	pageMovieNotFound = "movie_not_found"
	pageUpdateMovie   = "update_movie"
	pageError         = "error"
)

var pageNames = []string{
	pageIndex, pageUsers, pageAddUser, pageUserMovies,
	pageAddMovie, pageMovieNotFound, pageUpdateMovie, pageError,
}

var templateFuncs = template.FuncMap{
	"rating": func(r float64) string { return strconv.FormatFloat(r, 'f', 1, 64) },
}

// parseTemplates builds one template set per page, each layered over base.html.
func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base template: %w", err)
		}

		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = page
	}
	return pages, nil
}

// render executes page into a buffer and writes it with status.
//
// Nothing is written to w when execution fails, so the caller's status is replaced by a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.logger.Error("unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("failed to render template", "page", page, "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Debug("failed to write response", "path", r.URL.Path, "error", err)
	}
}

type errorPage struct {
	Status     int
	StatusText string
	Message    string
}

// renderError serves the error page for status with message.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, pageError, errorPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}
