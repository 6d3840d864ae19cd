package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/server"
	"github.com/desertthunder/moviweb/internal/shared"
)

// Pinger is implemented by gateways that can report storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the movie web pages.
type Handler struct {
	data      models.DataManager
	lookup    models.MovieLookup
	templates map[string]*template.Template
	logger    *log.Logger
}

// NewHandler creates a [Handler] over the given gateway and lookup.
func NewHandler(data models.DataManager, lookup models.MovieLookup, logger *log.Logger) (*Handler, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data manager", shared.ErrMissingArgument)
	}
	if lookup == nil {
		return nil, fmt.Errorf("%w: movie lookup", shared.ErrMissingArgument)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		data:      data,
		lookup:    lookup,
		templates: templates,
		logger:    shared.WithLogger(logger, "component", "web"),
	}, nil
}

// Register adds every route to router, including the 404 fallback.
func (h *Handler) Register(router server.Router) {
	router.HandleFunc(http.MethodGet, "/{$}", h.Home)
	router.HandleFunc(http.MethodGet, "/healthz", h.Health)

	router.HandleFunc(http.MethodGet, "/users", h.ListUsers)
	router.HandleFunc(http.MethodGet, "/add_user", h.AddUserForm)
	router.HandleFunc(http.MethodPost, "/add_user", h.AddUser)
	router.HandleFunc(http.MethodGet, "/users/{userId}", h.UserMovies)

	router.HandleFunc(http.MethodGet, "/users/{userId}/add_movie", h.AddMovieForm)
	router.HandleFunc(http.MethodPost, "/users/{userId}/add_movie", h.AddMovie)
	router.HandleFunc(http.MethodGet, "/users/{userId}/delete_movie/{movieId}", h.DeleteMovie)
	router.HandleFunc(http.MethodGet, "/users/{userId}/update_movie/{movieId}", h.UpdateMovieForm)
	router.HandleFunc(http.MethodPost, "/users/{userId}/update_movie/{movieId}", h.UpdateMovie)

	router.NotFound(http.HandlerFunc(h.NotFound))
}

// Router builds a [server.BasicRouter] with request id, access log and recovery middleware and
// every route registered.
func (h *Handler) Router() *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.RequestID, server.AccessLog(h.logger), server.Recover(h.logger))
	h.Register(router)
	return router
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageIndex, nil)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "The page you asked for does not exist.")
}

// Health pings storage when the gateway supports it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, map[string]string{"status": "ok"}

	if p, ok := h.data.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed", "error", err)
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}
	}

	data, err := shared.MarshalJSON(body, false)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

type usersPage struct {
	Users []models.User
}

// ListUsers renders every user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.data.ListUsers(r.Context())
	if err != nil {
		h.storageFailure(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageUsers, usersPage{Users: users})
}

type addUserPage struct {
	Name  string
	Error string
}

// AddUserForm renders the add-user form.
func (h *Handler) AddUserForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageAddUser, addUserPage{})
}

// AddUser creates a user from the name form field.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.render(w, r, http.StatusBadRequest, pageAddUser, addUserPage{Error: "Name is required."})
		return
	}

	if _, err := h.data.AddUser(r.Context(), name); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			h.render(w, r, http.StatusBadRequest, pageAddUser, addUserPage{Name: name, Error: "Name is invalid."})
			return
		}
		h.storageFailure(w, r, err)
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

type userMoviesPage struct {
	User   models.User
	Movies []models.Movie
}

// UserMovies renders the movies owned by the user in the path.
func (h *Handler) UserMovies(w http.ResponseWriter, r *http.Request) {
	user, ok := h.pathUser(w, r)
	if !ok {
		return
	}

	movies, err := h.data.ListMoviesForUser(r.Context(), user.ID)
	if err != nil {
		h.storageFailure(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageUserMovies, userMoviesPage{User: user, Movies: movies})
}

type addMoviePage struct {
	User  models.User
	Title string
}

// AddMovieForm renders the add-movie form.
func (h *Handler) AddMovieForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.pathUser(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pageAddMovie, addMoviePage{User: user})
}

// AddMovie looks up the movie_name field and stores the result for the user.
//
// A title the lookup cannot resolve renders the not-found page and stores nothing.
func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	user, ok := h.pathUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	title := strings.TrimSpace(r.PostFormValue("movie_name"))
	fields, found := h.lookup.LookupByTitle(r.Context(), title)
	if !found {
		h.render(w, r, http.StatusOK, pageMovieNotFound, addMoviePage{User: user, Title: title})
		return
	}

	if _, err := h.data.AddMovie(r.Context(), user.ID, fields); err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			h.renderError(w, r, http.StatusNotFound, "User not found.")
			return
		}
		h.storageFailure(w, r, err)
		return
	}

	http.Redirect(w, r, userPath(user.ID), http.StatusSeeOther)
}

// DeleteMovie removes the movie when it belongs to the user, then redirects to the user's list.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := pathIDs(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	movie, err := h.data.GetMovie(r.Context(), movieID)
	switch {
	case err != nil:
		h.logger.Warn("delete skipped", "movie_id", movieID, "error", err)
	case movie.UserID != userID:
		h.logger.Warn("delete skipped: movie belongs to another user", "movie_id", movieID, "user_id", userID)
	default:
		if err := h.data.DeleteMovie(r.Context(), movieID); err != nil {
			h.logger.Error("delete failed", "movie_id", movieID, "error", err)
		}
	}

	http.Redirect(w, r, userPath(userID), http.StatusSeeOther)
}

type updateMoviePage struct {
	UserID int64
	Movie  models.Movie
}

// UpdateMovieForm renders the update form prefilled with the stored movie.
func (h *Handler) UpdateMovieForm(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := pathIDs(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	movie, ok := h.ownedMovie(w, r, userID, movieID)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pageUpdateMovie, updateMoviePage{UserID: userID, Movie: movie})
}

// UpdateMovie validates the form and overwrites the movie's editable fields.
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := pathIDs(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	update, err := parseMovieUpdate(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.ownedMovie(w, r, userID, movieID); !ok {
		return
	}

	if err := h.data.UpdateMovie(r.Context(), movieID, update); err != nil {
		switch {
		case errors.Is(err, shared.ErrMovieNotFound):
			h.renderError(w, r, http.StatusNotFound, "Movie not found.")
		case errors.Is(err, shared.ErrInvalidInput):
			h.renderError(w, r, http.StatusBadRequest, "Movie name cannot be blank.")
		default:
			h.storageFailure(w, r, err)
		}
		return
	}

	http.Redirect(w, r, userPath(userID), http.StatusSeeOther)
}

// parseMovieUpdate reads the update form. Blank fields keep their stored values.
func parseMovieUpdate(r *http.Request) (models.MovieUpdate, error) {
	var update models.MovieUpdate

	if name := strings.TrimSpace(r.PostFormValue("name")); name != "" {
		update.Name = &name
	}
	if director := strings.TrimSpace(r.PostFormValue("director")); director != "" {
		update.Director = &director
	}

	if raw := strings.TrimSpace(r.PostFormValue("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return models.MovieUpdate{}, fmt.Errorf("year %q is not a whole number", raw)
		}
		update.Year = &year
	}

	if raw := strings.TrimSpace(r.PostFormValue("rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return models.MovieUpdate{}, fmt.Errorf("rating %q is not a number", raw)
		}
		update.Rating = &rating
	}

	return update, nil
}

// pathUser loads the user named by the userId path value, writing a 404 or 500 when it cannot.
func (h *Handler) pathUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	userID, ok := parseID(r.PathValue("userId"))
	if !ok {
		h.NotFound(w, r)
		return models.User{}, false
	}

	user, err := h.data.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			h.renderError(w, r, http.StatusNotFound, "User not found.")
		} else {
			h.storageFailure(w, r, err)
		}
		return models.User{}, false
	}
	return user, true
}

// ownedMovie loads movieID and checks it belongs to userID, writing a 404 or 500 when it cannot.
func (h *Handler) ownedMovie(w http.ResponseWriter, r *http.Request, userID, movieID int64) (models.Movie, bool) {
	movie, err := h.data.GetMovie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, shared.ErrMovieNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Movie not found.")
		} else {
			h.storageFailure(w, r, err)
		}
		return models.Movie{}, false
	}

	if movie.UserID != userID {
		h.renderError(w, r, http.StatusNotFound, "Movie not found.")
		return models.Movie{}, false
	}
	return movie, true
}

func (h *Handler) storageFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "request_id", server.RequestIDFrom(r.Context()), "error", err)
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func pathIDs(r *http.Request) (userID, movieID int64, ok bool) {
	if userID, ok = parseID(r.PathValue("userId")); !ok {
		return 0, 0, false
	}
	if movieID, ok = parseID(r.PathValue("movieId")); !ok {
		return 0, 0, false
	}
	return userID, movieID, true
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}
