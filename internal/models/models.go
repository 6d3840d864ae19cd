// package models defines the data model for the movie tracking web app
package models

import (
	"context"
	"strings"
)

// DefaultDirector is stored when a movie is created without a director.
const DefaultDirector = "Unknown"

// User mirrors the users table.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie mirrors the movies table.
//
// Poster and UserID are fixed at creation.
type Movie struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Director string  `json:"director"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
	Poster   string  `json:"poster,omitempty"`
	UserID   int64   `json:"user_id"`
}

// Fields returns the metadata portion of the movie.
func (m Movie) Fields() MovieFields {
	return MovieFields{
		Name:     m.Name,
		Director: m.Director,
		Year:     m.Year,
		Rating:   m.Rating,
		Poster:   m.Poster,
	}
}

// MovieFields is the metadata needed to create a [Movie].
type MovieFields struct {
	Name     string  `json:"name"`
	Director string  `json:"director,omitempty"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
	Poster   string  `json:"poster,omitempty"`
}

// WithDefaults returns a copy with blank values trimmed and the director defaulted to [DefaultDirector].
func (f MovieFields) WithDefaults() MovieFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Director = strings.TrimSpace(f.Director)
	f.Poster = strings.TrimSpace(f.Poster)
	if f.Director == "" {
		f.Director = DefaultDirector
	}
	return f
}

// MovieUpdate overwrites the editable columns of a [Movie].
//
// A nil field keeps the currently stored value.
type MovieUpdate struct {
	Name     *string
	Director *string
	Year     *int
	Rating   *float64
}

// Apply returns m with the non-nil fields of u applied.
func (u MovieUpdate) Apply(m Movie) Movie {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Director != nil {
		m.Director = *u.Director
	}
	if u.Year != nil {
		m.Year = *u.Year
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	return m
}

// Empty reports whether the update changes nothing.
func (u MovieUpdate) Empty() bool {
	return u.Name == nil && u.Director == nil && u.Year == nil && u.Rating == nil
}

// DataManager defines the persistence gateway over users and movies.
//
// Mutations are atomic: they are either committed or rolled back before returning.
// Absent records are reported with shared.ErrUserNotFound and shared.ErrMovieNotFound.
type DataManager interface {
	// ListUsers returns all users ordered by id
	ListUsers(ctx context.Context) ([]User, error)
	// GetUser retrieves a user by id
	GetUser(ctx context.Context, id int64) (User, error)
	// AddUser inserts a new user
	AddUser(ctx context.Context, name string) (User, error)
	// ListMoviesForUser returns the user's movies, empty if none
	ListMoviesForUser(ctx context.Context, userID int64) ([]Movie, error)
	// GetMovie retrieves a movie by id
	GetMovie(ctx context.Context, id int64) (Movie, error)
	// AddMovie inserts a movie owned by userID
	AddMovie(ctx context.Context, userID int64, fields MovieFields) (Movie, error)
	// UpdateMovie overwrites name, director, year and rating
	UpdateMovie(ctx context.Context, id int64, update MovieUpdate) error
	// DeleteMovie removes a movie by id
	DeleteMovie(ctx context.Context, id int64) error
}

// MovieLookup resolves a title to metadata.
//
// The boolean is false when the title is unknown or the lookup failed; callers treat both alike.
type MovieLookup interface {
	LookupByTitle(ctx context.Context, title string) (MovieFields, bool)
}
