package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

const movieColumns = `id, name, COALESCE(director, ''), COALESCE(year, 0), COALESCE(rating, 0), COALESCE(poster, ''), user_id`

func scanMovie(s scanner) (models.Movie, error) {
	var mv models.Movie
	err := s.Scan(&mv.ID, &mv.Name, &mv.Director, &mv.Year, &mv.Rating, &mv.Poster, &mv.UserID)
	return mv, err
}

// ListMoviesForUser retrieves the movies owned by userID ordered by id.
//
// Returns an empty slice when the user has no movies or does not exist.
func (m *SQLiteDataManager) ListMoviesForUser(ctx context.Context, userID int64) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE user_id = ? ORDER BY id ASC`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, m.fail("list_movies", storageErr("query movies", err))
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		mv, err := scanMovie(rows)
		if err != nil {
			return nil, m.fail("list_movies", storageErr("scan movie", err))
		}
		movies = append(movies, mv)
	}

	if err := rows.Err(); err != nil {
		return nil, m.fail("list_movies", storageErr("iterate movies", err))
	}

	return movies, nil
}

// GetMovie retrieves a movie by id.
func (m *SQLiteDataManager) GetMovie(ctx context.Context, id int64) (models.Movie, error) {
	mv, err := getMovie(ctx, m.db, id)
	if err != nil {
		return models.Movie{}, m.fail("get_movie", err)
	}
	return mv, nil
}

// AddMovie inserts a movie owned by userID, defaulting the director to [models.DefaultDirector].
//
// A userID without a matching user violates the movies.user_id foreign key and nothing is stored.
func (m *SQLiteDataManager) AddMovie(ctx context.Context, userID int64, fields models.MovieFields) (models.Movie, error) {
	fields = fields.WithDefaults()
	if fields.Name == "" {
		return models.Movie{}, m.fail("add_movie", fmt.Errorf("%w: movie name is required", shared.ErrInvalidInput))
	}

	movie := models.Movie{
		Name:     fields.Name,
		Director: fields.Director,
		Year:     fields.Year,
		Rating:   fields.Rating,
		Poster:   fields.Poster,
		UserID:   userID,
	}

	err := m.withTx(ctx, "add_movie", func(tx *sql.Tx) error {
		query := `
			INSERT INTO movies (name, director, year, rating, poster, user_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		res, err := tx.ExecContext(ctx, query,
			movie.Name, movie.Director, movie.Year, movie.Rating, nullString(movie.Poster), movie.UserID)
		if err != nil {
			return storageErr("insert movie", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return storageErr("read movie id", err)
		}
		movie.ID = id
		return nil
	})
	if err != nil {
		return models.Movie{}, err
	}

	m.logger.Debug("movie added", "id", movie.ID, "user_id", userID)
	return movie, nil
}

// UpdateMovie overwrites the name, director, year and rating of a movie.
//
// Fields left nil in update keep their stored values. Poster and owner never change.
func (m *SQLiteDataManager) UpdateMovie(ctx context.Context, id int64, update models.MovieUpdate) error {
	return m.withTx(ctx, "update_movie", func(tx *sql.Tx) error {
		current, err := getMovie(ctx, tx, id)
		if err != nil {
			return err
		}

		next := update.Apply(current)
		next.Name = strings.TrimSpace(next.Name)
		if next.Name == "" {
			return fmt.Errorf("%w: movie name cannot be blank", shared.ErrInvalidInput)
		}

		query := `UPDATE movies SET name = ?, director = ?, year = ?, rating = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, next.Name, next.Director, next.Year, next.Rating, id); err != nil {
			return storageErr("update movie", err)
		}
		return nil
	})
}

// DeleteMovie removes a movie by id.
func (m *SQLiteDataManager) DeleteMovie(ctx context.Context, id int64) error {
	return m.withTx(ctx, "delete_movie", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
		if err != nil {
			return storageErr("delete movie", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return storageErr("get affected rows", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
		}
		return nil
	})
}

// queryRower is satisfied by [sql.DB] and [sql.Tx].
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getMovie(ctx context.Context, q queryRower, id int64) (models.Movie, error) {
	row := q.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)

	mv, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	if err != nil {
		return models.Movie{}, storageErr("query movie", err)
	}
	return mv, nil
}
