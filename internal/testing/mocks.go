package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
)

var (
	_ models.DataManager = (*MockDataManager)(nil)
	_ models.MovieLookup = (*MockLookup)(nil)
)

// MockDataManager is an in-memory test double for [models.DataManager].
//
// Err, when set, is returned by every operation and FailOn by the named ones.
// Calls records the operations invoked in order.
type MockDataManager struct {
	mu         sync.Mutex
	users      []models.User
	movies     []models.Movie
	nextUserID int64
	nextMovie  int64
	Err        error
	FailOn     map[string]error
	PingErr    error
	Calls      []string
}

// NewMockDataManager creates an empty [MockDataManager].
func NewMockDataManager() *MockDataManager {
	return &MockDataManager{nextUserID: 1, nextMovie: 1}
}

// SeedUser stores a user directly, bypassing Err.
func (m *MockDataManager) SeedUser(name string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: m.nextUserID, Name: name}
	m.nextUserID++
	m.users = append(m.users, u)
	return u
}

// SeedMovie stores a movie directly, bypassing Err and owner checks.
func (m *MockDataManager) SeedMovie(userID int64, f models.MovieFields) models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertMovie(userID, f.WithDefaults())
}

// CallCount returns how many times op was invoked.
func (m *MockDataManager) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// Movies returns a copy of every stored movie.
func (m *MockDataManager) Movies() []models.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Movie{}, m.movies...)
}

// Ping returns PingErr.
func (m *MockDataManager) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockDataManager) record(op string) error {
	m.Calls = append(m.Calls, op)
	if err, ok := m.FailOn[op]; ok {
		return err
	}
	return m.Err
}

func (m *MockDataManager) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListUsers"); err != nil {
		return nil, err
	}
	return append([]models.User{}, m.users...), nil
}

func (m *MockDataManager) GetUser(ctx context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetUser"); err != nil {
		return models.User{}, err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
}

func (m *MockDataManager) AddUser(ctx context.Context, name string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddUser"); err != nil {
		return models.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("%w: user name is required", shared.ErrInvalidInput)
	}
	u := models.User{ID: m.nextUserID, Name: name}
	m.nextUserID++
	m.users = append(m.users, u)
	return u, nil
}

func (m *MockDataManager) ListMoviesForUser(ctx context.Context, userID int64) ([]models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListMoviesForUser"); err != nil {
		return nil, err
	}
	movies := []models.Movie{}
	for _, mv := range m.movies {
		if mv.UserID == userID {
			movies = append(movies, mv)
		}
	}
	return movies, nil
}

func (m *MockDataManager) GetMovie(ctx context.Context, id int64) (models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetMovie"); err != nil {
		return models.Movie{}, err
	}
	if i := m.movieIndex(id); i >= 0 {
		return m.movies[i], nil
	}
	return models.Movie{}, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
}

func (m *MockDataManager) AddMovie(ctx context.Context, userID int64, f models.MovieFields) (models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AddMovie"); err != nil {
		return models.Movie{}, err
	}

	f = f.WithDefaults()
	if f.Name == "" {
		return models.Movie{}, fmt.Errorf("%w: movie name is required", shared.ErrInvalidInput)
	}
	if !m.hasUser(userID) {
		return models.Movie{}, fmt.Errorf("%w: %w: %d", shared.ErrStorage, shared.ErrUserNotFound, userID)
	}
	return m.insertMovie(userID, f), nil
}

func (m *MockDataManager) UpdateMovie(ctx context.Context, id int64, update models.MovieUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateMovie"); err != nil {
		return err
	}

	i := m.movieIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	next := update.Apply(m.movies[i])
	if strings.TrimSpace(next.Name) == "" {
		return fmt.Errorf("%w: movie name cannot be blank", shared.ErrInvalidInput)
	}
	m.movies[i] = next
	return nil
}

func (m *MockDataManager) DeleteMovie(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteMovie"); err != nil {
		return err
	}

	i := m.movieIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	m.movies = append(m.movies[:i], m.movies[i+1:]...)
	return nil
}

func (m *MockDataManager) insertMovie(userID int64, f models.MovieFields) models.Movie {
	mv := models.Movie{
		ID:       m.nextMovie,
		Name:     f.Name,
		Director: f.Director,
		Year:     f.Year,
		Rating:   f.Rating,
		Poster:   f.Poster,
		UserID:   userID,
	}
	m.nextMovie++
	m.movies = append(m.movies, mv)
	return mv
}

func (m *MockDataManager) movieIndex(id int64) int {
	for i, mv := range m.movies {
		if mv.ID == id {
			return i
		}
	}
	return -1
}

func (m *MockDataManager) hasUser(id int64) bool {
	for _, u := range m.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// MockLookup is a test double for [models.MovieLookup] backed by a title map.
//
// Titles are matched after [shared.NormalizeTitle].
type MockLookup struct {
	mu      sync.Mutex
	results map[string]models.MovieFields
	Titles  []string
}

// NewMockLookup creates a [MockLookup] that resolves the given titles.
func NewMockLookup(results map[string]models.MovieFields) *MockLookup {
	normalized := make(map[string]models.MovieFields, len(results))
	for title, f := range results {
		normalized[shared.NormalizeTitle(title)] = f
	}
	return &MockLookup{results: normalized}
}

func (m *MockLookup) LookupByTitle(ctx context.Context, title string) (models.MovieFields, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Titles = append(m.Titles, title)
	f, ok := m.results[shared.NormalizeTitle(title)]
	return f, ok
}

// Calls returns how many lookups were made.
func (m *MockLookup) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Titles)
}
