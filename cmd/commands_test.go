package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moviweb/internal/formatter"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
	tu "github.com/desertthunder/moviweb/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matrix = models.MovieFields{
	Name:     "The Matrix",
	Director: "Lana Wachowski, Lilly Wachowski",
	Year:     1999,
	Rating:   8.7,
	Poster:   "https://example.com/matrix.jpg",
}

var heat = models.MovieFields{Name: "Heat", Director: "Michael Mann", Year: 1995, Rating: 8.3}

// newTestRunner builds a runner that writes to a buffer and reads a config path that does not exist.
func newTestRunner(t *testing.T, data models.DataManager, lookup models.MovieLookup) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Data:       data,
		Lookup:     lookup,
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
	})
	t.Cleanup(func() { runner.Close() })
	return runner, output
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := runner.app()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app.Run(t.Context(), append([]string{"moviweb"}, args...))
}

func TestUsersCommands(t *testing.T) {
	t.Run("list with no users", func(t *testing.T) {
		runner, output := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "users", "list"))
		assert.Contains(t, output.String(), "No users yet")
	})

	t.Run("list prints every user", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		data.SeedUser("Grace")
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "users", "list"))

		out := output.String()
		assert.Contains(t, out, "Users (2)")
		assert.Contains(t, out, "Ada")
		assert.Contains(t, out, "Grace")
	})

	t.Run("list as JSON", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "users", "list", "--json"))

		var users []models.User
		require.NoError(t, json.Unmarshal(output.Bytes(), &users))
		assert.Equal(t, []models.User{{ID: 1, Name: "Ada"}}, users)
	})

	t.Run("list surfaces storage errors", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.Err = shared.ErrStorage
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "users", "list"), shared.ErrStorage)
	})

	t.Run("add joins the arguments into one name", func(t *testing.T) {
		data := tu.NewMockDataManager()
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "users", "add", "Ada", "Lovelace"))

		user, err := data.GetUser(t.Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.Name)
		assert.Contains(t, output.String(), "Added user 1: Ada Lovelace")
	})

	t.Run("add without a name", func(t *testing.T) {
		data := tu.NewMockDataManager()
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "users", "add"), shared.ErrMissingArgument)
		assert.Zero(t, data.CallCount("AddUser"))
	})
}

func TestMoviesCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		data.SeedMovie(ada.ID, matrix)
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "list", "--user", "1"))

		out := output.String()
		assert.Contains(t, out, "Ada's Movies (1)")
		assert.Contains(t, out, "The Matrix (1999)")
		assert.Contains(t, out, "rated 8.7")
	})

	t.Run("list for an unknown user", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "movies", "list", "--user", "42"), shared.ErrUserNotFound)
	})

	t.Run("list requires --user", func(t *testing.T) {
		data := tu.NewMockDataManager()
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		assert.Error(t, runApp(t, runner, "movies", "list"))
		assert.Empty(t, data.Calls)
	})

	t.Run("add stores the looked up movie", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"the matrix": matrix})
		runner, output := newTestRunner(t, data, lookup)

		require.NoError(t, runApp(t, runner, "movies", "add", "-u", "1", "The", "Matrix"))

		movies := data.Movies()
		require.Len(t, movies, 1)
		assert.Equal(t, matrix, movies[0].Fields())
		assert.Equal(t, int64(1), movies[0].UserID)
		assert.Equal(t, []string{"The Matrix"}, lookup.Titles)
		assert.Contains(t, output.String(), "Added to Ada's list")
	})

	t.Run("add with an unknown title stores nothing", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		err := runApp(t, runner, "movies", "add", "--user", "1", "Nope")

		assert.ErrorIs(t, err, shared.ErrLookupNoMatch)
		assert.Contains(t, output.String(), "Movie 'Nope' not found!")
		assert.Zero(t, data.CallCount("AddMovie"))
	})

	t.Run("add for an unknown user skips the lookup", func(t *testing.T) {
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"the matrix": matrix})
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), lookup)

		err := runApp(t, runner, "movies", "add", "--user", "7", "The Matrix")

		assert.ErrorIs(t, err, shared.ErrUserNotFound)
		assert.Zero(t, lookup.Calls())
	})

	t.Run("add without a title", func(t *testing.T) {
		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "movies", "add", "--user", "1"), shared.ErrMissingArgument)
	})

	t.Run("lookup prints fields", func(t *testing.T) {
		data := tu.NewMockDataManager()
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"heat": heat})
		runner, output := newTestRunner(t, data, lookup)

		require.NoError(t, runApp(t, runner, "movies", "lookup", "heat"))

		out := output.String()
		assert.Contains(t, out, "Name:     Heat")
		assert.Contains(t, out, "Director: Michael Mann")
		assert.Contains(t, out, "Year:     1995")
		assert.NotContains(t, out, "Poster:")
		assert.Empty(t, data.Calls)
	})

	t.Run("lookup as JSON", func(t *testing.T) {
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"heat": heat})
		runner, output := newTestRunner(t, tu.NewMockDataManager(), lookup)

		require.NoError(t, runApp(t, runner, "movies", "lookup", "--json", "Heat"))

		var got models.MovieFields
		require.NoError(t, json.Unmarshal(output.Bytes(), &got))
		assert.Equal(t, heat, got)
	})

	t.Run("update changes only the given fields", func(t *testing.T) {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		mv := data.SeedMovie(ada.ID, matrix)
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "update", "--id", "1", "--year", "2000", "--rating", "9.1"))

		got, err := data.GetMovie(t.Context(), mv.ID)
		require.NoError(t, err)
		assert.Equal(t, "The Matrix", got.Name)
		assert.Equal(t, matrix.Director, got.Director)
		assert.Equal(t, 2000, got.Year)
		assert.InDelta(t, 9.1, got.Rating, 0.0001)
		assert.Equal(t, matrix.Poster, got.Poster)
		assert.Contains(t, output.String(), "Updated movie")
	})

	t.Run("update without fields", func(t *testing.T) {
		data := tu.NewMockDataManager()
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "movies", "update", "--id", "1"), shared.ErrMissingArgument)
		assert.Zero(t, data.CallCount("UpdateMovie"))
	})

	t.Run("update with a blank name", func(t *testing.T) {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		data.SeedMovie(ada.ID, matrix)
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		err := runApp(t, runner, "movies", "update", "--id", "1", "--name", "  ")

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, "The Matrix", data.Movies()[0].Name)
	})

	t.Run("update with a non-finite rating", func(t *testing.T) {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		data.SeedMovie(ada.ID, matrix)
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))

		for _, rating := range []string{"NaN", "Inf", "-Inf"} {
			err := runApp(t, runner, "movies", "update", "--id", "1", "--rating="+rating)

			assert.ErrorIs(t, err, shared.ErrInvalidArgument, rating)
		}
		assert.Zero(t, data.CallCount("UpdateMovie"))
		assert.Equal(t, matrix.Rating, data.Movies()[0].Rating)
	})

	t.Run("update an unknown movie", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		err := runApp(t, runner, "movies", "update", "--id", "9", "--director", "Someone")

		assert.ErrorIs(t, err, shared.ErrMovieNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		data.SeedMovie(ada.ID, matrix)
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "delete", "--id", "1"))

		assert.Empty(t, data.Movies())
		assert.Contains(t, output.String(), "Deleted movie 1")
	})

	t.Run("delete an unknown movie", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		assert.ErrorIs(t, runApp(t, runner, "movies", "delete", "--id", "3"), shared.ErrMovieNotFound)
	})
}

func TestMoviesImport(t *testing.T) {
	t.Run("imports found titles and lists the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "titles.txt")
		tu.MustWriteFile(t, path, "# weekend\nThe Matrix\n\nHeat\nNot A Real Film\n")

		data := tu.NewMockDataManager()
		data.SeedUser("Ada")
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"the matrix": matrix, "heat": heat})
		runner, output := newTestRunner(t, data, lookup)

		require.NoError(t, runApp(t, runner, "movies", "import", "--user", "1", "--file", path, "--rate", "100"))

		assert.Len(t, data.Movies(), 2)
		assert.Equal(t, 3, lookup.Calls())

		out := output.String()
		assert.Contains(t, out, "Import Complete!")
		assert.Contains(t, out, "Imported:  2/3")
		assert.Contains(t, out, "Not found: 1")
		assert.Contains(t, out, "Not A Real Film (not found)")
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "titles.txt")
		tu.MustWriteFile(t, path, "\n# nothing yet\n")
		data := tu.NewMockDataManager()
		runner, output := newTestRunner(t, data, tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "import", "--user", "1", "--file", path))

		assert.Contains(t, output.String(), "No titles to import")
		assert.Empty(t, data.Calls)
	})

	t.Run("missing file", func(t *testing.T) {
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		err := runApp(t, runner, "movies", "import", "--user", "1", "--file", filepath.Join(t.TempDir(), "nope.txt"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open titles file")
	})

	t.Run("unknown user", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "titles.txt")
		tu.MustWriteFile(t, path, "Heat\n")
		lookup := tu.NewMockLookup(map[string]models.MovieFields{"heat": heat})
		runner, _ := newTestRunner(t, tu.NewMockDataManager(), lookup)

		err := runApp(t, runner, "movies", "import", "--user", "5", "--file", path)

		assert.ErrorIs(t, err, shared.ErrUserNotFound)
		assert.Zero(t, lookup.Calls())
	})
}

func TestMoviesExport(t *testing.T) {
	seeded := func() *tu.MockDataManager {
		data := tu.NewMockDataManager()
		ada := data.SeedUser("Ada")
		data.SeedMovie(ada.ID, matrix)
		data.SeedMovie(ada.ID, heat)
		return data
	}

	t.Run("csv to stdout", func(t *testing.T) {
		runner, output := newTestRunner(t, seeded(), tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "export", "--user", "1"))

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "ID,Name,Director,Year,Rating,Poster", lines[0])
		assert.True(t, strings.HasPrefix(lines[2], "2,Heat,Michael Mann,1995,"))
	})

	t.Run("markdown to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ada.md")
		runner, output := newTestRunner(t, seeded(), tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "export", "--user", "1", "--format", "md", "-o", path))

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		assert.Contains(t, content, "| The Matrix |")
		assert.Contains(t, output.String(), "Exported 2 movies to "+path)
	})

	t.Run("json matches the export shape", func(t *testing.T) {
		runner, output := newTestRunner(t, seeded(), tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "movies", "export", "--user", "1", "--format", "json"))

		var export formatter.MovieExport
		require.NoError(t, json.Unmarshal(output.Bytes(), &export))
		assert.Equal(t, "Ada", export.User.Name)
		assert.Len(t, export.Movies, 2)
	})

	t.Run("unknown format", func(t *testing.T) {
		data := seeded()
		runner, _ := newTestRunner(t, data, tu.NewMockLookup(nil))
		calls := len(data.Calls)

		err := runApp(t, runner, "movies", "export", "--user", "1", "--format", "pdf")

		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		assert.Len(t, data.Calls, calls)
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes the template once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, output := newTestRunner(t, tu.NewMockDataManager(), tu.NewMockLookup(nil))

		require.NoError(t, runApp(t, runner, "-c", path, "setup", "config"))
		tu.AssertFileExists(t, path)
		assert.Contains(t, output.String(), "Config file created")

		loaded, err := shared.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, shared.DefaultConfig(), loaded)

		output.Reset()
		require.NoError(t, runApp(t, runner, "-c", path, "setup", "config"))
		assert.Contains(t, output.String(), "already exists")
	})

	t.Run("database creates the schema", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "movies.db")
		cfgPath := filepath.Join(dir, "config.toml")
		tu.MustWriteFile(t, cfgPath, "[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")
		runner, output := newTestRunner(t, nil, nil)

		require.NoError(t, runApp(t, runner, "-c", cfgPath, "setup", "database"))

		tu.AssertFileExists(t, dbPath)
		assert.Contains(t, output.String(), "Database ready: "+filepath.ToSlash(dbPath))
	})

	t.Run("rollback reverts the latest migration", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "movies.db")
		cfgPath := filepath.Join(dir, "config.toml")
		tu.MustWriteFile(t, cfgPath, "[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")
		runner, output := newTestRunner(t, nil, nil)

		require.NoError(t, runApp(t, runner, "-c", cfgPath, "setup", "database"))
		require.NoError(t, runApp(t, runner, "-c", cfgPath, "setup", "rollback"))
		assert.Contains(t, output.String(), "Rolled back latest migration")

		db, err := shared.NewDatabase(dbPath)
		require.NoError(t, err)
		defer db.Close()
		versions, err := shared.AppliedVersions(db)
		require.NoError(t, err)
		assert.Empty(t, versions)

		err = runApp(t, runner, "-c", cfgPath, "setup", "rollback")
		assert.ErrorContains(t, err, "no migrations to rollback")
	})
}

func TestServeCommand(t *testing.T) {
	t.Run("requires an OMDb key", func(t *testing.T) {
		t.Setenv(shared.OMDbAPIKeyEnv, "")
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "config.toml")
		tu.MustWriteFile(t, cfgPath, "[database]\npath = \""+filepath.ToSlash(filepath.Join(dir, "movies.db"))+"\"\n")
		runner, _ := newTestRunner(t, nil, nil)

		err := runApp(t, runner, "-c", cfgPath, "serve", "--port", "0")

		assert.ErrorIs(t, err, shared.ErrMissingCredentials)
	})
}

// TestSQLiteWorkflow drives the commands against a real database.
func TestSQLiteWorkflow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	tu.MustWriteFile(t, cfgPath, "[database]\npath = \""+filepath.ToSlash(filepath.Join(dir, "movies.db"))+"\"\n")

	lookup := tu.NewMockLookup(map[string]models.MovieFields{"heat": heat})
	runner, output := newTestRunner(t, nil, lookup)

	require.NoError(t, runApp(t, runner, "-c", cfgPath, "users", "add", "Ada"))
	require.NoError(t, runApp(t, runner, "-c", cfgPath, "movies", "add", "--user", "1", "Heat"))
	require.NoError(t, runApp(t, runner, "-c", cfgPath, "movies", "update", "--id", "1", "--rating", "9"))

	output.Reset()
	require.NoError(t, runApp(t, runner, "-c", cfgPath, "movies", "list", "--user", "1", "--json"))

	var export formatter.MovieExport
	require.NoError(t, json.Unmarshal(output.Bytes(), &export))
	require.Len(t, export.Movies, 1)
	assert.Equal(t, "Heat", export.Movies[0].Name)
	assert.Equal(t, "Michael Mann", export.Movies[0].Director)
	assert.InDelta(t, 9.0, export.Movies[0].Rating, 0.0001)

	require.NoError(t, runApp(t, runner, "-c", cfgPath, "movies", "delete", "--id", "1"))
	assert.ErrorIs(t, runApp(t, runner, "-c", cfgPath, "movies", "delete", "--id", "1"), shared.ErrMovieNotFound)
}
