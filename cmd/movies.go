package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/desertthunder/moviweb/internal/formatter"
	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/desertthunder/moviweb/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MoviesList prints the movies saved by --user.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	data, err := r.store()
	if err != nil {
		return err
	}

	user, err := data.GetUser(ctx, cmd.Int64("user"))
	if err != nil {
		return err
	}

	movies, err := data.ListMoviesForUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.MovieExport{User: user, Movies: movies}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's Movies (%d)", user.Name, len(movies)))
	if len(movies) == 0 {
		r.writePlain("No movies yet.\n")
		return nil
	}
	for _, mv := range movies {
		r.writeMovieLine(mv)
	}
	return nil
}

// MoviesAdd looks up the title given as arguments and stores it for --user.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	title := titleArg(cmd)
	if title == "" {
		return fmt.Errorf("%w: movie title", shared.ErrMissingArgument)
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	user, err := data.GetUser(ctx, cmd.Int64("user"))
	if err != nil {
		return err
	}

	lookup, err := r.movieLookup(ctx)
	if err != nil {
		return err
	}

	fields, found := lookup.LookupByTitle(ctx, title)
	if !found {
		r.writePlain("Movie '%s' not found!\n", title)
		return fmt.Errorf("%w: %q", shared.ErrLookupNoMatch, title)
	}

	movie, err := data.AddMovie(ctx, user.ID, fields)
	if err != nil {
		return fmt.Errorf("failed to add movie: %w", err)
	}

	r.logger.Info("movie added", "id", movie.ID, "name", movie.Name, "user", user.ID)
	r.writePlain("✓ Added to %s's list:\n", user.Name)
	r.writeMovieLine(movie)
	return nil
}

// MoviesLookup prints the metadata found for a title without storing anything.
func (r *Runner) MoviesLookup(ctx context.Context, cmd *cli.Command) error {
	title := titleArg(cmd)
	if title == "" {
		return fmt.Errorf("%w: movie title", shared.ErrMissingArgument)
	}

	lookup, err := r.movieLookup(ctx)
	if err != nil {
		return err
	}

	fields, found := lookup.LookupByTitle(ctx, title)
	if !found {
		r.writePlain("Movie '%s' not found!\n", title)
		return fmt.Errorf("%w: %q", shared.ErrLookupNoMatch, title)
	}

	if cmd.Bool("json") {
		return r.writeJSON(fields, true)
	}

	r.writePlain("Name:     %s\n", fields.Name)
	r.writePlain("Director: %s\n", fields.Director)
	r.writePlain("Year:     %d\n", fields.Year)
	r.writePlain("Rating:   %.1f\n", fields.Rating)
	if fields.Poster != "" {
		r.writePlain("Poster:   %s\n", fields.Poster)
	}
	return nil
}

// MoviesUpdate overwrites the fields passed as flags; unset flags keep the stored values.
func (r *Runner) MoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	var update models.MovieUpdate
	if cmd.IsSet("name") {
		name := strings.TrimSpace(cmd.String("name"))
		update.Name = &name
	}
	if cmd.IsSet("director") {
		director := strings.TrimSpace(cmd.String("director"))
		update.Director = &director
	}
	if cmd.IsSet("year") {
		year := cmd.Int("year")
		update.Year = &year
	}
	if cmd.IsSet("rating") {
		rating := cmd.Float("rating")
		if math.IsNaN(rating) || math.IsInf(rating, 0) {
			return fmt.Errorf("%w: rating must be a finite number", shared.ErrInvalidArgument)
		}
		update.Rating = &rating
	}

	if update.Empty() {
		return fmt.Errorf("%w: one of --name, --director, --year or --rating", shared.ErrMissingArgument)
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := data.UpdateMovie(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update movie %d: %w", id, err)
	}

	movie, err := data.GetMovie(ctx, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated movie:\n")
	r.writeMovieLine(movie)
	return nil
}

// MoviesDelete removes the movie with --id.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	data, err := r.store()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	if err := data.DeleteMovie(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}

	r.logger.Info("movie deleted", "id", id)
	r.writePlain("✓ Deleted movie %d\n", id)
	return nil
}

// MoviesImport looks up every title in --file and stores the matches for --user.
func (r *Runner) MoviesImport(ctx context.Context, cmd *cli.Command) error {
	titles, err := readTitlesFile(cmd.String("file"))
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		r.writePlain("No titles to import.\n")
		return nil
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	lookup, err := r.movieLookup(ctx)
	if err != nil {
		return err
	}

	importer := tasks.NewImporter(data, lookup, r.logger)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ImportStart:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.LookupTitles:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := importer.BulkImport(ctx, progressCh, cmd.Int64("user"), titles, tasks.BulkImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Imported:  %d/%d\n", result.Imported, result.Total)
	r.writePlain("Not found: %d\n", result.NotFound)
	r.writePlain("Failed:    %d\n", result.Failed)

	if result.NotFound+result.Failed > 0 {
		r.writePlain("\nSkipped titles:\n")
		for _, res := range result.Results {
			switch {
			case res.Imported():
			case res.Error != nil:
				r.writePlain("  - %s (%v)\n", res.Title, res.Error)
			case !res.Found:
				r.writePlain("  - %s (not found)\n", res.Title)
			}
		}
	}

	return err
}

// MoviesExport writes the movies of --user in --format to --output or stdout.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := r.store()
	if err != nil {
		return err
	}

	user, err := data.GetUser(ctx, cmd.Int64("user"))
	if err != nil {
		return err
	}

	movies, err := data.ListMoviesForUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	export := &formatter.MovieExport{User: user, Movies: movies}

	output := cmd.String("output")
	if output == "" {
		return formatter.WriteExport(r.output, export, format)
	}

	path, err := formatter.WriteExportFile(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("export written", "path", path, "format", format, "movies", len(movies))
	r.writePlain("✓ Exported %d movies to %s\n", len(movies), path)
	return nil
}

func (r *Runner) writeMovieLine(mv models.Movie) {
	year := "----"
	if mv.Year > 0 {
		year = fmt.Sprintf("%d", mv.Year)
	}
	r.writePlain("%4d  %s (%s) by %s, rated %.1f\n", mv.ID, mv.Name, year, mv.Director, mv.Rating)
}

func titleArg(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

func readTitlesFile(path string) ([]string, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open titles file: %w", err)
		}
		defer f.Close()
		in = f
	}
	return tasks.ReadTitles(in)
}
