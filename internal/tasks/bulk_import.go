package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/moviweb/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultNumWorkers = 3
	maxNumWorkers     = 10
	defaultRateLimit  = 5.0
)

// BulkImportOpts contains configuration for bulk imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 3, max: 10)
	RateLimit  float64 // Lookups per second (default: 5)
}

type importJob struct {
	index int
	title string
}

// BulkImport looks up titles concurrently with rate limiting and stores every match for userID.
//
// The user must exist. When ctx is cancelled the titles processed so far are returned along with
// the context error.
func (i *Importer) BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	userID int64,
	titles []string,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if i.data == nil || i.lookup == nil {
		return nil, fmt.Errorf("%w: importer not initialized", shared.ErrServiceUnavailable)
	}

	user, err := i.data.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultNumWorkers
	}
	if opts.NumWorkers > maxNumWorkers {
		opts.NumWorkers = maxNumWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	result := &BulkImportResult{
		UserID:  userID,
		Total:   len(titles),
		Results: make([]TitleResult, len(titles)),
	}
	for idx, title := range titles {
		result.Results[idx] = TitleResult{Title: title}
	}

	i.sendProgress(prog, importStartUpdate(len(titles), user))
	i.logger.Info("bulk import started", "user_id", userID, "titles", len(titles), "workers", opts.NumWorkers)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob)
	type indexed struct {
		index int
		res   TitleResult
	}
	results := make(chan indexed, len(titles))

	var wg sync.WaitGroup
	for w := 0; w < opts.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- indexed{index: job.index, res: i.importTitle(ctx, userID, job.title)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for idx, title := range titles {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- importJob{index: idx, title: title}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for r := range results {
		completed++
		result.Results[r.index] = r.res

		switch {
		case r.res.Imported():
			result.Imported++
			i.sendProgress(prog, titleImportedUpdate(completed, len(titles), r.res.Movie))
		case !r.res.Found:
			result.NotFound++
			i.sendProgress(prog, titleNotFoundUpdate(completed, len(titles), r.res.Title))
		default:
			result.Failed++
			i.sendProgress(prog, titleFailedUpdate(completed, len(titles), r.res.Title, r.res.Error))
		}
	}

	i.sendProgress(prog, importDoneUpdate(result))
	i.logger.Info("bulk import finished",
		"user_id", userID, "imported", result.Imported, "not_found", result.NotFound, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted after %d of %d titles: %w", completed, len(titles), err)
	}
	return result, nil
}

// importTitle resolves and stores one title.
func (i *Importer) importTitle(ctx context.Context, userID int64, title string) TitleResult {
	res := TitleResult{Title: title}

	fields, ok := i.lookup.LookupByTitle(ctx, title)
	if !ok {
		return res
	}
	res.Found = true

	movie, err := i.data.AddMovie(ctx, userID, fields)
	if err != nil {
		res.Error = err
		return res
	}
	res.Movie = &movie
	return res
}
