package collections

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/shared"
	"golang.org/x/time/rate"
)

// UploadOpts configures [Library.UploadAll].
type UploadOpts struct {
	Workers   int     // concurrent uploads (default 2, max 5)
	RateLimit float64 // uploads started per second (default 2)
}

// UploadResult is the outcome for one song.
type UploadResult struct {
	ID    string
	Title string
	Err   error
}

// UploadReport summarizes [Library.UploadAll].
type UploadReport struct {
	Total     int
	Succeeded int
	Failed    []UploadResult
}

type uploadJob struct {
	song *models.Song
}

// UploadAll uploads every local song with a worker pool and re-fetches the remote library once at the end.
// Individual failures are collected in the report; the returned error is only for failures that stop the
// whole run.
func (l *Library) UploadAll(ctx context.Context, opts UploadOpts) (*UploadReport, error) {
	credential := l.session.Credential()
	if credential == "" {
		return nil, shared.Unauthenticated()
	}

	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Workers > 5 {
		opts.Workers = 5
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2
	}

	songs := l.Snapshot().Local
	report := &UploadReport{Total: len(songs)}
	if len(songs) == 0 {
		return report, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan uploadJob, len(songs))
	results := make(chan UploadResult, len(songs))

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go l.uploadWorker(ctx, &wg, credential, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, song := range songs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- uploadJob{song: song}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Err != nil {
			report.Failed = append(report.Failed, res)
		} else {
			report.Succeeded++
		}
		l.emit(Event{Op: OpUpload, ID: res.ID, Step: completed, Total: len(songs), Message: res.Title, Err: res.Err})
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("upload interrupted after %d of %d: %w", completed, len(songs), err)
	}

	if report.Succeeded > 0 {
		if err := l.fetchRemote(ctx, credential); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (l *Library) uploadWorker(ctx context.Context, wg *sync.WaitGroup, credential string, jobs <-chan uploadJob, results chan<- UploadResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := l.remote.Create(ctx, credential, job.song)
		if err != nil {
			l.logger.Warn("upload failed", "id", job.song.ID, "error", err)
		}
		results <- UploadResult{ID: job.song.ID, Title: job.song.DisplayLabel(), Err: err}
	}
}
