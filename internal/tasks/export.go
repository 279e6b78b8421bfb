package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/formatter"
	"github.com/desertthunder/ncmx/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultExportWorkers = 4
	maxExportWorkers     = 10
	defaultExportRate    = 5.0
	manifestFilename     = "export_manifest.json"
)

// ExportOpts contains configuration for playlist exports.
type ExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Base output directory (default: ncmx_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 10)
	RateLimit  float64          // Detail requests per second (default: 5)
	Covers     bool             // Download cover art for markdown exports
}

// ExportResult is the outcome of exporting a single playlist.
type ExportResult struct {
	PlaylistID   int64
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes [Engine.ExportPlaylists].
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ExportResult
}

type exportJob struct {
	step     int
	playlist models.Playlist
}

// ExportPlaylists writes the detail of each playlist in ids to disk and records the outcome
// in a manifest.
//
// Cached details are reused; the rest are fetched at most opts.RateLimit times per second
// and saved to the store so later views hit the cache. A failed playlist does not stop the
// export.
func (e *Engine) ExportPlaylists(ctx context.Context, prog chan<- ProgressUpdate, ids []int64, opts ExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("ncmx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultExportWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxExportWorkers)
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultExportRate
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(ids)
	result := &BulkExportResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]ExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, total)
	results := make(chan ExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, prog, total, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if ctx.Err() != nil {
				return
			}
			sendProgress(prog, fetchDetailUpdate(i+1, total, id))

			playlist, err := e.ensurePlaylist(ctx, limiter, id)
			if err != nil {
				results <- ExportResult{
					PlaylistID:   id,
					PlaylistName: fmt.Sprintf("Unknown (%d)", id),
					Error:        fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}
			jobs <- exportJob{step: i + 1, playlist: playlist}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("playlist export failed", "id", res.PlaylistID, "err", res.Error)
			sendProgress(prog, exportFailedUpdate(completed, total, res.PlaylistName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestFilename)
	if err := formatter.WriteManifest(manifestFor(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// ensurePlaylist returns the cached detail of id, fetching and saving it when absent.
func (e *Engine) ensurePlaylist(ctx context.Context, limiter *rate.Limiter, id int64) (models.Playlist, error) {
	if playlist, cached := e.runtime.Select().Details.Playlist(id); cached && playlist.Tracks != nil {
		return playlist, nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return models.Playlist{}, err
	}

	playlist, err := e.fetchPlaylist(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	e.put(ctx, actions.PlaylistDetailSaved{ID: id, Playlist: playlist})
	return playlist, nil
}

func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	total int,
	jobs <-chan exportJob,
	results chan<- ExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		sendProgress(prog, exportingPlaylistUpdate(job.step, total, job.playlist.Name))

		res := ExportResult{PlaylistID: job.playlist.ID, PlaylistName: job.playlist.Name}
		imageURL := ""
		if opts.Covers {
			imageURL = job.playlist.CoverImgURL
		}

		files, err := formatter.WriteExport(&job.playlist, opts.Format, opts.OutputDir, imageURL)
		if err != nil {
			res.Error = err
		} else {
			res.Success = true
			res.Files = files
		}
		results <- res
	}
}

func manifestFor(result *BulkExportResult, format formatter.Format) formatter.Manifest {
	m := formatter.Manifest{
		Format:            format,
		ExportedAt:        time.Now(),
		TotalPlaylists:    result.TotalPlaylists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Playlists:         make([]formatter.ManifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := formatter.ManifestEntry{
			PlaylistID:   r.PlaylistID,
			PlaylistName: r.PlaylistName,
			Status:       "success",
			Files:        r.Files,
		}
		if !r.Success {
			entry.Status = "failed"
			if r.Error != nil {
				entry.Error = r.Error.Error()
			}
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}
