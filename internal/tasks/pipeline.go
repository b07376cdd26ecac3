// package tasks implements the folder → playlist sync pipeline.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdir/internal/models"
	"github.com/desertthunder/spotdir/internal/services"
	"github.com/desertthunder/spotdir/internal/shared"
)

// ItemResult is the outcome of resolving one file name.
type ItemResult struct {
	Name    string  `json:"name" yaml:"name"`
	Query   string  `json:"query" yaml:"query"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	URI     string  `json:"uri,omitempty" yaml:"uri,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// SyncResult contains all data from one sync run.
type SyncResult struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	StartedAt   time.Time          `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time          `json:"finished_at" yaml:"finished_at"`
	Collection  *models.Collection `json:"collection,omitempty" yaml:"collection,omitempty"`
	Items       []ItemResult       `json:"items" yaml:"items"`
	Queries     []string           `json:"-" yaml:"-"`             // Search query per name, in input order
	Matched     []string           `json:"-" yaml:"-"`             // Track URIs, in input order
	Missing     int                `json:"missing" yaml:"missing"` // Searches with no hit
	Failed      int                `json:"failed" yaml:"failed"`   // Searches that errored
	AppendCalls int                `json:"append_calls" yaml:"append_calls"`
	Log         []ProgressUpdate   `json:"log" yaml:"log"`
}

// Total returns the number of items the run attempted.
func (r *SyncResult) Total() int {
	return len(r.Queries)
}

// SyncPipeline resolves local file names against the catalog and writes the matches into a new playlist.
//
// Remote calls run sequentially on the caller's goroutine.
type SyncPipeline struct {
	catalog services.Catalog
	logger  *log.Logger
	log     *ProgressLog
}

// NewSyncPipeline creates a [SyncPipeline] backed by catalog.
func NewSyncPipeline(catalog services.Catalog) *SyncPipeline {
	return &SyncPipeline{
		catalog: catalog,
		logger:  shared.NewLogger(nil),
		log:     NewProgressLog(),
	}
}

// WithLogger replaces the pipeline logger.
func (p *SyncPipeline) WithLogger(l *log.Logger) *SyncPipeline {
	if l != nil {
		p.logger = l
	}
	return p
}

// Log returns the progress log of the current or most recent run. Safe for concurrent reads.
func (p *SyncPipeline) Log() *ProgressLog {
	return p.log
}

// emit records u and then hands it to progress.
//
// The send blocks until the consumer reads or ctx is done, so a live consumer sees every entry.
func (p *SyncPipeline) emit(ctx context.Context, progress chan<- ProgressUpdate, u ProgressUpdate) {
	p.log.Append(u)
	p.logger.Debug(u.Message, "phase", u.Phase, "outcome", u.Outcome)
	if progress == nil {
		return
	}
	select {
	case progress <- u:
	case <-ctx.Done():
	}
}

// Run synchronizes names into a new private playlist called collectionName.
//
// Profile and playlist creation failures abort the run. Search failures are logged per item and never abort.
// The caller owns progress and closes it after Run returns. A non-nil result is returned whenever a step ran.
func (p *SyncPipeline) Run(ctx context.Context, names []string, collectionName string, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if len(names) == 0 {
		return nil, shared.ErrEmptyInput
	}
	if strings.TrimSpace(collectionName) == "" {
		return nil, fmt.Errorf("%w: playlist name is empty", shared.ErrInvalidInput)
	}
	if p.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}

	p.log.reset()
	result := &SyncResult{
		RunID:     shared.GenerateID(),
		StartedAt: time.Now().UTC(),
	}
	logger := shared.WithLogger(p.logger, "run", result.RunID)
	defer func() {
		result.Log = p.log.Entries()
		result.FinishedAt = time.Now().UTC()
	}()

	profile, err := p.catalog.GetProfile(ctx)
	if err != nil {
		p.emit(ctx, progress, profileFailedUpdate(err))
		logger.Error("profile lookup failed", "error", err)
		return result, fmt.Errorf("%w: %w", shared.ErrAbortedAtProfile, err)
	}
	p.emit(ctx, progress, profileUpdate(profile))

	collection, err := p.catalog.CreatePlaylist(ctx, profile.ID, collectionName)
	if err != nil {
		p.emit(ctx, progress, createPlaylistFailedUpdate(collectionName, err))
		logger.Error("playlist creation failed", "name", collectionName, "error", err)
		return result, fmt.Errorf("%w: %w", shared.ErrAbortedAtCreate, err)
	}
	result.Collection = collection
	p.emit(ctx, progress, createPlaylistUpdate(collection))
	logger.Info("playlist created", "id", collection.ID, "url", collection.URL)

	total := len(names)
	for i, name := range names {
		query := shared.SearchQuery(name)
		result.Queries = append(result.Queries, query)

		item := ItemResult{Name: name, Query: query}

		uri, err := p.catalog.SearchTrack(ctx, query)
		switch {
		case err != nil:
			item.Outcome, item.Error = OutcomeFailed, err.Error()
			result.Failed++
			p.emit(ctx, progress, searchFailedUpdate(i+1, total, query, err))
			logger.Warn("search failed", "query", query, "error", err)
		case uri == nil:
			item.Outcome = OutcomeMissing
			result.Missing++
			p.emit(ctx, progress, notFoundUpdate(i+1, total, query))
		default:
			item.Outcome, item.URI = OutcomeFound, *uri
			result.Matched = append(result.Matched, *uri)
			p.emit(ctx, progress, foundUpdate(i+1, total, query, *uri))
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Matched) == 0 {
		p.emit(ctx, progress, noTracksUpdate())
		return result, nil
	}

	calls, err := p.catalog.AddTracks(ctx, collection.ID, result.Matched)
	result.AppendCalls = calls
	if err != nil {
		p.emit(ctx, progress, addTracksFailedUpdate(len(result.Matched), err))
		logger.Error("adding tracks failed", "playlist", collection.ID, "error", err)
		return result, fmt.Errorf("%w: %w", shared.ErrAppendFailed, err)
	}

	p.emit(ctx, progress, addedTracksUpdate(len(result.Matched)))
	logger.Info("sync complete", "matched", len(result.Matched), "missing", result.Missing, "failed", result.Failed)
	return result, nil
}
