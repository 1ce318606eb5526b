// Package client implements the polling consumer used by the bedside
// display: a fixed-interval fetch loop that holds the latest scorecard
// batch and keeps serving stale data when a refresh fails.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/metrics"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/models"
)

// TransportError is a failed fetch: connection trouble (Err set) or an
// unexpected status code (Status set). It triggers the stale-retention
// path, never a crash.
type TransportError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Snapshot is the locally held view of the latest batch. Batch nil means
// nothing has been fetched yet ("no data" rather than an error); LastErr
// set alongside a batch means the data is stale, last refresh failed.
type Snapshot struct {
	Batch     *models.Batch
	FetchedAt time.Time
	LastErr   error
}

func (s Snapshot) Empty() bool { return s.Batch == nil }

func (s Snapshot) Stale() bool { return s.Batch != nil && s.LastErr != nil }

const (
	stateIdle int32 = iota
	stateFetching
)

// Poller fetches the latest batch on a fixed interval. At most one
// request is ever in flight: a tick that lands mid-fetch is skipped, and
// there is no backoff or retry beyond the next scheduled tick.
type Poller struct {
	http     *resty.Client
	interval time.Duration
	logger   *zap.Logger

	state   int32
	stopped int32

	mu       sync.RWMutex
	snapshot Snapshot
	selected string

	onUpdate func(Snapshot)
}

// New builds a poller against baseURL. onUpdate, when non-nil, runs after
// every completed fetch attempt with the resulting snapshot.
func New(baseURL string, interval, timeout time.Duration, logger *zap.Logger, onUpdate func(Snapshot)) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Poller{
		http:     httpClient,
		interval: interval,
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Run polls until ctx is cancelled or Stop is called. The first fetch
// happens immediately, not one interval in.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if atomic.LoadInt32(&p.stopped) == 1 {
				return
			}
			p.tick(ctx)
		}
	}
}

// Stop discards any in-flight response instead of letting it replace the
// snapshot, and makes Run exit at its next wakeup. Callers that need an
// immediate exit cancel the Run context as well.
func (p *Poller) Stop() {
	atomic.StoreInt32(&p.stopped, 1)
}

// tick runs one fetch attempt if the poller is idle.
func (p *Poller) tick(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&p.state, stateIdle, stateFetching) {
		p.logger.Debug("Skipping tick, previous fetch still in flight")
		return
	}
	defer atomic.StoreInt32(&p.state, stateIdle)

	batch, err := p.fetchLatest(ctx)
	if atomic.LoadInt32(&p.stopped) == 1 {
		return
	}

	p.mu.Lock()
	if err != nil {
		p.snapshot.LastErr = err
		metrics.PollFailures.Inc()
		p.logger.Warn("Poll failed, keeping previous snapshot", zap.Error(err))
	} else {
		p.snapshot = Snapshot{Batch: batch, FetchedAt: time.Now()}
	}
	snap := p.snapshot
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
}

// fetchLatest issues one GET. A 404 is the store's normal empty state and
// yields a nil batch with no error.
func (p *Poller) fetchLatest(ctx context.Context) (*models.Batch, error) {
	url := p.http.BaseURL + "/cds/scorecards/latest"

	var batch models.Batch
	resp, err := p.http.R().
		SetContext(ctx).
		SetResult(&batch).
		Get("/cds/scorecards/latest")
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: url, Err: err}
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return &batch, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, &TransportError{Op: "GET", URL: url, Status: resp.StatusCode()}
	}
}

// Snapshot returns the currently held view.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// SetSelected records which patient the display is focused on. Selection
// lives apart from the snapshot so a refresh never clobbers it.
func (p *Poller) SetSelected(patientID string) {
	p.mu.Lock()
	p.selected = patientID
	p.mu.Unlock()
}

func (p *Poller) Selected() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// SelectedScorecard returns the selected patient's card from the held
// snapshot, or nil when the snapshot is empty or the patient is not in
// the latest batch.
func (p *Poller) SelectedScorecard() *models.Scorecard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.snapshot.Batch == nil || p.selected == "" {
		return nil
	}
	for i := range p.snapshot.Batch.Items {
		if p.snapshot.Batch.Items[i].PatientID == p.selected {
			return &p.snapshot.Batch.Items[i]
		}
	}
	return nil
}
