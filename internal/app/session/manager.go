// Package session provides the playlist submission service.
package session

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/youtube-chrono/chrono/internal/app/aggregate"
	"github.com/youtube-chrono/chrono/internal/app/filter"
	"github.com/youtube-chrono/chrono/internal/app/notification"
	"github.com/youtube-chrono/chrono/internal/app/resolver"
	"github.com/youtube-chrono/chrono/internal/app/session/state"
	"github.com/youtube-chrono/chrono/internal/app/source"
	"github.com/youtube-chrono/chrono/internal/domain/playlist"
	"github.com/youtube-chrono/chrono/internal/infra/config"
)

// ErrBusy is returned when a submission arrives while another run is loading.
var ErrBusy = errors.New("a playlist is already being calculated")

// Aggregator runs the aggregation pipeline for one playlist.
type Aggregator interface {
	Aggregate(ctx context.Context, ref playlist.Reference) (*playlist.Summary, error)
}

// Manager accepts playlist submissions and tracks the resulting view state.
type Manager struct {
	config       *config.Config
	resolve      resolver.Func
	aggregator   Aggregator
	stateMgr     *state.Manager
	notification *notification.Manager
}

// NewManager creates a new session manager around an aggregator.
func NewManager(cfg *config.Config, agg Aggregator) *Manager {
	return &Manager{
		config:       cfg,
		resolve:      resolver.For(cfg.Source.Type),
		aggregator:   agg,
		stateMgr:     state.New(),
		notification: notification.NewManager(),
	}
}

// NewManagerFromConfig wires the configured source and filters into a manager.
func NewManagerFromConfig(ctx context.Context, cfg *config.Config) (*Manager, error) {
	src, err := source.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create source")
	}

	chain, err := filter.NewChainFromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter chain")
	}

	agg := aggregate.New(src,
		aggregate.WithChain(chain),
		aggregate.WithPageSize(cfg.Aggregate.PageSize),
	)
	return NewManager(cfg, agg), nil
}

// Submit resolves input, runs the pipeline and records the outcome.
// The loading state is always cleared before Submit returns.
func (m *Manager) Submit(ctx context.Context, input string) (summary *playlist.Summary, err error) {
	runID := uuid.New().String()

	if !m.stateMgr.Begin(input) {
		zlog.Warn().Msgf("submission rejected: run=%s code=busy", runID)
		return nil, ErrBusy
	}
	// Tracked per run: a later run may already be loading when the defer executes.
	finished := false
	defer func() {
		if !finished {
			m.stateMgr.Fail(playlist.KindTransport, m.config.GetMessage("default_error"))
		}
	}()

	zlog.Info().Msgf("submission started: run=%s input=%q", runID, input)

	ref, err := m.resolve(input)
	if err != nil {
		finished = true
		return nil, m.fail(runID, err)
	}

	summary, err = m.aggregator.Aggregate(ctx, ref)
	if err != nil {
		finished = true
		return nil, m.fail(runID, err)
	}

	finished = true
	m.stateMgr.Succeed(summary)
	m.notification.Notify(notification.ToastSuccess, m.config.GetMessage("success"))
	zlog.Info().Msgf("submission succeeded: run=%s playlist=%s videos=%d total=%s",
		runID, summary.ID, summary.VideoCount, summary.TotalCompact)
	return summary, nil
}

func (m *Manager) fail(runID string, err error) error {
	kind := playlist.KindOf(err)
	msg := m.config.GetMessage(kind.Code())
	m.stateMgr.Fail(kind, msg)
	m.notification.Notify(notification.ToastError, msg)
	zlog.Warn().Msgf("submission failed: run=%s code=%s error=%v", runID, kind.Code(), err)
	return err
}

// Message returns the user-facing message for an error returned by Submit.
func (m *Manager) Message(err error) string {
	if errors.Is(err, ErrBusy) {
		return m.config.GetMessage("busy")
	}
	return m.config.GetMessage(playlist.KindOf(err).Code())
}

// Reset clears the last result unless a run is loading.
func (m *Manager) Reset() {
	m.stateMgr.Reset()
}

// Status represents the current view state with the visible toast.
type Status struct {
	state.Snapshot
	Toast *notification.Toast
}

// GetStatus returns the current view state.
func (m *Manager) GetStatus() *Status {
	return &Status{
		Snapshot: m.stateMgr.Snapshot(),
		Toast:    m.notification.Last(),
	}
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}
