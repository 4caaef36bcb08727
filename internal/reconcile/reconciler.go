package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/models"
)

// LiveSource fetches alerts for a target from the remote backend.
type LiveSource interface {
	GetAlerts(ctx context.Context, vip string, opts dto.ListOptions) (dto.AlertsResponse, error)
}

// MockSource lists locally held alerts. It cannot fail.
type MockSource interface {
	List(opts dto.ListOptions) dto.AlertsResponse
}

// ResolutionFilter drops alerts the user has marked resolved.
type ResolutionFilter interface {
	FilterOutResolved(ctx context.Context, alerts []models.Alert) []models.Alert
}

// Reconciler produces the single deduplicated, time-ordered,
// resolution-filtered alert view served to the dashboard and the
// alerts screen. Both views use the same merge precedence: live
// entries win id collisions against local ones.
type Reconciler struct {
	live       LiveSource
	mock       MockSource
	resolution ResolutionFilter
	log        *zap.SugaredLogger

	useLive      bool
	fetchTimeout time.Duration
}

func NewReconciler(live LiveSource, mock MockSource, res ResolutionFilter, useLive bool, fetchTimeout time.Duration, log *zap.SugaredLogger) *Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	return &Reconciler{
		live:         live,
		mock:         mock,
		resolution:   res,
		log:          log,
		useLive:      useLive,
		fetchTimeout: fetchTimeout,
	}
}

// GetMergedAlerts merges the live and mock sources into one view.
//
// Both sources are fetched concurrently, the live fetch under a
// bounded timeout; a failed or timed-out fetch contributes an empty
// list instead of aborting the call. The merged set is sorted newest-first, filtered
// through the resolution store and only then truncated to the limit,
// so a limit of n yields n visible alerts whenever enough remain.
// Total is the length of the final list.
func (r *Reconciler) GetMergedAlerts(ctx context.Context, vip string, opts dto.ListOptions) dto.AlertsResponse {
	if !r.useLive || r.live == nil {
		return r.mockOnly(ctx, opts)
	}

	// Sources get the search/severity filters but never the limit:
	// truncating at the source would let resolved alerts consume slots
	// before the resolution filter runs.
	fetchOpts := opts
	fetchOpts.Limit = 0

	var (
		wg         sync.WaitGroup
		liveAlerts []models.Alert
		mockAlerts []models.Alert
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
		resp, err := r.live.GetAlerts(fetchCtx, vip, fetchOpts)
		if err != nil {
			r.log.Warnw("Live source fetch failed, continuing with mock only", "error", err)
			return
		}
		liveAlerts = resp.Alerts
	}()
	go func() {
		defer wg.Done()
		mockAlerts = r.mock.List(fetchOpts).Alerts
	}()
	wg.Wait()

	merged := MergeByID(mockAlerts, liveAlerts, PreferSecond)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	merged = r.filterResolved(ctx, merged)

	if opts.Limit > 0 && len(merged) > opts.Limit {
		merged = merged[:opts.Limit]
	}

	return dto.AlertsResponse{Alerts: merged, Total: len(merged)}
}

// mockOnly serves the mock source exclusively, still applying the
// search/severity filters, the resolution filter and only then the
// limit.
func (r *Reconciler) mockOnly(ctx context.Context, opts dto.ListOptions) dto.AlertsResponse {
	fetchOpts := opts
	fetchOpts.Limit = 0

	resp := r.mock.List(fetchOpts)
	resp.Alerts = r.filterResolved(ctx, resp.Alerts)
	if opts.Limit > 0 && len(resp.Alerts) > opts.Limit {
		resp.Alerts = resp.Alerts[:opts.Limit]
	}
	resp.Total = len(resp.Alerts)
	return resp
}

func (r *Reconciler) filterResolved(ctx context.Context, alerts []models.Alert) []models.Alert {
	if r.resolution == nil {
		return alerts
	}
	return r.resolution.FilterOutResolved(ctx, alerts)
}
