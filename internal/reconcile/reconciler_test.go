package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/models"
)

type stubLive struct {
	alerts []models.Alert
	err    error
	delay  time.Duration
}

func (s *stubLive) GetAlerts(ctx context.Context, vip string, opts dto.ListOptions) (dto.AlertsResponse, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return dto.AlertsResponse{}, ctx.Err()
		}
	}
	if s.err != nil {
		return dto.AlertsResponse{}, s.err
	}
	return dto.AlertsResponse{Alerts: s.alerts, Total: len(s.alerts)}, nil
}

type stubMock struct {
	alerts []models.Alert
}

func (s *stubMock) List(opts dto.ListOptions) dto.AlertsResponse {
	out := s.alerts
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return dto.AlertsResponse{Alerts: out, Total: len(out)}
}

type stubResolution struct {
	resolved map[string]bool
}

func (s *stubResolution) FilterOutResolved(ctx context.Context, alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !s.resolved[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func noResolution() *stubResolution {
	return &stubResolution{resolved: map[string]bool{}}
}

func TestMergedAlertsDedupLiveWins(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{alerts: []models.Alert{alert("x", "live payload", now)}}
	mock := &stubMock{alerts: []models.Alert{alert("x", "mock payload", now)}}

	r := NewReconciler(live, mock, noResolution(), true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "live payload", resp.Alerts[0].Title)
	assert.Equal(t, 1, resp.Total)
}

func TestMergedAlertsSortedDescending(t *testing.T) {
	now := time.Now().UTC()
	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)

	// Deliberately shuffled across both sources.
	live := &stubLive{alerts: []models.Alert{alert("a", "t1", t1), alert("c", "t3", t3)}}
	mock := &stubMock{alerts: []models.Alert{alert("b", "t2", t2)}}

	r := NewReconciler(live, mock, noResolution(), true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 3)
	assert.Equal(t, "t3", resp.Alerts[0].Title)
	assert.Equal(t, "t2", resp.Alerts[1].Title)
	assert.Equal(t, "t1", resp.Alerts[2].Title)
}

func TestMergedAlertsSuppressesResolvedIDs(t *testing.T) {
	now := time.Now().UTC()
	// Live still reports the resolved id; it must not reappear.
	live := &stubLive{alerts: []models.Alert{alert("5", "resolved upstream", now)}}
	mock := &stubMock{alerts: []models.Alert{alert("6", "visible", now)}}
	res := &stubResolution{resolved: map[string]bool{"5": true}}

	r := NewReconciler(live, mock, res, true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "6", resp.Alerts[0].ID)
}

func TestMergedAlertsLiveFailureFallsBackToMock(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{err: fmt.Errorf("connection refused")}
	mock := &stubMock{alerts: []models.Alert{alert("1", "local", now)}}

	r := NewReconciler(live, mock, noResolution(), true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "local", resp.Alerts[0].Title)
}

func TestMergedAlertsLiveTimeoutFallsBackToMock(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{
		alerts: []models.Alert{alert("slow", "never arrives", now)},
		delay:  500 * time.Millisecond,
	}
	mock := &stubMock{alerts: []models.Alert{alert("1", "local", now)}}

	r := NewReconciler(live, mock, noResolution(), true, 20*time.Millisecond, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "local", resp.Alerts[0].Title)
}

func TestMergedAlertsLimitAppliesAfterResolutionFilter(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{alerts: []models.Alert{
		alert("1", "newest", now),
		alert("2", "second", now.Add(-time.Hour)),
	}}
	mock := &stubMock{alerts: []models.Alert{
		alert("3", "third", now.Add(-2 * time.Hour)),
	}}
	res := &stubResolution{resolved: map[string]bool{"1": true}}

	r := NewReconciler(live, mock, res, true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{Limit: 2})

	// Filtering happens before truncation, so the limit still yields
	// two visible alerts even though the newest one is resolved.
	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, "second", resp.Alerts[0].Title)
	assert.Equal(t, "third", resp.Alerts[1].Title)
	assert.Equal(t, 2, resp.Total)
}

func TestMergedAlertsLimitNotForwardedToSources(t *testing.T) {
	now := time.Now().UTC()
	// A source that truncates internally would drop "third" before the
	// resolution filter could free its slot.
	mock := &stubMock{alerts: []models.Alert{
		alert("1", "newest", now),
		alert("2", "second", now.Add(-time.Hour)),
		alert("3", "third", now.Add(-2 * time.Hour)),
	}}
	res := &stubResolution{resolved: map[string]bool{"1": true}}

	r := NewReconciler(nil, mock, res, false, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{Limit: 2})

	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, "second", resp.Alerts[0].Title)
	assert.Equal(t, "third", resp.Alerts[1].Title)
	assert.Equal(t, 2, resp.Total)
}

func TestMergedAlertsLiveDisabledServesMockOnly(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{alerts: []models.Alert{alert("remote", "must not appear", now)}}
	mock := &stubMock{alerts: []models.Alert{alert("1", "local", now)}}

	r := NewReconciler(live, mock, noResolution(), false, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "local", resp.Alerts[0].Title)
}

func TestMergedAlertsTotalIsFinalCount(t *testing.T) {
	now := time.Now().UTC()
	live := &stubLive{alerts: []models.Alert{
		alert("1", "a", now),
		alert("2", "b", now.Add(-time.Hour)),
	}}
	mock := &stubMock{alerts: []models.Alert{alert("1", "dup of live", now)}}
	res := &stubResolution{resolved: map[string]bool{"2": true}}

	r := NewReconciler(live, mock, res, true, time.Second, nil)
	resp := r.GetMergedAlerts(context.Background(), "", dto.ListOptions{})

	// Two unique ids minus one resolved: total reflects what is served,
	// not what was fetched.
	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Alerts, 1)
}
