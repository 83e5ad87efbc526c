package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitguard/gitguard-cli/internal/api"
)

// fakeClock advances only when the poller sleeps, so tests control
// elapsed wall-clock time exactly.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	return nil
}

// pollGateway scripts the poll operation; the embedded Gateway panics on
// anything else, which no poller test should reach.
type pollGateway struct {
	Gateway
	calls int
	poll  func(call int) (*api.DeviceAuthStatus, error)
}

func (g *pollGateway) PollDeviceAuth(_ context.Context, _ string) (*api.DeviceAuthStatus, error) {
	g.calls++
	return g.poll(g.calls)
}

func TestPoller_CompletesAfterPending(t *testing.T) {
	const pendingPolls = 3

	clock := newFakeClock()
	gateway := &pollGateway{poll: func(call int) (*api.DeviceAuthStatus, error) {
		if call <= pendingPolls {
			return &api.DeviceAuthStatus{Status: api.AuthStatusPending}, nil
		}
		return &api.DeviceAuthStatus{Status: api.AuthStatusCompleted, Token: "gg_abc"}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{Now: clock.Now, Sleep: clock.Sleep})

	token, err := poller.Wait(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, "gg_abc", token)
	assert.Equal(t, StateCompleted, poller.State())
	assert.Equal(t, pendingPolls+1, gateway.calls)
	require.Len(t, clock.slept, pendingPolls)
	for _, d := range clock.slept {
		assert.Equal(t, PollInterval, d)
	}
}

func TestPoller_ExpiredStatus(t *testing.T) {
	clock := newFakeClock()
	gateway := &pollGateway{poll: func(int) (*api.DeviceAuthStatus, error) {
		return &api.DeviceAuthStatus{Status: api.AuthStatusExpired}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{Now: clock.Now, Sleep: clock.Sleep})

	_, err := poller.Wait(context.Background(), "req-1")
	assert.ErrorIs(t, err, api.ErrRequestExpired)
	assert.Equal(t, StateExpired, poller.State())
	assert.Equal(t, 1, gateway.calls)
}

func TestPoller_GoneTreatedAsExpired(t *testing.T) {
	clock := newFakeClock()
	gateway := &pollGateway{poll: func(int) (*api.DeviceAuthStatus, error) {
		// The transport-level 410 arrives as an error, not a status.
		return nil, api.ErrRequestExpired
	}}

	poller := NewPoller(gateway, PollerConfig{Now: clock.Now, Sleep: clock.Sleep})

	_, err := poller.Wait(context.Background(), "req-1")
	assert.ErrorIs(t, err, api.ErrRequestExpired)
	assert.Equal(t, StateExpired, poller.State())
}

func TestPoller_TimesOut(t *testing.T) {
	clock := newFakeClock()
	gateway := &pollGateway{poll: func(int) (*api.DeviceAuthStatus, error) {
		return &api.DeviceAuthStatus{Status: api.AuthStatusPending}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{Now: clock.Now, Sleep: clock.Sleep})

	_, err := poller.Wait(context.Background(), "req-1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, StateTimedOut, poller.State())

	// 2s interval against a 10m ceiling: exactly 300 polls before the
	// elapsed check trips.
	assert.Equal(t, 300, gateway.calls)
}

func TestPoller_TimeoutIsWallClock(t *testing.T) {
	// A single slow request must not trigger the timeout; only cumulative
	// elapsed time does. Simulate one poll taking almost the whole window.
	clock := newFakeClock()
	gateway := &pollGateway{poll: func(call int) (*api.DeviceAuthStatus, error) {
		if call == 1 {
			clock.now = clock.now.Add(PollCeiling - time.Second)
			return &api.DeviceAuthStatus{Status: api.AuthStatusPending}, nil
		}
		return &api.DeviceAuthStatus{Status: api.AuthStatusCompleted, Token: "gg_slow"}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{Now: clock.Now, Sleep: func(context.Context, time.Duration) error {
		return nil
	}})

	token, err := poller.Wait(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "gg_slow", token)
}

func TestPoller_HeartbeatEveryFifthPending(t *testing.T) {
	notices := 0
	clock := newFakeClock()
	gateway := &pollGateway{poll: func(call int) (*api.DeviceAuthStatus, error) {
		if call <= 12 {
			return &api.DeviceAuthStatus{Status: api.AuthStatusPending}, nil
		}
		return &api.DeviceAuthStatus{Status: api.AuthStatusCompleted, Token: "gg_abc"}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{
		Now:    clock.Now,
		Sleep:  clock.Sleep,
		Notify: func() { notices++ },
	})

	_, err := poller.Wait(context.Background(), "req-1")
	require.NoError(t, err)

	// 12 pending polls -> notices after the 5th and 10th.
	assert.Equal(t, 2, notices)
}

func TestPoller_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gateway := &pollGateway{poll: func(int) (*api.DeviceAuthStatus, error) {
		return &api.DeviceAuthStatus{Status: api.AuthStatusPending}, nil
	}}

	poller := NewPoller(gateway, PollerConfig{
		Now: time.Now,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	})

	_, err := poller.Wait(ctx, "req-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidManualToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", "gg_abc123", true},
		{"bare prefix", "gg_", true},
		{"empty", "", false},
		{"wrong prefix", "tok_abc", false},
		{"prefix not leading", "xgg_abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidManualToken(tt.token))
		})
	}
}
