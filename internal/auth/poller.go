package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gitguard/gitguard-cli/internal/api"
)

// Polling policy. The interval bounds server load while keeping perceived
// latency acceptable; the ceiling bounds abandoned login attempts.
const (
	// PollInterval is the fixed delay between device-auth polls.
	PollInterval = 2 * time.Second

	// PollCeiling is the wall-clock limit for the whole polling loop.
	PollCeiling = 10 * time.Minute

	// heartbeatEvery is the number of consecutive pending polls between
	// progress notices.
	heartbeatEvery = 5
)

// State identifies a position in the device-auth flow.
type State int

const (
	// StateStarted means the device-auth request has been issued.
	StateStarted State = iota

	// StatePolling means the loop is waiting for browser completion.
	StatePolling

	// StateCompleted means a token was obtained.
	StateCompleted

	// StateExpired means the server invalidated the request.
	StateExpired

	// StateTimedOut means the wall-clock ceiling was reached.
	StateTimedOut

	// StateManualEntry means expiry or timeout was reached and the user
	// is being offered the paste fallback.
	StateManualEntry

	// StateAborted means the pasted fallback token was rejected.
	StateAborted
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	case StateTimedOut:
		return "timed_out"
	case StateManualEntry:
		return "manual_entry"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PollerConfig customizes a Poller. Zero values select production
// behavior; tests inject a fake clock and sleeper.
type PollerConfig struct {
	// Interval between polls. Defaults to PollInterval.
	Interval time.Duration

	// Ceiling on total wall-clock time. Defaults to PollCeiling.
	Ceiling time.Duration

	// Now supplies the current time. Defaults to time.Now.
	Now func() time.Time

	// Sleep suspends between polls. Defaults to a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// Notify receives the periodic still-waiting heartbeat. May be nil.
	Notify func()
}

// Poller drives the polling half of the device-auth flow: it repeatedly
// asks the gateway whether the browser handshake finished and stops at
// the first terminal state. It persists nothing itself.
type Poller struct {
	gateway  Gateway
	interval time.Duration
	ceiling  time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	notify   func()
	state    State
}

// NewPoller creates a Poller over the given gateway.
func NewPoller(gateway Gateway, cfg PollerConfig) *Poller {
	p := &Poller{
		gateway:  gateway,
		interval: cfg.Interval,
		ceiling:  cfg.Ceiling,
		now:      cfg.Now,
		sleep:    cfg.Sleep,
		notify:   cfg.Notify,
		state:    StateStarted,
	}
	if p.interval == 0 {
		p.interval = PollInterval
	}
	if p.ceiling == 0 {
		p.ceiling = PollCeiling
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p
}

// State returns the poller's current position in the flow.
func (p *Poller) State() State {
	return p.state
}

// Wait polls until the handshake reaches a terminal state and returns the
// token on completion. It returns ErrTimeout when cumulative elapsed time
// reaches the ceiling and api.ErrRequestExpired when the server reports
// the request gone, whether as an explicit status or an HTTP 410.
func (p *Poller) Wait(ctx context.Context, requestCode string) (string, error) {
	start := p.now()
	pending := 0
	p.state = StatePolling

	for {
		// The ceiling is wall-clock elapsed time, not an interval count:
		// a single slow request never triggers it on its own.
		if exceeded(start, p.now(), p.ceiling) {
			p.state = StateTimedOut
			return "", ErrTimeout
		}

		status, err := p.gateway.PollDeviceAuth(ctx, requestCode)
		if err != nil {
			if errors.Is(err, api.ErrRequestExpired) {
				p.state = StateExpired
				return "", err
			}
			return "", err
		}

		switch status.Status {
		case api.AuthStatusCompleted:
			if status.Token != "" {
				p.state = StateCompleted
				return status.Token, nil
			}
		case api.AuthStatusExpired:
			p.state = StateExpired
			return "", api.ErrRequestExpired
		}

		pending++
		if pending%heartbeatEvery == 0 && p.notify != nil {
			p.notify()
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return "", err
		}
	}
}

// exceeded reports whether elapsed time since start has reached the
// ceiling, as a pure function of the two timestamps.
func exceeded(start, now time.Time, ceiling time.Duration) bool {
	return now.Sub(start) >= ceiling
}

// sleepContext sleeps for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
