package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkg/browser"

	"github.com/gitguard/gitguard-cli/internal/api"
	"github.com/gitguard/gitguard-cli/internal/prompt"
	"github.com/gitguard/gitguard-cli/internal/report"
	"github.com/gitguard/gitguard-cli/internal/session"
	"github.com/gitguard/gitguard-cli/internal/slogger"
)

// placeholderEmail is stored alongside the token before the first profile
// fetch resolves the real identity. The token must be persisted first:
// the profile request itself is an authenticated call.
const placeholderEmail = "temp@email.com"

// Manager orchestrates login, logout, and whoami over the gateway, the
// session store, and the terminal.
type Manager struct {
	gateway  Gateway
	store    *session.Store
	prompter prompt.Prompter
	reporter *report.Reporter
	openURL  func(url string) error
	poller   PollerConfig
}

// ManagerConfig wires a Manager's collaborators.
type ManagerConfig struct {
	Gateway  Gateway
	Store    *session.Store
	Prompter prompt.Prompter
	Reporter *report.Reporter

	// OpenURL launches the system browser. Defaults to pkg/browser.
	OpenURL func(url string) error

	// Poller overrides polling policy, mainly for tests.
	Poller PollerConfig
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		gateway:  cfg.Gateway,
		store:    cfg.Store,
		prompter: cfg.Prompter,
		reporter: cfg.Reporter,
		openURL:  cfg.OpenURL,
		poller:   cfg.Poller,
	}
	if m.openURL == nil {
		m.openURL = browser.OpenURL
	}
	return m
}

// Authenticated reports whether a token is stored locally.
func (m *Manager) Authenticated() bool {
	return m.store.Authenticated()
}

// Login runs the browser-polling device-auth flow and stores the
// resulting token and profile.
func (m *Manager) Login(ctx context.Context) error {
	m.reporter.Info("Initializing authentication...")

	req, err := m.gateway.RequestDeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("request authentication: %w", err)
	}

	m.reporter.Println("")
	m.reporter.Info("IMPORTANT: You must be logged into GitGuard in your browser first!")
	m.reporter.Info("If you don't have an account, visit the web app to sign up.")
	m.reporter.Println("")
	m.reporter.Info("Please authenticate in your browser.")
	m.reporter.Info("Opening: %s", req.AuthURL)
	m.reporter.Info("If the browser does not open automatically, please visit the URL above.")
	m.reporter.Println("")

	if err := m.openURL(req.AuthURL); err != nil {
		slogger.L(ctx).Warn("failed to open browser", slog.Any("error", err))
	}

	m.reporter.Info("Waiting for authentication...")

	token, state, err := m.waitForToken(ctx, req.RequestCode)
	slogger.L(ctx).Debug("device auth finished", slog.String("state", state.String()))
	if err != nil {
		return err
	}

	return m.completeLogin(ctx, token)
}

// waitForToken drives the poller and, on expiry or timeout, offers the
// manual paste fallback before giving up. It returns the terminal state
// of the flow alongside the token: a rejected or aborted paste yields
// StateAborted with the original expiry or timeout error.
func (m *Manager) waitForToken(ctx context.Context, requestCode string) (string, State, error) {
	cfg := m.poller
	if cfg.Notify == nil {
		cfg.Notify = func() {
			m.reporter.Info("Still waiting for authentication...")
		}
	}
	poller := NewPoller(m.gateway, cfg)

	token, err := poller.Wait(ctx, requestCode)
	if err == nil {
		return token, poller.State(), nil
	}
	if !errors.Is(err, ErrTimeout) && !errors.Is(err, api.ErrRequestExpired) {
		return "", poller.State(), err
	}

	// Browser or network conditions can keep the loop from ever seeing
	// completion even though the user authenticated. Let them paste the
	// token shown in the browser.
	slogger.L(ctx).Debug("offering manual token entry",
		slog.String("state", StateManualEntry.String()), slog.Any("reason", err))
	m.reporter.Warning("Automatic authentication failed.")
	m.reporter.Info("If you see your token in the browser, you can paste it below:")

	manual, promptErr := m.prompter.Input("Paste your token", "")
	if promptErr != nil {
		return "", StateAborted, err
	}
	if !ValidManualToken(manual) {
		return "", StateAborted, err
	}

	m.reporter.Info("Token received manually.")
	return manual, StateCompleted, nil
}

// completeLogin persists the token, resolves the account profile, and
// reports the outcome. The write is two-phase: token first under a
// placeholder identity, then the real identity and profile.
func (m *Manager) completeLogin(ctx context.Context, token string) error {
	if err := m.store.SetToken(token, placeholderEmail); err != nil {
		return err
	}

	profile, err := m.gateway.Profile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	if err := m.store.SetToken(token, profile.Email); err != nil {
		return err
	}
	if err := m.store.SetProfile(profile.Subscription, &profile.Preferences); err != nil {
		return err
	}

	m.reporter.Println("")
	m.reporter.Success("Successfully logged in as %s", profile.Email)
	m.reporter.Info("Subscription: %s", profile.Subscription)
	m.reporter.Info("Daily scans remaining: %d/%d",
		profile.Limits.ScansRemaining, profile.Limits.DailyScans)
	m.reportFeatures(profile)

	return nil
}

// reportFeatures lists the default scan features enabled for the tier.
func (m *Manager) reportFeatures(profile *api.Profile) {
	if profile.Subscription == session.TierFree {
		return
	}

	m.reporter.Println("")
	m.reporter.Info("Default scan features:")
	premier := profile.Subscription == session.TierPremier
	if profile.Preferences.AIScanEnabled {
		m.reporter.Info("  ✓ AI-powered analysis enabled")
	}
	if profile.Preferences.DependencyScanEnabled && premier {
		m.reporter.Info("  ✓ Dependency scanning enabled")
	}
	if profile.Preferences.SecretScanEnabled && premier {
		m.reporter.Info("  ✓ Secret detection enabled")
	}
	m.reporter.Println("")
	m.reporter.Info("Use --no-ai, --no-dependencies, or --no-secrets to disable specific features.")
}

// LoginPassword runs the email/password variant: a single round trip,
// with token and identity stored straight from the response.
func (m *Manager) LoginPassword(ctx context.Context, email, password string) error {
	res, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.store.SetToken(res.Token, res.User.Email); err != nil {
		return err
	}
	if res.User.Subscription != "" {
		if err := m.store.SetProfile(res.User.Subscription, nil); err != nil {
			return err
		}
	}

	m.reporter.Success("Successfully logged in as %s", res.User.Email)
	return nil
}

// Logout revokes the token best-effort and clears local credentials.
// Already being logged out is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.store.Authenticated() {
		m.reporter.Warning("Not logged in")
		return nil
	}

	email := m.store.Read().Email

	if err := m.gateway.RevokeToken(ctx); err != nil {
		slogger.L(ctx).Warn("token revocation failed", slog.Any("error", err))
		m.reporter.Warning("Could not revoke token on server (continuing with local logout)")
	} else {
		m.reporter.Info("Token revoked on server")
	}

	if err := m.store.ClearAuth(); err != nil {
		return err
	}

	m.reporter.Success("Logged out %s", email)
	return nil
}

// Whoami displays the current account. A rejected token clears local
// credentials and asks the user to log in again.
func (m *Manager) Whoami(ctx context.Context) error {
	if !m.store.Authenticated() {
		m.reporter.Warning("Not logged in")
		m.reporter.Info("Run \"gitguard login\" to authenticate")
		return nil
	}

	profile, err := m.gateway.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthExpired) {
			m.reporter.Error("Authentication expired. Please login again.")
			if clearErr := m.store.ClearAuth(); clearErr != nil {
				return clearErr
			}
			return err
		}
		return fmt.Errorf("fetch profile: %w", err)
	}

	m.reporter.Println("Email: %s", profile.Email)
	m.reporter.Println("Subscription: %s", profile.Subscription)
	m.reporter.Println("")
	m.reporter.Println("Daily Scans:")
	m.reporter.Println("  Limit: %d", profile.Limits.DailyScans)
	m.reporter.Println("  Remaining: %d", profile.Limits.ScansRemaining)
	m.reporter.Println("  Resets: %s", profile.Limits.ResetsAt)

	if profile.Subscription != session.TierFree {
		m.reporter.Println("")
		m.reporter.Println("Default Scan Settings:")
		m.reporter.Println("  AI Analysis: %s", enabled(profile.Preferences.AIScanEnabled))
		if profile.Subscription == session.TierPremier {
			m.reporter.Println("  Dependency Scanning: %s", enabled(profile.Preferences.DependencyScanEnabled))
			m.reporter.Println("  Secret Detection: %s", enabled(profile.Preferences.SecretScanEnabled))
		}
		m.reporter.Println("")
		m.reporter.Println("Use --ai, --dependencies, or --secrets to override these defaults.")
		m.reporter.Println("Use --no-ai, --no-dependencies, or --no-secrets to disable features.")
	}

	return nil
}

func enabled(v bool) string {
	if v {
		return "✓ Enabled"
	}
	return "✗ Disabled"
}
