package cmd

import (
	"context"

	"github.com/gitguard/gitguard-cli/internal/api"
	"github.com/gitguard/gitguard-cli/internal/auth"
	"github.com/gitguard/gitguard-cli/internal/config"
	"github.com/gitguard/gitguard-cli/internal/report"
	"github.com/gitguard/gitguard-cli/internal/session"
)

type contextKey string

const (
	settingsKey contextKey = "settings"
	storeKey    contextKey = "store"
	clientKey   contextKey = "client"
	reporterKey contextKey = "reporter"
	managerKey  contextKey = "manager"
)

// WithSettings adds the resolved settings to the context.
func WithSettings(ctx context.Context, s *config.Settings) context.Context {
	return context.WithValue(ctx, settingsKey, s)
}

// SettingsFromContext retrieves the settings from context.
func SettingsFromContext(ctx context.Context) *config.Settings {
	s, ok := ctx.Value(settingsKey).(*config.Settings)
	if !ok {
		return nil
	}
	return s
}

// WithStore adds the session store to the context.
func WithStore(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// StoreFromContext retrieves the session store from context.
func StoreFromContext(ctx context.Context) *session.Store {
	store, ok := ctx.Value(storeKey).(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// WithClient adds the API client to the context.
func WithClient(ctx context.Context, client *api.Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// ClientFromContext retrieves the API client from context.
func ClientFromContext(ctx context.Context) *api.Client {
	client, ok := ctx.Value(clientKey).(*api.Client)
	if !ok {
		return nil
	}
	return client
}

// WithReporter adds the reporter to the context.
func WithReporter(ctx context.Context, r *report.Reporter) context.Context {
	return context.WithValue(ctx, reporterKey, r)
}

// ReporterFromContext retrieves the reporter from context.
func ReporterFromContext(ctx context.Context) *report.Reporter {
	r, ok := ctx.Value(reporterKey).(*report.Reporter)
	if !ok {
		return nil
	}
	return r
}

// WithManager adds the auth manager to the context.
func WithManager(ctx context.Context, mgr *auth.Manager) context.Context {
	return context.WithValue(ctx, managerKey, mgr)
}

// ManagerFromContext retrieves the auth manager from context.
func ManagerFromContext(ctx context.Context) *auth.Manager {
	mgr, ok := ctx.Value(managerKey).(*auth.Manager)
	if !ok {
		return nil
	}
	return mgr
}
