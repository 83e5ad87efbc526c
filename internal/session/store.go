package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gitguard/gitguard-cli/internal/slogger"
)

const (
	// ConfigFileName is the session file name inside the config directory.
	ConfigFileName = "config.json"

	// Owner-only modes: the file holds a bearer credential.
	dirMode  = 0o700
	fileMode = 0o600
)

// ErrPersistence is wrapped into any failure to write the session file.
// Callers treat it as fatal: no command can proceed without a writable store.
var ErrPersistence = errors.New("session store unwritable")

// Store persists the session Record as a single JSON file. Reads degrade
// to an in-memory default; writes replace the whole file atomically.
type Store struct {
	path    string
	current Record
}

// NewStore loads the record at dir/config.json, creating dir (owner-only)
// if needed. A missing or malformed file is not an error: the returned
// store holds a default record with the given endpoint and the problem is
// logged as a warning.
func NewStore(ctx context.Context, dir, defaultURL string) (*Store, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create config directory: %w (%w)", err, ErrPersistence)
	}

	s := &Store{
		path:    filepath.Join(dir, ConfigFileName),
		current: Record{APIURL: defaultURL},
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slogger.L(ctx).Warn("failed to read session file, using defaults",
				slog.String("path", s.path), slog.Any("error", err))
		}
		return s, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slogger.L(ctx).Warn("failed to parse session file, using defaults",
			slog.String("path", s.path), slog.Any("error", err))
		return s, nil
	}

	if rec.APIURL == "" {
		rec.APIURL = defaultURL
	}
	s.current = rec

	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Read returns a copy of the current record.
func (s *Store) Read() Record {
	return s.current
}

// Authenticated reports whether a token is stored.
func (s *Store) Authenticated() bool {
	return s.current.Authenticated()
}

// Update applies fn to the current record and persists the result.
// Nothing is written until the first mutation; fn both sets and clears
// fields by mutating the record directly.
func (s *Store) Update(fn func(*Record)) error {
	next := s.current
	fn(&next)

	if err := s.save(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// SetEndpoint changes the service base URL.
func (s *Store) SetEndpoint(url string) error {
	return s.Update(func(r *Record) {
		r.APIURL = url
	})
}

// SetToken stores the bearer token together with its identity. The two
// are always written as a pair.
func (s *Store) SetToken(token, email string) error {
	return s.Update(func(r *Record) {
		r.APIToken = token
		r.Email = email
	})
}

// SetProfile stores the entitlement tier and feature preferences.
// A nil preferences pointer records all features as disabled.
func (s *Store) SetProfile(tier Tier, prefs *Preferences) error {
	return s.Update(func(r *Record) {
		r.Subscription = tier
		if prefs == nil {
			prefs = &Preferences{}
		}
		p := *prefs
		r.Preferences = &p
	})
}

// ClearAuth removes the token, identity, tier, and preferences. The
// endpoint is preserved.
func (s *Store) ClearAuth() error {
	return s.Update(func(r *Record) {
		r.APIToken = ""
		r.Email = ""
		r.Subscription = ""
		r.Preferences = nil
	})
}

// save writes the record to a temp file in the same directory and renames
// it over the target, so readers never observe a partial write.
func (s *Store) save(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ConfigFileName+".*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w (%w)", err, ErrPersistence)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w (%w)", err, ErrPersistence)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w (%w)", err, ErrPersistence)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w (%w)", err, ErrPersistence)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w (%w)", err, ErrPersistence)
	}

	return nil
}
