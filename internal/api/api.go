// Package api implements the GitGuard HTTP API client used by the CLI.
package api

import (
	"errors"

	"github.com/gitguard/gitguard-cli/internal/session"
)

// Sentinel errors for API operations. Transport failures wrap ErrNetwork;
// server-side rejections map to the remaining sentinels by status code.
var (
	// ErrNetwork indicates the service could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrAuthExpired indicates the stored token was rejected (401).
	// Callers clear local credentials and ask the user to log in again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrInvalidCredentials indicates a rejected email/password login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRequestExpired indicates the server invalidated a device-auth
	// request before it completed (410).
	ErrRequestExpired = errors.New("authentication request expired")
)

// RateLimitError carries the server's message for a 429 response.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limit exceeded"
	}
	return "rate limit exceeded: " + e.Message
}

// DeviceAuthRequest is the server's answer to a device-auth initiation.
type DeviceAuthRequest struct {
	// RequestCode correlates one in-flight device-auth attempt.
	RequestCode string `json:"requestCode"`

	// AuthURL is the browser verification link.
	AuthURL string `json:"authUrl"`

	// ExpiresIn is the server-side validity window in seconds.
	ExpiresIn int `json:"expiresIn"`
}

// Device-auth poll statuses.
const (
	AuthStatusPending   = "pending"
	AuthStatusCompleted = "completed"
	AuthStatusExpired   = "expired"
)

// DeviceAuthStatus is one poll result. Token is set only when Status is
// AuthStatusCompleted.
type DeviceAuthStatus struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
}

// AuthResult is the response to an email/password login.
type AuthResult struct {
	Token string `json:"token"`
	User  struct {
		ID           string       `json:"id"`
		Email        string       `json:"email"`
		Subscription session.Tier `json:"subscription"`
	} `json:"user"`
}

// Limits describes the account's daily scan quota.
type Limits struct {
	DailyScans     int    `json:"dailyScans"`
	ScansRemaining int    `json:"scansRemaining"`
	ResetsAt       string `json:"resetsAt"`
}

// Profile is the account document returned by GET /profile.
type Profile struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Subscription session.Tier        `json:"subscription"`
	Limits       Limits              `json:"limits"`
	Preferences  session.Preferences `json:"preferences"`
}

// ScanOptions selects optional scan features for a submission.
type ScanOptions struct {
	IncludeAI           bool `json:"includeAI,omitempty"`
	IncludeDependencies bool `json:"includeDependencies,omitempty"`
	IncludeSecrets      bool `json:"includeSecrets,omitempty"`
}

// ScanRequest is a scan submission: relative path to file contents.
type ScanRequest struct {
	Files      map[string]string `json:"files"`
	Repository string            `json:"repository,omitempty"`
	Options    *ScanOptions      `json:"options,omitempty"`
}

// Severity levels, highest first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Vulnerability is a single finding in a scan result.
type Vulnerability struct {
	ID            string `json:"id"`
	Severity      string `json:"severity"`
	Type          string `json:"type"`
	File          string `json:"file"`
	Line          int    `json:"line"`
	Code          string `json:"code,omitempty"`
	Description   string `json:"description"`
	Remediation   string `json:"remediation,omitempty"`
	AIRemediation string `json:"aiRemediation,omitempty"`
}

// ScanSummary counts findings by severity.
type ScanSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// ScanResult is the server's scan response.
type ScanResult struct {
	ScanID          string          `json:"scanId"`
	Status          string          `json:"status"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Summary         ScanSummary     `json:"summary"`
	FilesScanned    int             `json:"filesScanned"`
	Duration        int             `json:"duration"`
}
