// Package auth implements the GitGuard login flows: the browser-polling
// device-auth state machine with manual fallback, the password variant,
// and logout/whoami session orchestration.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gitguard/gitguard-cli/internal/api"
)

// TokenPrefix is the expected shape of a GitGuard token. The check on
// manually pasted tokens is a UX nicety; real validation happens
// server-side on the first authenticated call.
const TokenPrefix = "gg_"

// ErrTimeout indicates device-auth polling exceeded the wall-clock
// ceiling without completing.
var ErrTimeout = errors.New("authentication timeout")

// Gateway is the slice of the GitGuard API the auth flows depend on.
// *api.Client satisfies it.
type Gateway interface {
	// RequestDeviceAuth starts a device-auth attempt.
	RequestDeviceAuth(ctx context.Context) (*api.DeviceAuthRequest, error)

	// PollDeviceAuth checks an in-flight attempt by request code.
	PollDeviceAuth(ctx context.Context, requestCode string) (*api.DeviceAuthStatus, error)

	// RevokeToken invalidates the stored token server-side.
	RevokeToken(ctx context.Context) error

	// Profile fetches the authenticated account document.
	Profile(ctx context.Context) (*api.Profile, error)

	// Login performs an email/password login.
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
}

// ValidManualToken reports whether a pasted token matches the expected
// shape: non-empty with the service prefix.
func ValidManualToken(token string) bool {
	return token != "" && strings.HasPrefix(token, TokenPrefix)
}
