// Package session manages the local GitGuard session record: the API
// endpoint, bearer token, and account profile persisted between CLI runs.
package session

// Tier is the subscription level associated with an account.
type Tier string

const (
	// TierFree is the default subscription level.
	TierFree Tier = "free"

	// TierPro enables AI-powered analysis.
	TierPro Tier = "pro"

	// TierPremier enables all scan features.
	TierPremier Tier = "premier"
)

// Preferences holds the default scan feature toggles for an account.
// Features the server omits are treated as disabled.
type Preferences struct {
	AIScanEnabled         bool `json:"aiScanEnabled,omitempty"`
	DependencyScanEnabled bool `json:"dependencyScanEnabled,omitempty"`
	SecretScanEnabled     bool `json:"secretScanEnabled,omitempty"`
}

// Record is the single persisted session document. Exactly one record
// exists per machine; APIURL is the only field that survives a logout.
type Record struct {
	// APIURL is the base URL of the GitGuard service.
	APIURL string `json:"apiUrl"`

	// APIToken is the bearer credential. Empty means unauthenticated.
	APIToken string `json:"apiToken,omitempty"`

	// Email is the account identity associated with the token.
	Email string `json:"email,omitempty"`

	// Subscription is the entitlement tier, set by login or profile refresh.
	Subscription Tier `json:"subscription,omitempty"`

	// Preferences are the account's default scan feature toggles.
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Authenticated reports whether the record carries a token.
func (r *Record) Authenticated() bool {
	return r.APIToken != ""
}
