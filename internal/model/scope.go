package model

// Scope identifies the caller a request acts on behalf of.
// The gateway trusts the user_id supplied by the local UI; there is no
// authentication layer in the local deployment.
type Scope struct {
	UserID string `json:"user_id"`
}
