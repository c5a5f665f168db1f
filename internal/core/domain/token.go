package domain

// TokenPair holds the access and refresh tokens issued at login.
// The access token authenticates API calls; the refresh token is used
// only against the refresh endpoint when the access token is rejected.
type TokenPair struct {
	Access  string `toml:"access" json:"access"`
	Refresh string `toml:"refresh" json:"refresh"`
}

// UserProfile is the profile returned at login and cached with the
// session. It is display data; authorization is always server-side.
type UserProfile struct {
	UserID   string `toml:"user_id" json:"user_id"`
	Email    string `toml:"email" json:"email"`
	FullName string `toml:"full_name" json:"full_name,omitempty"`
}

// Session is the persisted authentication state: the token pair plus the
// cached profile. Document and version state is never persisted; it is
// re-fetched on every command.
type Session struct {
	Tokens TokenPair   `toml:"tokens" json:"tokens"`
	User   UserProfile `toml:"user" json:"user"`
}
