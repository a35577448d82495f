// Package session owns the authenticated connection to an ERP server: sign-in
// with address normalization and database resolution, the active session's
// credentials and profile, and sign-out.
package session

// Profile is the authenticated user record, derived once at sign-in and
// read-only afterward.
type Profile struct {
	ID        int64
	Name      string
	Email     string
	PartnerID int64
	CompanyID int64
}

// Session is an authenticated connection to one server and database. All
// fields are immutable for the session's lifetime; re-signing-in replaces the
// whole session. It is never persisted.
type Session struct {
	// ServerURL is the normalized absolute server URL.
	ServerURL string

	// Database is the resolved target database.
	Database string

	// Username is the login the user submitted.
	Username string

	// UID is the authenticated remote user id.
	UID int64

	// User is the authenticated user's profile.
	User Profile

	// password is held in memory only and deliberately unexported so it can
	// never leak through serialization.
	password string
}

// Password returns the credential the session authenticated with. Every
// object-service call must carry it.
func (s *Session) Password() string {
	return s.password
}

// State is the session manager's authentication state.
type State int

// Session manager states.
const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}
