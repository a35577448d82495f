package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vendra/vendra/pkg/errors"
	"github.com/vendra/vendra/pkg/logger"
	"github.com/vendra/vendra/pkg/networking"
	"github.com/vendra/vendra/pkg/rpc"
)

// profileFields are read from the user model right after authenticating.
var profileFields = []string{"name", "email", "login", "partner_id", "company_id"}

// Manager is the single source of truth for "who is logged in, to where". It
// holds at most one session and the transport bound to it. The manager is not
// safe for concurrent sign-in; callers must serialize sign-in attempts.
type Manager struct {
	httpClient networking.HTTPClient
	caCertPath string
	allowHTTP  bool

	// builtClient caches the default transport built on first use. It is
	// dropped on sign-out; an injected httpClient is kept as configuration.
	builtClient networking.HTTPClient

	// invalidateOnRemoteError reproduces the legacy fixed-account behavior
	// where any object-service error drops the session so the next call
	// re-authenticates.
	invalidateOnRemoteError bool

	state   State
	session *Session
	client  *rpc.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the transport used for every call. Intended for tests
// and for callers that need custom TLS setup beyond WithCABundle.
func WithHTTPClient(client networking.HTTPClient) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithCABundle sets a CA certificate bundle for self-hosted servers.
func WithCABundle(path string) Option {
	return func(m *Manager) {
		m.caCertPath = path
	}
}

// WithHTTPAllowed permits plain http server addresses.
func WithHTTPAllowed(allow bool) Option {
	return func(m *Manager) {
		m.allowHTTP = allow
	}
}

// WithInvalidateOnRemoteError makes any remote error observed on an
// authenticated call invalidate the session, forcing re-authentication on
// the next sign-in. Off by default.
func WithInvalidateOnRemoteError(invalidate bool) Option {
	return func(m *Manager) {
		m.invalidateOnRemoteError = invalidate
	}
}

// NewManager creates a session manager in the unauthenticated state.
func NewManager(opts ...Option) *Manager {
	m := &Manager{state: StateUnauthenticated}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn authenticates against the given server and stores the resulting
// session, replacing any prior one. A failure at any step destroys the prior
// session and leaves the manager unauthenticated.
func (m *Manager) SignIn(ctx context.Context, serverURL, username, password, database string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewInvalidArgumentError("username is required", nil)
	}
	if password == "" {
		return nil, errors.NewInvalidArgumentError("password is required", nil)
	}

	normalized, err := NormalizeServerURL(serverURL)
	if err != nil {
		return nil, err
	}

	// Entering the authenticating state destroys the prior session; it is
	// only replaced on success.
	m.state = StateAuthenticating
	m.session = nil
	m.client = nil

	session, client, err := m.authenticate(ctx, serverURL, normalized, username, password, database)
	if err != nil {
		m.state = StateUnauthenticated
		return nil, err
	}

	m.session = session
	m.client = client
	m.state = StateAuthenticated
	logger.Infow("signed in", "server", session.ServerURL, "database", session.Database, "uid", session.UID)
	return session, nil
}

func (m *Manager) authenticate(
	ctx context.Context,
	rawURL, normalized, username, password, database string,
) (*Session, *rpc.Client, error) {
	httpClient, err := m.transport()
	if err != nil {
		return nil, nil, err
	}
	client := rpc.NewClient(normalized, httpClient)

	db, err := resolveDatabase(ctx, client, rawURL, database)
	if err != nil {
		return nil, nil, err
	}

	uid, err := authenticateUser(ctx, client, db, username, password)
	if err != nil {
		return nil, nil, err
	}

	profile, err := fetchProfile(ctx, client, db, uid, password, username)
	if err != nil {
		return nil, nil, err
	}

	return &Session{
		ServerURL: normalized,
		Database:  db,
		Username:  username,
		UID:       uid,
		User:      profile,
		password:  password,
	}, client, nil
}

// SignOut clears the active session and the transport bound to it. Calling
// it with no active session is a no-op.
func (m *Manager) SignOut() {
	if m.session != nil {
		logger.Infow("signed out", "server", m.session.ServerURL, "database", m.session.Database)
	}
	m.session = nil
	m.client = nil
	m.builtClient = nil
	m.state = StateUnauthenticated
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	return m.session
}

// State returns the manager's authentication state.
func (m *Manager) State() State {
	return m.state
}

// Connection returns the active session and its transport. Request-issuing
// operations must obtain both here so they always carry the current
// credentials.
func (m *Manager) Connection() (*Session, *rpc.Client, error) {
	if m.session == nil || m.client == nil {
		return nil, nil, errors.NewNotAuthenticatedError("no active session; sign in first", nil)
	}
	return m.session, m.client, nil
}

// ObserveRemoteError gives the manager a chance to react to a failure from an
// authenticated call. Only remote errors are considered, and only when
// WithInvalidateOnRemoteError is set.
func (m *Manager) ObserveRemoteError(err error) {
	if err == nil || !m.invalidateOnRemoteError {
		return
	}
	if errors.IsRemote(err) {
		logger.Warnw("remote error invalidated session", "error", err.Error())
		m.SignOut()
	}
}

// transport returns the configured HTTP client, building and caching the
// default one on first use.
func (m *Manager) transport() (networking.HTTPClient, error) {
	if m.httpClient != nil {
		return m.httpClient, nil
	}
	if m.builtClient != nil {
		return m.builtClient, nil
	}
	client, err := networking.NewHttpClientBuilder().
		WithCABundle(m.caCertPath).
		WithHTTPAllowed(m.allowHTTP).
		Build()
	if err != nil {
		return nil, err
	}
	m.builtClient = client
	return client, nil
}

// resolveDatabase picks the target database: an explicit name wins, then a
// name embedded in the original address, then remote discovery — but only
// when the server reports exactly one database.
func resolveDatabase(ctx context.Context, client *rpc.Client, rawURL, explicit string) (string, error) {
	if db := strings.TrimSpace(explicit); db != "" {
		return db, nil
	}
	if db := InferDatabaseFromURL(rawURL); db != "" {
		logger.Debugw("database inferred from address", "database", db)
		return db, nil
	}

	databases, err := listDatabases(ctx, client)
	if err != nil {
		return "", errors.NewDatabaseRequiredError("could not list databases; specify one explicitly", err)
	}
	if len(databases) == 1 {
		logger.Debugw("single database discovered", "database", databases[0])
		return databases[0], nil
	}
	return "", errors.NewDatabaseRequiredError(
		fmt.Sprintf("server has %d databases; specify one explicitly", len(databases)), nil)
}

func listDatabases(ctx context.Context, client *rpc.Client) ([]string, error) {
	raw, err := client.Call(ctx, rpc.ServiceCommon, "list", []any{})
	if err != nil {
		return nil, err
	}
	var databases []string
	if err := json.Unmarshal(raw, &databases); err != nil {
		return nil, fmt.Errorf("unexpected database list payload: %w", err)
	}
	return databases, nil
}

// authenticateUser submits the credentials and validates that the server
// returned a positive integer uid. Anything else — false, a string, a
// fraction — means the credentials were rejected.
func authenticateUser(ctx context.Context, client *rpc.Client, db, username, password string) (int64, error) {
	raw, err := client.Call(ctx, rpc.ServiceCommon, "authenticate", []any{db, username, password, map[string]any{}})
	if err != nil {
		return 0, err
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, errors.NewAuthenticationFailedError("malformed authenticate response", err)
	}
	uid, ok := result.(float64)
	if !ok || uid != float64(int64(uid)) || uid <= 0 {
		return 0, errors.NewAuthenticationFailedError("invalid credentials", nil)
	}
	return int64(uid), nil
}

// fetchProfile reads the authenticating user's record. Blank name and email
// fall back to the submitted username.
func fetchProfile(ctx context.Context, client *rpc.Client, db string, uid int64, password, username string) (Profile, error) {
	raw, err := client.Call(ctx, rpc.ServiceObject, rpc.MethodExecuteKw, []any{
		db, uid, password,
		"res.users", "read",
		[]any{[]any{uid}, profileFields},
		map[string]any{},
	})
	if err != nil {
		return Profile{}, err
	}

	records := rpc.DecodeRecords(raw)
	profile := Profile{ID: uid, Name: username, Email: username}
	if len(records) == 0 {
		return profile, nil
	}

	rec := records[0]
	if name := strings.TrimSpace(rec.String("name")); name != "" {
		profile.Name = name
	}
	if email := strings.TrimSpace(rec.String("email")); email != "" {
		profile.Email = email
	} else if login := strings.TrimSpace(rec.String("login")); login != "" {
		profile.Email = login
	}
	if id, _, ok := rec.Many2One("partner_id"); ok {
		profile.PartnerID = id
	}
	if id, _, ok := rec.Many2One("company_id"); ok {
		profile.CompanyID = id
	}
	return profile, nil
}
