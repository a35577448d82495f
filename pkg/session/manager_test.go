package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vendraerrors "github.com/vendra/vendra/pkg/errors"
	"github.com/vendra/vendra/pkg/rpc"
)

// stubServer emulates the remote JSON-RPC endpoint for sign-in flows.
type stubServer struct {
	databases []string
	uid       int64
	user      string
	password  string
	profile   map[string]any

	authCalls int
	listCalls int
}

func (s *stubServer) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch {
		case req.Params.Service == rpc.ServiceCommon && req.Params.Method == "list":
			s.listCalls++
			result = s.databases
		case req.Params.Service == rpc.ServiceCommon && req.Params.Method == "authenticate":
			s.authCalls++
			if req.Params.Args[1] == s.user && req.Params.Args[2] == s.password {
				result = s.uid
			} else {
				result = false
			}
		case req.Params.Service == rpc.ServiceObject:
			model := req.Params.Args[3]
			require.Equal(t, "res.users", model)
			if s.profile != nil {
				result = []any{s.profile}
			} else {
				result = []any{}
			}
		default:
			t.Fatalf("unexpected call %s.%s", req.Params.Service, req.Params.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}))
	})
}

func newTestManager(t *testing.T, stub *stubServer) (*Manager, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)
	return NewManager(WithHTTPClient(server.Client())), server
}

func TestManager_SignIn_ExplicitDatabase(t *testing.T) {
	t.Parallel()

	stub := &stubServer{
		databases: []string{"acme", "other"},
		uid:       7,
		user:      "admin",
		password:  "secret",
		profile: map[string]any{
			"id":         7,
			"name":       "Administrator",
			"email":      "admin@acme.example",
			"partner_id": []any{3, "Administrator"},
			"company_id": []any{1, "Acme"},
		},
	}
	mgr, server := newTestManager(t, stub)

	sess, err := mgr.SignIn(context.Background(), server.URL, "admin", "secret", "acme")
	require.NoError(t, err)

	assert.Equal(t, "acme", sess.Database)
	assert.Equal(t, int64(7), sess.UID)
	assert.Equal(t, "admin", sess.Username)
	assert.Equal(t, "secret", sess.Password())
	assert.Equal(t, "Administrator", sess.User.Name)
	assert.Equal(t, "admin@acme.example", sess.User.Email)
	assert.Equal(t, int64(3), sess.User.PartnerID)
	assert.Equal(t, int64(1), sess.User.CompanyID)

	assert.Equal(t, StateAuthenticated, mgr.State())
	assert.Same(t, sess, mgr.Current())
	// explicit database: no discovery call
	assert.Zero(t, stub.listCalls)
}

func TestManager_SignIn_DatabaseFromURLBeatsDiscovery(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"lonely"}, uid: 2, user: "u", password: "p"}
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)
	mgr := NewManager(WithHTTPClient(server.Client()))

	// The fragment names the database, so discovery must not run.
	sess, err := mgr.SignIn(context.Background(), server.URL+"/web#db=embedded", "u", "p", "")
	require.NoError(t, err)
	assert.Equal(t, "embedded", sess.Database)
	assert.Zero(t, stub.listCalls)
}

func TestManager_SignIn_SingleDatabaseDiscovery(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"lonely"}, uid: 2, user: "u", password: "p"}
	mgr, server := newTestManager(t, stub)

	sess, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "")
	require.NoError(t, err)
	assert.Equal(t, "lonely", sess.Database)
	assert.Equal(t, 1, stub.listCalls)
}

func TestManager_SignIn_MultipleDatabasesRequireChoice(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"a", "b"}, uid: 2, user: "u", password: "p"}
	mgr, server := newTestManager(t, stub)

	_, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "")
	require.Error(t, err)
	assert.True(t, vendraerrors.IsDatabaseRequired(err))
	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Zero(t, stub.authCalls)
}

func TestManager_SignIn_BadCredentials(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"acme"}, uid: 2, user: "u", password: "right"}
	mgr, server := newTestManager(t, stub)

	_, err := mgr.SignIn(context.Background(), server.URL, "u", "wrong", "acme")
	require.Error(t, err)
	assert.True(t, vendraerrors.IsAuthenticationFailed(err))
	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Nil(t, mgr.Current())
}

func TestManager_SignIn_ValidatesInput(t *testing.T) {
	t.Parallel()

	mgr := NewManager()

	_, err := mgr.SignIn(context.Background(), "my.co", "  ", "pw", "")
	assert.True(t, vendraerrors.IsInvalidArgument(err))

	_, err = mgr.SignIn(context.Background(), "my.co", "user", "", "")
	assert.True(t, vendraerrors.IsInvalidArgument(err))

	_, err = mgr.SignIn(context.Background(), "  ", "user", "pw", "")
	assert.True(t, vendraerrors.IsInvalidAddress(err))
}

func TestManager_SignIn_ProfileFallsBackToUsername(t *testing.T) {
	t.Parallel()

	stub := &stubServer{
		databases: []string{"acme"},
		uid:       5,
		user:      "jane@work.example",
		password:  "pw",
		profile: map[string]any{
			"id":    5,
			"name":  false,
			"email": false,
		},
	}
	mgr, server := newTestManager(t, stub)

	sess, err := mgr.SignIn(context.Background(), server.URL, "jane@work.example", "pw", "acme")
	require.NoError(t, err)
	assert.Equal(t, "jane@work.example", sess.User.Name)
	assert.Equal(t, "jane@work.example", sess.User.Email)
}

func TestManager_FailedReSignInDestroysPriorSession(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"acme"}, uid: 2, user: "u", password: "p"}
	mgr, server := newTestManager(t, stub)

	_, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)
	require.NotNil(t, mgr.Current())

	_, err = mgr.SignIn(context.Background(), server.URL, "u", "wrong", "acme")
	require.Error(t, err)
	assert.Nil(t, mgr.Current())
	assert.Equal(t, StateUnauthenticated, mgr.State())
}

func TestManager_SignOut(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"acme"}, uid: 2, user: "u", password: "p"}
	mgr, server := newTestManager(t, stub)

	// Idempotent with no session.
	mgr.SignOut()
	assert.Equal(t, StateUnauthenticated, mgr.State())

	_, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)

	mgr.SignOut()
	assert.Nil(t, mgr.Current())
	assert.Equal(t, StateUnauthenticated, mgr.State())

	_, _, err = mgr.Connection()
	assert.True(t, vendraerrors.IsNotAuthenticated(err))
}

func TestManager_Connection(t *testing.T) {
	t.Parallel()

	mgr := NewManager()
	_, _, err := mgr.Connection()
	require.Error(t, err)
	assert.True(t, vendraerrors.IsNotAuthenticated(err))

	stub := &stubServer{databases: []string{"acme"}, uid: 2, user: "u", password: "p"}
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	mgr = NewManager(WithHTTPClient(server.Client()))
	sess, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)

	gotSess, client, err := mgr.Connection()
	require.NoError(t, err)
	assert.Same(t, sess, gotSess)
	assert.NotNil(t, client)
}

func TestManager_ObserveRemoteError(t *testing.T) {
	t.Parallel()

	stub := &stubServer{databases: []string{"acme"}, uid: 2, user: "u", password: "p"}
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)

	remoteErr := vendraerrors.NewRemoteError("boom", nil)

	// Default: remote errors do not sign the user out.
	mgr := NewManager(WithHTTPClient(server.Client()))
	_, err := mgr.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)
	mgr.ObserveRemoteError(remoteErr)
	assert.Equal(t, StateAuthenticated, mgr.State())

	// Legacy preset: any remote error invalidates the session.
	legacy := NewManager(WithHTTPClient(server.Client()), WithInvalidateOnRemoteError(true))
	_, err = legacy.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)
	legacy.ObserveRemoteError(remoteErr)
	assert.Equal(t, StateUnauthenticated, legacy.State())

	// Non-remote errors never invalidate.
	legacy2 := NewManager(WithHTTPClient(server.Client()), WithInvalidateOnRemoteError(true))
	_, err = legacy2.SignIn(context.Background(), server.URL, "u", "p", "acme")
	require.NoError(t, err)
	legacy2.ObserveRemoteError(vendraerrors.NewInvalidArgumentError("bad id", nil))
	assert.Equal(t, StateAuthenticated, legacy2.State())
}

func TestManager_SignOutDropsBuiltTransport(t *testing.T) {
	t.Parallel()

	m := NewManager()

	first, err := m.transport()
	require.NoError(t, err)
	require.NotNil(t, first)

	cached, err := m.transport()
	require.NoError(t, err)
	assert.Same(t, first, cached)

	m.SignOut()

	rebuilt, err := m.transport()
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt, "sign-out should drop the cached transport")
}

func TestManager_SignOutKeepsInjectedTransport(t *testing.T) {
	t.Parallel()

	injected := &http.Client{}
	m := NewManager(WithHTTPClient(injected))

	m.SignOut()

	got, err := m.transport()
	require.NoError(t, err)
	assert.Same(t, injected, got, "an injected transport is configuration, not session state")
}
