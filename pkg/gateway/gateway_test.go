package gateway

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
	"github.com/vendra/vendra/pkg/session"
)

// objectCall records one execute_kw invocation seen by the stub server.
type objectCall struct {
	Model  string
	Method string
	Args   []any
	Kwargs map[string]any
}

// stub emulates the remote server: it accepts any credentials and replays
// canned execute_kw results.
type stub struct {
	result      any
	objectCalls []objectCall
}

func (s *stub) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch req.Params.Service {
		case rpc.ServiceCommon:
			result = float64(7) // authenticate
		case rpc.ServiceObject:
			model, _ := req.Params.Args[3].(string)
			method, _ := req.Params.Args[4].(string)
			args, _ := req.Params.Args[5].([]any)
			kwargs, _ := req.Params.Args[6].(map[string]any)

			// Credentials ride on every object call.
			assert.Equal(t, "acme", req.Params.Args[0])
			assert.Equal(t, float64(7), req.Params.Args[1])
			assert.Equal(t, "pw", req.Params.Args[2])

			if model == "res.users" && method == "read" {
				result = []any{map[string]any{"id": 7, "name": "Tester"}}
				break
			}
			s.objectCalls = append(s.objectCalls, objectCall{Model: model, Method: method, Args: args, Kwargs: kwargs})
			result = s.result
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}))
	})
}

func newTestGateway(t *testing.T, s *stub, opts ...Option) *Gateway {
	t.Helper()
	server := httptest.NewServer(s.handler(t))
	t.Cleanup(server.Close)

	mgr := session.NewManager(session.WithHTTPClient(server.Client()))
	_, err := mgr.SignIn(context.Background(), server.URL, "user", "pw", "acme")
	require.NoError(t, err)

	return New(mgr, opts...)
}

func TestGateway_RequiresSession(t *testing.T) {
	t.Parallel()

	g := New(session.NewManager())

	_, err := g.SearchRead(context.Background(), "product.template", nil, []string{"name"}, nil)
	require.Error(t, err)
	assert.True(t, vendraerrors.IsNotAuthenticated(err))

	_, err = g.Write(context.Background(), "product.template", []int64{1}, map[string]any{}, nil)
	assert.True(t, vendraerrors.IsNotAuthenticated(err))
}

func TestGateway_SearchRead_InjectsDefaultLang(t *testing.T) {
	t.Parallel()

	s := &stub{result: []any{map[string]any{"id": 1, "name": "Desk"}}}
	g := newTestGateway(t, s)

	records, err := g.SearchRead(context.Background(), "product.template",
		Domain{}.Add(Condition("sale_ok", "=", true)),
		[]string{"name"},
		&QueryOptions{Limit: 10, Order: "name asc"},
	)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Desk", records[0].String("name"))

	require.Len(t, s.objectCalls, 1)
	call := s.objectCalls[0]
	assert.Equal(t, "search_read", call.Method)
	assert.Equal(t, []any{[]any{"sale_ok", "=", true}}, call.Args[0])

	callCtx, ok := call.Kwargs["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, DefaultLang, callCtx["lang"])
	assert.Equal(t, float64(10), call.Kwargs["limit"])
	assert.Equal(t, "name asc", call.Kwargs["order"])
}

func TestGateway_SearchRead_ContextOverride(t *testing.T) {
	t.Parallel()

	s := &stub{result: []any{}}
	g := newTestGateway(t, s)

	_, err := g.SearchRead(context.Background(), "product.template", nil, []string{"name"},
		&QueryOptions{Context: map[string]any{"lang": "fr_FR"}})
	require.NoError(t, err)

	callCtx := s.objectCalls[0].Kwargs["context"].(map[string]any)
	assert.Equal(t, "fr_FR", callCtx["lang"])
}

func TestGateway_SearchRead_NonListResult(t *testing.T) {
	t.Parallel()

	s := &stub{result: false}
	g := newTestGateway(t, s)

	records, err := g.SearchRead(context.Background(), "product.template", nil, []string{"name"}, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestGateway_ReadOne(t *testing.T) {
	t.Parallel()

	s := &stub{result: []any{map[string]any{"id": 5, "name": "Desk"}}}
	g := newTestGateway(t, s)

	rec, err := g.ReadOne(context.Background(), "product.template", 5, []string{"name"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(5), rec.ID())
}

func TestGateway_ReadOne_Empty(t *testing.T) {
	t.Parallel()

	s := &stub{result: []any{}}
	g := newTestGateway(t, s)

	rec, err := g.ReadOne(context.Background(), "product.template", 5, []string{"name"})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGateway_ReadOne_InvalidID(t *testing.T) {
	t.Parallel()

	s := &stub{}
	g := newTestGateway(t, s)

	_, err := g.ReadOne(context.Background(), "product.template", 0, []string{"name"})
	require.Error(t, err)
	assert.True(t, vendraerrors.IsInvalidArgument(err))
	assert.Empty(t, s.objectCalls)
}

func TestGateway_Write_ReportsRemoteBoolean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result any
		want   bool
	}{
		{"accepted", true, true},
		{"rejected is not an error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &stub{result: tt.result}
			g := newTestGateway(t, s)

			ok, err := g.Write(context.Background(), "product.template", []int64{3},
				map[string]any{"name": "New"}, map[string]any{"lang": false})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)

			call := s.objectCalls[0]
			assert.Equal(t, "write", call.Method)
			assert.Equal(t, []any{float64(3)}, call.Args[0])
			callCtx := call.Kwargs["context"].(map[string]any)
			assert.Equal(t, false, callCtx["lang"])
		})
	}
}

func TestGateway_Unlink_Validation(t *testing.T) {
	t.Parallel()

	s := &stub{result: true}
	g := newTestGateway(t, s)

	_, err := g.Unlink(context.Background(), "product.template", nil)
	assert.True(t, vendraerrors.IsInvalidArgument(err))

	_, err = g.Unlink(context.Background(), "product.template", []int64{-1, 0})
	assert.True(t, vendraerrors.IsInvalidArgument(err))

	// nothing dispatched so far
	assert.Empty(t, s.objectCalls)

	ok, err := g.Unlink(context.Background(), "product.template", []int64{5, 7})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "unlink", s.objectCalls[0].Method)
	assert.Equal(t, []any{float64(5), float64(7)}, s.objectCalls[0].Args[0])
}
