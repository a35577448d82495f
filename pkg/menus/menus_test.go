package menus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/rpc"
	"github.com/vendra/vendra/pkg/session"
)

func TestList(t *testing.T) {
	t.Parallel()

	var kwargs map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch req.Params.Service {
		case rpc.ServiceCommon:
			result = float64(7)
		case rpc.ServiceObject:
			model, _ := req.Params.Args[3].(string)
			if model == "res.users" {
				result = []any{map[string]any{"id": 7, "name": "Tester"}}
				break
			}
			require.Equal(t, Model, model)
			require.Equal(t, "search_read", req.Params.Args[4])
			kwargs, _ = req.Params.Args[6].(map[string]any)
			result = []any{
				map[string]any{"id": 2, "name": "Sales", "icon": false, "action": "ir.actions.act_window,5", "sequence": 10, "parent_id": false},
				map[string]any{"id": 9, "name": "Orders", "icon": "fa-cart", "action": false, "sequence": 20, "parent_id": []any{2, "Sales"}},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}))
	}))
	t.Cleanup(server.Close)

	mgr := session.NewManager(session.WithHTTPClient(server.Client()))
	_, err := mgr.SignIn(context.Background(), server.URL, "user", "pw", "acme")
	require.NoError(t, err)

	menus, err := NewService(gateway.New(mgr)).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sequence", kwargs["order"])
	require.Len(t, menus, 2)

	assert.Equal(t, Menu{ID: 2, Name: "Sales", Action: "ir.actions.act_window,5", Sequence: 10}, menus[0])
	assert.Equal(t, Menu{ID: 9, Name: "Orders", Icon: "fa-cart", Sequence: 20, ParentID: 2, Parent: "Sales"}, menus[1])
}

func TestList_RequiresSession(t *testing.T) {
	t.Parallel()

	svc := NewService(gateway.New(session.NewManager()))
	_, err := svc.List(context.Background())
	require.Error(t, err)
}

func TestFromRecord_ParentField(t *testing.T) {
	t.Parallel()

	withParent := FromRecord(rpc.Record{"id": float64(9), "name": "Orders", "parent_id": []any{float64(2), "Sales"}})
	assert.Equal(t, int64(2), withParent.ParentID)
	assert.Equal(t, "Sales", withParent.Parent)

	// Root menus carry the unset sentinel instead of a pair.
	root := FromRecord(rpc.Record{"id": float64(2), "name": "Sales", "parent_id": false})
	assert.Zero(t, root.ParentID)
	assert.Empty(t, root.Parent)
}
