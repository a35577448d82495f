// Package gateway translates typed operations into authenticated execute_kw
// envelopes and unwraps their results. Every call carries the active
// session's database, uid, and password; without a session every operation
// fails with a not authenticated error.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vendra/vendra/pkg/errors"
	"github.com/vendra/vendra/pkg/rpc"
	"github.com/vendra/vendra/pkg/session"
)

// DefaultLang is the locale context injected into every query unless the
// caller overrides it.
const DefaultLang = "en_US"

// Gateway issues model operations over the session manager's connection.
type Gateway struct {
	manager *session.Manager
	lang    string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLang overrides the default locale context.
func WithLang(lang string) Option {
	return func(g *Gateway) {
		g.lang = lang
	}
}

// New creates a gateway bound to the session manager.
func New(manager *session.Manager, opts ...Option) *Gateway {
	g := &Gateway{manager: manager, lang: DefaultLang}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// QueryOptions tune a SearchRead call.
type QueryOptions struct {
	// Limit caps the number of returned records; zero means no limit.
	Limit int

	// Offset skips that many records.
	Offset int

	// Order is the remote sort specification, e.g. "write_date desc".
	Order string

	// Context entries are merged over the default locale context.
	Context map[string]any
}

// ExecuteKw invokes model.method with the given positional args and keyword
// args using the active session's credentials.
func (g *Gateway) ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	sess, client, err := g.manager.Connection()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	result, err := client.Call(ctx, rpc.ServiceObject, rpc.MethodExecuteKw, []any{
		sess.Database, sess.UID, sess.Password(),
		model, method, args, kwargs,
	})
	if err != nil {
		g.manager.ObserveRemoteError(err)
		return nil, err
	}
	return result, nil
}

// SearchRead queries records matching the domain and returns the requested
// fields. The default locale context is always injected and can be
// overridden per call. A remote result that is not a list yields an empty
// slice, never an error.
func (g *Gateway) SearchRead(ctx context.Context, model string, domain Domain, fields []string, opts *QueryOptions) ([]rpc.Record, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}

	kwargs := map[string]any{
		"fields":  fields,
		"context": g.callContext(opts.Context),
	}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		kwargs["offset"] = opts.Offset
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	raw, err := g.ExecuteKw(ctx, model, "search_read", []any{domain.Slice()}, kwargs)
	if err != nil {
		return nil, err
	}
	return rpc.DecodeRecords(raw), nil
}

// ReadOne reads a single record by id, returning nil when the remote
// sequence is empty.
func (g *Gateway) ReadOne(ctx context.Context, model string, id int64, fields []string) (rpc.Record, error) {
	if id <= 0 {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("invalid record id %d", id), nil)
	}

	raw, err := g.ExecuteKw(ctx, model, "read", []any{[]any{id}, fields}, nil)
	if err != nil {
		return nil, err
	}
	records := rpc.DecodeRecords(raw)
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Write updates the given records. The returned boolean is whatever the
// remote side reports; false means the update was rejected or ignored, which
// is not an error.
func (g *Gateway) Write(ctx context.Context, model string, ids []int64, values map[string]any, callCtx map[string]any) (bool, error) {
	if len(ids) == 0 {
		return false, errors.NewInvalidArgumentError("write requires at least one record id", nil)
	}

	kwargs := map[string]any{}
	if callCtx != nil {
		kwargs["context"] = callCtx
	}

	raw, err := g.ExecuteKw(ctx, model, "write", []any{toAnyIDs(ids), values}, kwargs)
	if err != nil {
		return false, err
	}
	return decodeBool(raw), nil
}

// Unlink deletes the given records. It requires at least one positive id and
// fails before making any call otherwise.
func (g *Gateway) Unlink(ctx context.Context, model string, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, errors.NewInvalidArgumentError("unlink requires at least one record id", nil)
	}
	for _, id := range ids {
		if id <= 0 {
			return false, errors.NewInvalidArgumentError(fmt.Sprintf("invalid record id %d", id), nil)
		}
	}

	raw, err := g.ExecuteKw(ctx, model, "unlink", []any{toAnyIDs(ids)}, nil)
	if err != nil {
		return false, err
	}
	return decodeBool(raw), nil
}

// callContext merges per-call context entries over the default locale.
func (g *Gateway) callContext(overrides map[string]any) map[string]any {
	merged := map[string]any{"lang": g.lang}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func toAnyIDs(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func decodeBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		// A non-boolean success payload still means the call went through.
		return true
	}
	return b
}
