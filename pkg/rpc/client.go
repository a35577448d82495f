// Package rpc implements the JSON-RPC 2.0 transport used to talk to an
// Odoo-style ERP server. Every call is a single HTTPS POST to the server's
// /jsonrpc endpoint; there is no retry, queueing, or connection state.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/vendra/vendra/pkg/errors"
	"github.com/vendra/vendra/pkg/logger"
	"github.com/vendra/vendra/pkg/networking"
)

const (
	// ServiceCommon is the unauthenticated service (authenticate, list).
	ServiceCommon = "common"

	// ServiceObject is the authenticated generic model service (execute_kw).
	ServiceObject = "object"

	// MethodExecuteKw is the generic model method invocation on ServiceObject.
	MethodExecuteKw = "execute_kw"

	// rpcPath is the fixed JSON-RPC endpoint path relative to the server URL.
	rpcPath = "/jsonrpc"
)

// Request is the JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int64  `json:"id"`
	Params  Params `json:"params"`
}

// Params addresses a service method with positional args.
type Params struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// Response is the JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError is the server-reported error object.
type ResponseError struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// ErrorData carries the nested server-side error detail.
type ErrorData struct {
	Name    string `json:"name,omitempty"`
	Debug   string `json:"debug,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text assembles the human-readable error message from the top-level message
// and the nested data message and debug trace, whichever are present.
func (e *ResponseError) Text() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Data != nil {
		if e.Data.Message != "" && e.Data.Message != e.Message {
			parts = append(parts, e.Data.Message)
		}
		if e.Data.Debug != "" {
			parts = append(parts, e.Data.Debug)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("server error (code %d)", e.Code)
	}
	return strings.Join(parts, "\n")
}

// Client issues JSON-RPC calls against a single server endpoint.
// Request identifiers increase monotonically per process.
type Client struct {
	endpoint   string
	httpClient networking.HTTPClient
}

// nextID is shared across clients so every request in the process gets a
// distinct, increasing identifier.
var nextID atomic.Int64

// NewClient creates a client for the given normalized server URL. The
// httpClient is typically built by networking.NewHttpClientBuilder; tests may
// pass any networking.HTTPClient.
func NewClient(serverURL string, httpClient networking.HTTPClient) *Client {
	return &Client{
		endpoint:   strings.TrimRight(serverURL, "/") + rpcPath,
		httpClient: httpClient,
	}
}

// Endpoint returns the resolved /jsonrpc URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call submits a single {service, method, args} envelope and returns the raw
// result. A server-reported error becomes a remote error carrying the
// assembled message; a response with neither error nor result becomes an
// empty response error.
func (c *Client) Call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	req := Request{
		JSONRPC: "2.0",
		Method:  "call",
		ID:      nextID.Add(1),
		Params: Params{
			Service: service,
			Method:  method,
			Args:    args,
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	logger.Debugw("rpc call", "service", service, "method", method, "id", req.ID)

	result, err := networking.FetchJSON[Response](ctx, c.httpClient, c.endpoint,
		networking.WithMethod(http.MethodPost),
		networking.WithHeader("Content-Type", networking.ContentTypeJSON),
		networking.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s.%s request failed: %w", service, method, err)
	}

	resp := result.Data
	if resp.Error != nil {
		return nil, errors.NewRemoteError(resp.Error.Text(), nil)
	}
	if isMissingResult(resp.Result) {
		return nil, errors.NewEmptyResponseError(
			fmt.Sprintf("%s.%s returned neither result nor error", service, method), nil)
	}
	return resp.Result, nil
}

// isMissingResult reports whether the result field was absent or null.
// A JSON false is a legitimate result (Odoo uses it as an unset sentinel
// and as the authenticate failure value), so it does not count as missing.
func isMissingResult(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	return string(bytes.TrimSpace(raw)) == "null"
}
