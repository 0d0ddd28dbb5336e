package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/flowgate/internal/knox"
	"github.com/fyrsmithlabs/flowgate/internal/nifi"
)

// toolFailure is the structured payload returned for failed tool calls.
type toolFailure struct {
	Kind    string `json:"kind"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

func errorKind(err error) nifi.ErrorKind {
	var authErr *knox.AuthError
	if errors.As(err, &authErr) {
		return nifi.KindAuth
	}
	return nifi.KindOf(err)
}

// errReadOnly is returned for write tools while the gateway runs read-only.
// No request reaches NiFi in that case.
func errReadOnly(tool string) error {
	return &nifi.Error{
		Kind: nifi.KindPermission,
		Op:   tool,
		Err:  fmt.Errorf("server is running in read-only mode; set NIFI_READONLY=false to allow modifications"),
	}
}

func errInvalidArg(tool, msg string) error {
	return &nifi.Error{
		Kind:   nifi.KindRemote,
		Op:     tool,
		Status: http.StatusBadRequest,
		Err:    errors.New(msg),
	}
}

func failureResult(err error) *mcp.CallToolResult {
	payload := toolFailure{
		Kind:    string(errorKind(err)),
		Status:  nifi.StatusOf(err),
		Message: err.Error(),
	}
	data, merr := json.Marshal(payload)
	if merr != nil {
		data = []byte(`{"kind":"remote","message":"internal error"}`)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// run executes one tool call with metrics, the read-only guard, error
// mapping and response redaction. Write tools are rejected before any
// request is issued when the gateway is read-only.
func (s *Server) run(ctx context.Context, tool string, write bool, fn func(context.Context) (any, error)) (*mcp.CallToolResult, map[string]any, error) {
	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)
	var toolErr error
	defer func() {
		s.metrics.DecrementActive(ctx, tool)
		s.metrics.RecordInvocation(ctx, tool, time.Since(start), toolErr)
	}()

	if write && s.readonly {
		toolErr = errReadOnly(tool)
		s.logger.Warn("write tool blocked in read-only mode", zap.String("tool", tool))
		return failureResult(toolErr), nil, nil
	}

	v, err := fn(ctx)
	if err != nil {
		toolErr = err
		s.logger.Warn("tool call failed",
			zap.String("tool", tool),
			zap.String("kind", string(errorKind(err))),
			zap.Error(err))
		return failureResult(err), nil, nil
	}

	red := s.redactor.Redact(v)
	out, ok := red.(map[string]any)
	if !ok {
		out = map[string]any{"result": red}
	}
	return nil, out, nil
}
