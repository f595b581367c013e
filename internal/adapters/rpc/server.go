// Package rpc implements the line-oriented JSON-RPC loop over stdin/stdout:
// one request per line, one response per line, no pipelining.
package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"nadlan_mcp/internal/adapters/observability"
	"nadlan_mcp/internal/app"
	"nadlan_mcp/internal/domain"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "Madlan_MCP"
	serverVersion   = "4.3.0"
	toolName        = "Madlan_MCP"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server reads requests one line at a time and answers each before reading
// the next. All shared state behind it is read-only, so no locking.
type Server struct {
	svc     *app.Service
	in      io.Reader
	out     io.Writer
	limiter *rate.Limiter
}

// New builds a server over the given streams. rps bounds how fast tools/call
// work may be admitted; values <= 0 fall back to 5.
func New(svc *app.Service, in io.Reader, out io.Writer, rps int) *Server {
	if rps <= 0 {
		rps = 5
	}
	return &Server{
		svc:     svc,
		in:      in,
		out:     out,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Run is the read-eval-respond cycle. A malformed line yields a parse-error
// response and the loop keeps going; it only returns on EOF or a read error.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	w := bufio.NewWriter(s.out)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		start := time.Now()

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			observability.ObserveRPC("parse", "error", time.Since(start))
			log.Debug().Err(err).Msg("unparseable request line")
			s.write(w, errorResponse(nil, codeParseError, "Parse error: "+err.Error()))
			continue
		}

		resp := s.handle(ctx, &req)
		if resp == nil {
			// Lifecycle notification: explicitly no reply.
			observability.ObserveRPC(req.Method, "suppressed", time.Since(start))
			continue
		}
		status := "ok"
		if resp.Error != nil {
			status = "error"
		}
		observability.ObserveRPC(req.Method, status, time.Since(start))
		s.write(w, resp)
	}
	return scanner.Err()
}

// handle routes one request. Panics while computing are mapped to an internal
// error with the original id preserved; the loop never dies on a bad request.
func (s *Server) handle(ctx context.Context, req *request) (resp *response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("method", req.Method).Interface("panic", r).Msg("request handling panicked")
			resp = errorResponse(req.ID, codeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": serverName, "version": serverVersion},
		})

	case "notifications/initialized":
		return nil

	case "tools/list":
		return resultResponse(req.ID, toolsListResult())

	case "tools/call":
		return s.handleToolCall(ctx, req)

	default:
		return errorResponse(req.ID, codeMethodNotFound, "Unknown method: "+req.Method)
	}
}

func (s *Server) handleToolCall(ctx context.Context, req *request) *response {
	var p struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params: "+err.Error())
	}
	if p.Name != toolName {
		return errorResponse(req.ID, codeMethodNotFound, "Unknown tool: "+p.Name)
	}

	var args domain.SearchRequest
	if len(p.Arguments) > 0 {
		if err := json.Unmarshal(p.Arguments, &args); err != nil {
			return errorResponse(req.ID, codeInvalidParams, "Invalid arguments: "+err.Error())
		}
	}

	// Smooths pathological call bursts; a bounded wait, never a refusal.
	if err := s.limiter.Wait(ctx); err != nil {
		return errorResponse(req.ID, codeInternalError, "Internal error: "+err.Error())
	}

	out, err := s.svc.Call(ctx, args)
	if err != nil {
		log.Error().Err(err).Msg("search call failed")
		return errorResponse(req.ID, codeInternalError, "Internal error: "+err.Error())
	}
	observability.ObserveToolCall(out.Mode)

	return resultResponse(req.ID, map[string]any{
		"content": []map[string]any{{"type": "text", "text": out.Text}},
	})
}

func (s *Server) write(w *bufio.Writer, resp *response) {
	b, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("response marshal failed")
		return
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		log.Error().Err(err).Msg("response write failed")
		return
	}
	if err := w.Flush(); err != nil {
		log.Error().Err(err).Msg("response flush failed")
	}
}

func resultResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

// errorResponse builds an error reply; a nil id marshals as JSON null, which
// is what an unparseable request gets.
func errorResponse(id json.RawMessage, code int, msg string) *response {
	return &response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}
