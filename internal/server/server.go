// Package server runs the MCP request loop: newline-delimited JSON-RPC
// 2.0 over a reader/writer pair, routed to the documentation catalog and
// the tool dispatcher.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"finlab-mcp/internal/docs"
	"finlab-mcp/internal/protocol"
	"finlab-mcp/internal/tools"
)

// Name identifies this server in the initialize handshake.
const Name = "finlab-mcp-server"

// Version is the server implementation version.
const Version = "0.1.0"

// Server owns the immutable collaborators built once at startup. There is
// no package-level state; everything the router needs is carried here.
type Server struct {
	catalog    *docs.Catalog
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	logger     zerolog.Logger
}

// New assembles a Server from its collaborators.
func New(catalog *docs.Catalog, registry *tools.Registry, dispatcher *tools.Dispatcher, logger zerolog.Logger) *Server {
	return &Server{
		catalog:    catalog,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Serve reads requests from r one line at a time and writes responses to
// w, until r is exhausted or ctx is cancelled. Requests are handled
// sequentially; there is no shared mutable state to contend on.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.HandleLine(ctx, line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// HandleLine parses one raw message and routes it. A nil return means no
// response is owed (notifications).
func (s *Server) HandleLine(ctx context.Context, line []byte) *protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable request")
		return protocol.NewErrorResponse(nil, protocol.CodeParseError, "parse error: "+err.Error())
	}
	return s.Handle(ctx, &req)
}

// Handle routes a parsed request. Resource faults become JSON-RPC errors;
// tool faults never do — they come back inside the tool result envelope.
func (s *Server) Handle(ctx context.Context, req *protocol.Request) *protocol.Response {
	s.logger.Debug().Str("method", req.Method).Msg("request")

	if req.IsNotification() {
		// Notifications are acknowledged by silence, including ones we
		// do not recognize.
		return nil
	}

	switch req.Method {
	case "initialize":
		return protocol.NewResponse(req.ID, protocol.InitializeResult{
			ProtocolVersion: protocol.ProtocolVersion,
			Capabilities: protocol.ServerCapabilities{
				Resources: &protocol.ResourcesCapability{},
				Tools:     &protocol.ToolsCapability{},
			},
			ServerInfo: protocol.ServerInfo{Name: Name, Version: Version},
		})

	case "ping":
		return protocol.NewResponse(req.ID, struct{}{})

	case "resources/list":
		return protocol.NewResponse(req.ID, protocol.ListResourcesResult{
			Resources: s.catalog.List(),
		})

	case "resources/read":
		return s.readResource(req)

	case "tools/list":
		return protocol.NewResponse(req.ID, protocol.ListToolsResult{
			Tools: s.registry.Descriptors(),
		})

	case "tools/call":
		return s.callTool(ctx, req)

	default:
		return protocol.NewErrorResponse(req.ID, protocol.CodeMethodNotFound,
			"method not found: "+req.Method)
	}
}

func (s *Server) readResource(req *protocol.Request) *protocol.Response {
	var params protocol.ReadResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.URI == "" {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams,
			"resources/read requires a uri parameter")
	}

	content, err := s.catalog.Read(params.URI)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, resourceErrorCode(err), err.Error())
	}

	return protocol.NewResponse(req.ID, protocol.ReadResourceResult{
		Contents: []protocol.ResourceContents{{
			URI:      params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		}},
	})
}

func (s *Server) callTool(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams,
			"tools/call requires a name parameter")
	}
	result := s.dispatcher.Invoke(ctx, params.Name, params.Arguments)
	return protocol.NewResponse(req.ID, result)
}

// resourceErrorCode maps documentation-layer faults onto JSON-RPC codes.
func resourceErrorCode(err error) int {
	switch {
	case errors.Is(err, docs.ErrNotFound), errors.Is(err, docs.ErrCatalogMissing):
		return protocol.CodeResourceNotFound
	case errors.Is(err, docs.ErrInvalidName),
		errors.Is(err, docs.ErrAccessDenied),
		errors.Is(err, docs.ErrNotAFile),
		errors.Is(err, docs.ErrAmbiguousName),
		errors.Is(err, docs.ErrUnknownScheme):
		return protocol.CodeInvalidParams
	default:
		return protocol.CodeInternalError
	}
}
