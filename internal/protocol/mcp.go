package protocol

// MCP message bodies exchanged on top of JSON-RPC. Field names follow the
// MCP wire format (camelCase).

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// InitializeResult answers the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities advertises which MCP features the server implements.
type ServerCapabilities struct {
	Resources *ResourcesCapability `json:"resources,omitempty"`
	Tools     *ToolsCapability     `json:"tools,omitempty"`
}

// ResourcesCapability marks resource support. Subscription and list-change
// notifications are not offered.
type ResourcesCapability struct{}

// ToolsCapability marks tool support.
type ToolsCapability struct{}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Resource describes one entry in resources/list.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult is the resources/list response body.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceParams is the resources/read request body.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one content block of a resources/read response.
type ResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResourceResult is the resources/read response body.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// InputSchema is a JSON Schema object describing a tool's arguments.
type InputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool describes one entry in tools/list.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ListToolsResult is the tools/list response body.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams is the tools/call request body.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Content is a single content block of a tool result. This server only
// ever produces text blocks.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the tools/call response body. Tool failures are
// reported through IsError with a diagnostic text block, never as a
// JSON-RPC error.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps text in a successful single-block tool result.
func TextResult(text string) CallToolResult {
	return CallToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult wraps text in a failed single-block tool result.
func ErrorResult(text string) CallToolResult {
	return CallToolResult{
		Content: []Content{{Type: "text", Text: text}},
		IsError: true,
	}
}
