package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"webcompat/internal/bcd"
	"webcompat/internal/output"
	"webcompat/internal/query"
	"webcompat/internal/testutil"
	"webcompat/internal/version"
	"webcompat/internal/webfeatures"
)

func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()

	compat, err := bcd.Decode(testutil.OpenFixture(t, testutil.BCDFixture))
	if err != nil {
		t.Fatalf("Failed to decode BCD fixture: %v", err)
	}
	features, err := webfeatures.Decode(testutil.OpenFixture(t, testutil.WebFeaturesFixture))
	if err != nil {
		t.Fatalf("Failed to decode web-features fixture: %v", err)
	}
	return query.NewEngine(compat, features, nil, nil)
}

// newTestMCPServer creates an MCP server backed by the fixture datasets
func newTestMCPServer(t *testing.T, opts Options) *MCPServer {
	t.Helper()
	return NewMCPServer(version.Version, newTestEngine(t), nil, opts)
}

// sendRequest sends a request and returns the response
func sendRequest(t *testing.T, server *MCPServer, method string, id int, params interface{}) *MCPMessage {
	t.Helper()

	request := MCPMessage{
		Jsonrpc: "2.0",
		Id:      id,
		Method:  method,
		Params:  params,
	}

	requestBytes, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	requestBytes = append(requestBytes, '\n')

	server.SetStdin(bytes.NewReader(requestBytes))
	server.SetStdout(&bytes.Buffer{})

	msg, err := server.readMessage()
	if err != nil && err != io.EOF {
		t.Fatalf("Failed to read message: %v", err)
	}

	return server.handleMessage(msg)
}

// toolResult is a decoded tools/call result.
type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StructuredContent map[string]interface{} `json:"structuredContent"`
	IsError           bool                   `json:"isError"`
}

func (r toolResult) text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// callTool calls a tool and fails the test on a protocol error.
func callTool(t *testing.T, server *MCPServer, name string, args map[string]interface{}) toolResult {
	t.Helper()

	resp := sendRequest(t, server, "tools/call", 1, map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if resp == nil {
		t.Fatal("Response should not be nil")
	}
	if resp.Error != nil {
		t.Fatalf("%s returned error: %d %s", name, resp.Error.Code, resp.Error.Message)
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}
	var result toolResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("Expected one text content item, got %+v", result.Content)
	}
	return result
}

// jsonData decodes the text of a json-format tool result.
func jsonData(t *testing.T, r toolResult) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(r.text()), &data); err != nil {
		t.Fatalf("Result text is not a JSON object: %v\n%s", err, r.text())
	}
	return data
}

func TestMCPServerCreation(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	if len(server.tools) != 10 {
		t.Errorf("len(tools) = %d, want 10", len(server.tools))
	}
	for _, def := range server.Tools() {
		if _, ok := server.tools[def.Name]; !ok {
			t.Errorf("Tool %s is listed but has no handler", def.Name)
		}
	}
	if server.characterLimit != output.DefaultCharacterLimit {
		t.Errorf("characterLimit = %d, want %d", server.characterLimit, output.DefaultCharacterLimit)
	}
}

func TestInitializeMethod(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	resp := sendRequest(t, server, "initialize", 1, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "test-client",
			"version": "1.0.0",
		},
	})
	if resp.Error != nil {
		t.Fatalf("Initialize failed: %s", resp.Error.Message)
	}

	result, ok := resp.Result.(*InitializeResult)
	if !ok {
		t.Fatalf("Result type = %T, want *InitializeResult", resp.Result)
	}
	if result.ProtocolVersion != ProtocolVersion {
		t.Errorf("ProtocolVersion = %q, want %q", result.ProtocolVersion, ProtocolVersion)
	}
	if result.ServerInfo.Name != ServerName {
		t.Errorf("ServerInfo.Name = %q, want %q", result.ServerInfo.Name, ServerName)
	}
	if result.ServerInfo.Version != version.Version {
		t.Errorf("ServerInfo.Version = %q, want %q", result.ServerInfo.Version, version.Version)
	}
	if result.Capabilities.Tools == nil || result.Capabilities.Resources == nil {
		t.Error("Tools and resources capabilities should be advertised")
	}
}

func TestPingMethod(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	resp := sendRequest(t, server, "ping", 7, nil)
	if resp.Error != nil {
		t.Fatalf("ping failed: %s", resp.Error.Message)
	}
	if resp.Id != float64(7) {
		t.Errorf("Id = %v, want 7", resp.Id)
	}
	if m, ok := resp.Result.(map[string]interface{}); !ok || len(m) != 0 {
		t.Errorf("Result = %v, want empty object", resp.Result)
	}
}

func TestUnknownMethod(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	resp := sendRequest(t, server, "prompts/list", 1, nil)
	if resp.Error == nil || resp.Error.Code != MethodNotFound {
		t.Fatalf("Error = %+v, want MethodNotFound", resp.Error)
	}
}

func TestNotificationHasNoResponse(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	for _, method := range []string{"notifications/initialized", "notifications/cancelled"} {
		if resp := server.handleMessage(&MCPMessage{Jsonrpc: "2.0", Method: method}); resp != nil {
			t.Errorf("%s: got response %+v, want none", method, resp)
		}
	}
}

func TestToolsList(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	resp := sendRequest(t, server, "tools/list", 1, map[string]interface{}{})
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %s", resp.Error.Message)
	}

	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]Tool)
	if len(tools) != 10 {
		t.Errorf("len(tools) = %d, want 10", len(tools))
	}
	if _, ok := result["nextCursor"]; ok {
		t.Error("A single page should not carry nextCursor")
	}

	for _, tool := range tools {
		props := tool.InputSchema["properties"].(map[string]interface{})
		if _, ok := props["response_format"]; !ok {
			t.Errorf("%s: schema lacks response_format", tool.Name)
		}
		if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
			t.Errorf("%s: should be annotated read-only", tool.Name)
		}
	}
}

func TestToolsListInvalidCursor(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	stale := EncodeToolsCursor(5, "0000000000000000")
	for _, cursor := range []string{"!!!not-base64", stale} {
		resp := sendRequest(t, server, "tools/list", 1, map[string]interface{}{"cursor": cursor})
		if resp.Error == nil || resp.Error.Code != InvalidParams {
			t.Errorf("cursor %q: Error = %+v, want InvalidParams", cursor, resp.Error)
		}
	}
}

func TestStartHandlesMalformedInput(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	input := "{not json}\n\n" + `{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n"
	var out bytes.Buffer
	server.SetStdin(strings.NewReader(input))
	server.SetStdout(&out)

	if err := server.Start(); err != nil {
		t.Fatalf("Start() = %v, want nil at EOF", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Got %d responses, want 2:\n%s", len(lines), out.String())
	}

	var parseErr, pong MCPMessage
	if err := json.Unmarshal([]byte(lines[0]), &parseErr); err != nil {
		t.Fatal(err)
	}
	if parseErr.Error == nil || parseErr.Error.Code != ParseError {
		t.Errorf("First response = %s, want parse error", lines[0])
	}
	if err := json.Unmarshal([]byte(lines[1]), &pong); err != nil {
		t.Fatal(err)
	}
	if pong.Error != nil || pong.Id != float64(2) {
		t.Errorf("Second response = %s, want ping result", lines[1])
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()
	defer stdinW.Close()
	defer stdoutR.Close()
	server.SetStdin(stdinR)
	server.SetStdout(stdoutW)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()

	// one round trip proves the loop is running with stdin still open
	if _, err := io.WriteString(stdinW, `{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"); err != nil {
		t.Fatal(err)
	}
	line, err := bufio.NewReader(stdoutR).ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, `"id":1`) {
		t.Fatalf("Response = %s, want ping result", line)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after the context was cancelled")
	}
}

func TestServeReturnsAtEOF(t *testing.T) {
	server := newTestMCPServer(t, Options{})
	server.SetStdin(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n"))
	var out bytes.Buffer
	server.SetStdout(&out)

	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("Serve() = %v, want nil at EOF", err)
	}
	if !strings.Contains(out.String(), `"id":1`) {
		t.Errorf("Output = %q, want ping result", out.String())
	}
}

func TestCompatCheck(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	md := callTool(t, server, "compat_check", map[string]interface{}{"feature": "api.fetch"})
	if !strings.HasPrefix(md.text(), "# api.fetch") {
		t.Errorf("Markdown should start with the feature heading, got:\n%s", md.text())
	}
	if md.StructuredContent != nil {
		t.Error("Markdown responses should not carry structuredContent")
	}

	js := callTool(t, server, "compat_check", map[string]interface{}{
		"feature":         "api.fetch",
		"browsers":        []interface{}{"chrome", "firefox"},
		"response_format": "json",
	})
	data := jsonData(t, js)
	if data["id"] != "api.fetch" {
		t.Errorf("id = %v, want api.fetch", data["id"])
	}
	support := data["support"].(map[string]interface{})
	if len(support) != 2 {
		t.Errorf("len(support) = %d, want 2", len(support))
	}
	if data["web_feature"] != "fetch" {
		t.Errorf("web_feature = %v, want fetch", data["web_feature"])
	}

	sc := js.StructuredContent
	if sc == nil {
		t.Fatal("JSON responses should carry structuredContent")
	}
	if sc["data"].(map[string]interface{})["id"] != "api.fetch" {
		t.Error("structuredContent.data should hold the feature")
	}
	meta := sc["meta"].(map[string]interface{})
	datasets := meta["provenance"].(map[string]interface{})["datasets"].([]interface{})
	if got := datasets[0].(map[string]interface{})["version"]; got != "6.0.0" {
		t.Errorf("BCD version in provenance = %v, want 6.0.0", got)
	}
	if tier := meta["confidence"].(map[string]interface{})["tier"]; tier != "high" {
		t.Errorf("confidence tier = %v, want high", tier)
	}
}

func TestCompatCheckEmptyBrowsers(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	r := callTool(t, server, "compat_check", map[string]interface{}{
		"feature":         "api.fetch",
		"browsers":        []interface{}{},
		"response_format": "json",
	})
	data := jsonData(t, r)
	support, ok := data["support"].(map[string]interface{})
	if !ok {
		t.Fatalf("support = %v, want an object", data["support"])
	}
	if len(support) != 0 {
		t.Errorf("len(support) = %d, want 0 for an explicit empty filter", len(support))
	}

	defaults := jsonData(t, callTool(t, server, "compat_check", map[string]interface{}{
		"feature":         "api.fetch",
		"response_format": "json",
	}))
	if got := len(defaults["support"].(map[string]interface{})); got != 4 {
		t.Errorf("len(support) without filter = %d, want 4", got)
	}
}

func TestCompatCheckNotFound(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	r := callTool(t, server, "compat_check", map[string]interface{}{
		"feature":         "fetch",
		"response_format": "json",
	})
	if r.IsError {
		t.Error("Not found should be an answer, not an error result")
	}
	if !strings.HasPrefix(r.text(), "Feature 'fetch' not found") {
		t.Errorf("text = %q", r.text())
	}
	if !strings.Contains(r.text(), "'api.fetch'") {
		t.Errorf("text should suggest dot notation, got %q", r.text())
	}
	if r.StructuredContent["error"] == nil {
		t.Error("structuredContent.error should be set")
	}
}

func TestInvalidParams(t *testing.T) {
	server := newTestMCPServer(t, Options{})
	longQuery := strings.Repeat("a", MaxSearchQueryLength+1)

	tests := []struct {
		name  string
		tool  string
		args  map[string]interface{}
		param string
	}{
		{"missing feature", "compat_check", map[string]interface{}{}, "feature"},
		{"blank feature", "compat_check", map[string]interface{}{"feature": "  "}, "feature"},
		{"browsers not array", "compat_check", map[string]interface{}{"feature": "api.fetch", "browsers": "chrome"}, "browsers"},
		{"unknown argument", "compat_check", map[string]interface{}{"feature": "api.fetch", "verbose": true}, "verbose"},
		{"too few features", "compat_compare", map[string]interface{}{"features": []interface{}{"api.fetch"}}, "features"},
		{"too many features", "compat_compare", map[string]interface{}{"features": []interface{}{"a", "b", "c", "d", "e", "f"}}, "features"},
		{"query too long", "compat_search", map[string]interface{}{"query": longQuery}, "query"},
		{"unknown category", "compat_search", map[string]interface{}{"query": "grid", "category": "dom"}, "category"},
		{"limit zero", "compat_search", map[string]interface{}{"query": "grid", "limit": 0}, "limit"},
		{"limit too large", "compat_search", map[string]interface{}{"query": "grid", "limit": 101}, "limit"},
		{"fractional limit", "compat_search", map[string]interface{}{"query": "grid", "limit": 1.5}, "limit"},
		{"negative offset", "compat_search_baseline", map[string]interface{}{"query": "grid", "offset": -1}, "offset"},
		{"bad status", "compat_list_baseline", map[string]interface{}{"status": "medium"}, "status"},
		{"missing version", "compat_check_support", map[string]interface{}{"browser": "chrome"}, "version"},
		{"bad format", "compat_status", map[string]interface{}{"response_format": "xml"}, "response_format"},
		{"args on no-arg tool", "compat_list_browsers", map[string]interface{}{"limit": 5}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sendRequest(t, server, "tools/call", 1, map[string]interface{}{
				"name":      tt.tool,
				"arguments": tt.args,
			})
			if resp.Error == nil {
				t.Fatalf("Expected InvalidParams, got result %+v", resp.Result)
			}
			if resp.Error.Code != InvalidParams {
				t.Errorf("Code = %d, want %d", resp.Error.Code, InvalidParams)
			}
			if !strings.Contains(resp.Error.Message, "'"+tt.param+"'") {
				t.Errorf("Message = %q, want to name %q", resp.Error.Message, tt.param)
			}
		})
	}
}

func TestUnknownTool(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	resp := sendRequest(t, server, "tools/call", 1, map[string]interface{}{"name": "compat_nope"})
	if resp.Error == nil || resp.Error.Code != InvalidParams {
		t.Fatalf("Error = %+v, want InvalidParams", resp.Error)
	}
	if !strings.Contains(resp.Error.Message, "compat_nope") {
		t.Errorf("Message = %q, want to name the tool", resp.Error.Message)
	}
}

func TestCompatCompare(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	r := callTool(t, server, "compat_compare", map[string]interface{}{
		"features":        []interface{}{"css.properties.grid", "css.selectors.has", "api.Nope"},
		"browsers":        []interface{}{"firefox", "chrome"},
		"response_format": "json",
	})
	data := jsonData(t, r)
	if got := len(data["features"].([]interface{})); got != 2 {
		t.Errorf("len(features) = %d, want 2", got)
	}
	notFound := data["not_found"].([]interface{})
	if len(notFound) != 1 || notFound[0] != "api.Nope" {
		t.Errorf("not_found = %v, want [api.Nope]", notFound)
	}

	warnings, _ := r.StructuredContent["warnings"].([]interface{})
	if len(warnings) != 1 || !strings.Contains(warnings[0].(map[string]interface{})["message"].(string), "api.Nope") {
		t.Errorf("warnings = %v, want one naming api.Nope", warnings)
	}

	none := callTool(t, server, "compat_compare", map[string]interface{}{
		"features": []interface{}{"x.y", "z"},
	})
	if none.text() != "None of the specified features were found: x.y, z" {
		t.Errorf("text = %q", none.text())
	}
}

func TestCompatSearch(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	r := callTool(t, server, "compat_search", map[string]interface{}{
		"query":           "fetch",
		"limit":           1,
		"response_format": "json",
	})
	data := jsonData(t, r)
	if data["total"] != float64(2) || data["count"] != float64(1) {
		t.Errorf("total/count = %v/%v, want 2/1", data["total"], data["count"])
	}
	if data["has_more"] != true || data["next_offset"] != float64(1) {
		t.Errorf("has_more/next_offset = %v/%v, want true/1", data["has_more"], data["next_offset"])
	}
	items := data["features"].([]interface{})
	if items[0].(map[string]interface{})["id"] != "api.fetch" {
		t.Errorf("first match = %v, want api.fetch", items[0])
	}
	pagination := r.StructuredContent["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	if pagination["total"] != float64(2) {
		t.Errorf("pagination.total = %v, want 2", pagination["total"])
	}

	md := callTool(t, server, "compat_search", map[string]interface{}{"query": "grid", "category": "css"})
	if !strings.Contains(md.text(), "`css.properties.grid`") {
		t.Errorf("Markdown should list css.properties.grid:\n%s", md.text())
	}

	empty := callTool(t, server, "compat_search", map[string]interface{}{"query": "grid", "category": "api"})
	if empty.text() != output.NoSearchResults("grid", "api") {
		t.Errorf("text = %q", empty.text())
	}
}

func TestGetBaseline(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	r := callTool(t, server, "compat_get_baseline", map[string]interface{}{
		"feature":         "numeric-seperators",
		"response_format": "json",
	})
	data := jsonData(t, r)
	if data["id"] != "numeric-separators" || data["redirected_from"] != "numeric-seperators" {
		t.Errorf("id/redirected_from = %v/%v", data["id"], data["redirected_from"])
	}
	warnings, _ := r.StructuredContent["warnings"].([]interface{})
	if len(warnings) != 1 || warnings[0].(map[string]interface{})["code"] != "MOVED" {
		t.Errorf("warnings = %v, want MOVED", warnings)
	}

	grid := callTool(t, server, "compat_get_baseline", map[string]interface{}{"feature": "grid"})
	if !strings.Contains(grid.text(), "Grid") {
		t.Errorf("Markdown should name the feature:\n%s", grid.text())
	}

	missing := callTool(t, server, "compat_get_baseline", map[string]interface{}{"feature": "containerQueries"})
	if !strings.Contains(missing.text(), "kebab-case") {
		t.Errorf("text = %q, want kebab-case hint", missing.text())
	}
}

func TestListBaseline(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	tests := []struct {
		args  map[string]interface{}
		total float64
	}{
		{map[string]interface{}{}, 14},
		{map[string]interface{}{"status": "high"}, 7},
		{map[string]interface{}{"status": "false"}, 4},
		{map[string]interface{}{"status": "high", "group": "layout"}, 2},
	}
	for _, tt := range tests {
		tt.args["response_format"] = "json"
		data := jsonData(t, callTool(t, server, "compat_list_baseline", tt.args))
		if data["total"] != tt.total {
			t.Errorf("%v: total = %v, want %v", tt.args, data["total"], tt.total)
		}
	}

	empty := callTool(t, server, "compat_list_baseline", map[string]interface{}{"group": "nope"})
	if empty.text() != output.NoBaselineResults() {
		t.Errorf("text = %q", empty.text())
	}
}

func TestSearchBaseline(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	data := jsonData(t, callTool(t, server, "compat_search_baseline", map[string]interface{}{
		"query":           "array",
		"response_format": "json",
	}))
	if data["total"] != float64(2) || data["query"] != "array" {
		t.Errorf("total/query = %v/%v, want 2/array", data["total"], data["query"])
	}

	md := callTool(t, server, "compat_search_baseline", map[string]interface{}{"query": "grid"})
	if !strings.Contains(md.text(), `Web Features matching "grid"`) {
		t.Errorf("Markdown title missing:\n%s", md.text())
	}
}

func TestListBrowsers(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	data := jsonData(t, callTool(t, server, "compat_list_browsers", map[string]interface{}{"response_format": "json"}))
	if data["total"] != float64(8) {
		t.Errorf("total = %v, want 8", data["total"])
	}
	if got := len(data["browsers"].([]interface{})); got != 8 {
		t.Errorf("len(browsers) = %d, want 8", got)
	}
}

func TestCheckSupport(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	data := jsonData(t, callTool(t, server, "compat_check_support", map[string]interface{}{
		"browser":         "chrome",
		"version":         "120",
		"category":        "css",
		"response_format": "json",
	}))
	if data["total"] != float64(1) || data["browser"] != "chrome" || data["version"] != "120" {
		t.Errorf("data = %v", data)
	}

	unknown := callTool(t, server, "compat_check_support", map[string]interface{}{
		"browser":         "ie",
		"version":         "11",
		"response_format": "json",
	})
	if unknown.text() != output.NoSupportResults("ie", "11", "") {
		t.Errorf("text = %q", unknown.text())
	}
	if warnings, _ := unknown.StructuredContent["warnings"].([]interface{}); len(warnings) != 1 {
		t.Errorf("warnings = %v, want unknown browser warning", warnings)
	}
}

func TestStatusTool(t *testing.T) {
	server := newTestMCPServer(t, Options{})

	md := callTool(t, server, "compat_status", nil)
	if !strings.Contains(md.text(), "| BCD version | 6.0.0 |") {
		t.Errorf("Markdown should show the BCD version:\n%s", md.text())
	}

	data := jsonData(t, callTool(t, server, "compat_status", map[string]interface{}{"response_format": "json"}))
	if data["indexedPaths"] != float64(21) {
		t.Errorf("indexedPaths = %v, want 21", data["indexedPaths"])
	}
}

func TestToolMetricsTool(t *testing.T) {
	disabled := newTestMCPServer(t, Options{})
	if r := callTool(t, disabled, "compat_tool_metrics", nil); r.text() != "Tool metrics are disabled." {
		t.Errorf("text = %q", r.text())
	}

	metrics := NewToolMetrics(nil, nil)
	server := newTestMCPServer(t, Options{Metrics: metrics})

	callTool(t, server, "compat_check", map[string]interface{}{"feature": "api.fetch"})
	callTool(t, server, "compat_check", map[string]interface{}{"feature": "api.Nope"})
	sendRequest(t, server, "tools/call", 1, map[string]interface{}{
		"name":      "compat_search",
		"arguments": map[string]interface{}{"query": ""},
	})

	data := jsonData(t, callTool(t, server, "compat_tool_metrics", map[string]interface{}{"response_format": "json"}))
	if data["sessionId"] != metrics.SessionID() {
		t.Errorf("sessionId = %v, want %s", data["sessionId"], metrics.SessionID())
	}
	tools := data["tools"].([]interface{})
	if len(tools) != 2 {
		t.Fatalf("len(tools) = %d, want 2: %v", len(tools), tools)
	}
	check := tools[0].(map[string]interface{})
	if check["toolName"] != "compat_check" || check["callCount"] != float64(2) {
		t.Errorf("compat_check summary = %v", check)
	}
	search := tools[1].(map[string]interface{})
	if search["toolName"] != "compat_search" || search["errorCount"] != float64(1) {
		t.Errorf("compat_search summary = %v", search)
	}
}

func TestCharacterLimitTruncates(t *testing.T) {
	server := newTestMCPServer(t, Options{CharacterLimit: 100})

	md := callTool(t, server, "compat_list_browsers", nil)
	if !strings.HasSuffix(md.text(), output.TruncationNotice) {
		t.Errorf("Truncated text should end with the notice:\n%s", md.text())
	}

	js := callTool(t, server, "compat_list_browsers", map[string]interface{}{"response_format": "json"})
	meta := js.StructuredContent["meta"].(map[string]interface{})
	truncation, ok := meta["truncation"].(map[string]interface{})
	if !ok || truncation["isTruncated"] != true || truncation["reason"] != "character-limit" {
		t.Errorf("truncation = %v", meta["truncation"])
	}
}
