//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/tool"

	"trpc.group/trpc-go/standards-agents/internal/config"
	"trpc.group/trpc-go/standards-agents/internal/registry"
)

// mockAgent is a scripted agent for testing. It replays the configured
// events through the regular runner path and counts invocations.
type mockAgent struct {
	name     string
	response string
	events   []*event.Event
	runErr   error
	calls    int
}

func (m *mockAgent) Info() agent.Info {
	return agent.Info{Name: m.name, Description: "mock agent"}
}

func (m *mockAgent) Tools() []tool.Tool { return nil }

func (m *mockAgent) SubAgents() []agent.Agent { return nil }

func (m *mockAgent) FindSubAgent(string) agent.Agent { return nil }

func (m *mockAgent) Run(_ context.Context, _ *agent.Invocation) (<-chan *event.Event, error) {
	m.calls++
	if m.runErr != nil {
		return nil, m.runErr
	}
	events := m.events
	if events == nil {
		events = []*event.Event{completionEvent(m.response)}
	}
	ch := make(chan *event.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func completionEvent(content string) *event.Event {
	finishReason := "stop"
	return &event.Event{
		ID: "test-event-id",
		Response: &model.Response{
			Object:  model.ObjectTypeChatCompletion,
			Done:    true,
			Created: time.Now().Unix(),
			Choices: []model.Choice{
				{
					Message:      model.Message{Role: model.RoleAssistant, Content: content},
					FinishReason: &finishReason,
				},
			},
		},
	}
}

func partialEvent(delta string) *event.Event {
	return &event.Event{
		ID: "test-event-id",
		Response: &model.Response{
			Object:    model.ObjectTypeChatCompletionChunk,
			IsPartial: true,
			Created:   time.Now().Unix(),
			Choices: []model.Choice{
				{Delta: model.Message{Role: model.RoleAssistant, Content: delta}},
			},
		},
	}
}

func errorEvent(message string) *event.Event {
	return &event.Event{
		ID: "test-event-id",
		Response: &model.Response{
			Done: true,
			Error: &model.ResponseError{
				Type:    model.ErrorTypeAPIError,
				Message: message,
			},
		},
	}
}

func toolResponseEvent(content string) *event.Event {
	return &event.Event{
		ID: "test-event-id",
		Response: &model.Response{
			Object: model.ObjectTypeToolResponse,
			Choices: []model.Choice{
				{Message: model.Message{Role: model.RoleTool, Content: content}},
			},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultModelID: "o3-mini",
		ModelIDs:       []string{"gpt-4o"},
		EmbedderModel:  "text-embedding-3-small",
		VectorStore:    config.VectorStoreInMemory,
		SafetyTable:    "safety_standards",
		QualityTable:   "quality_standards",
		SafetyDocsDir:  "testdata/safety",
		QualityDocsDir: "testdata/quality",
	}
}

func newTestServer(t *testing.T, opts ...registry.Option) *Server {
	t.Helper()
	reg, err := registry.New(testConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return New(reg)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Name        string            `json:"name"`
		Version     string            `json:"version"`
		Description string            `json:"description"`
		Endpoints   map[string]string `json:"endpoints"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Standards Agents API", resp.Name)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "API for Safety and Quality Standards Agents", resp.Description)
	for _, endpoint := range []string{
		"POST /safety/ask", "POST /quality/ask", "POST /team/ask", "GET /health", "GET /config",
	} {
		assert.Contains(t, resp.Endpoints, endpoint)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string   `json:"status"`
		Agents []string `json:"agents"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"safety", "quality", "team"}, resp.Agents)
}

func TestConfigEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		VectorStore     string   `json:"vector_store"`
		OpenAIAPIKeySet bool     `json:"openai_api_key_set"`
		DefaultModelID  string   `json:"default_model_id"`
		ModelIDs        []string `json:"model_ids"`
		TeamModes       []string `json:"team_modes"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, config.VectorStoreInMemory, resp.VectorStore)
	assert.False(t, resp.OpenAIAPIKeySet)
	assert.Equal(t, "o3-mini", resp.DefaultModelID)
	assert.Equal(t, []string{"gpt-4o", "o3-mini"}, resp.ModelIDs)
	assert.Equal(t, []string{"collaborate", "coordinate", "route"}, resp.TeamModes)
}

func TestPreflightRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/safety/ask", "/quality/ask", "/team/ask"} {
		w := doRequest(t, s, http.MethodOptions, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, "preflight %s", path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/safety/ask", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
