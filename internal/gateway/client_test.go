package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(Options{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Provider: "ollama",
		Model:    "assistant",
		Keep:     30,
	})
}

func TestChatSuccess(t *testing.T) {
	var captured chatPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get(apiKeyHeader) != "secret" {
			t.Errorf("missing API key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"reply":       "ok",
			"model":       "assistant-v2",
			"tokens_used": 17,
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "secret")
	reply, err := client.Chat(context.Background(), "admin_1", "system prompt", "hello")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}

	if !reply.Success || reply.Reply != "ok" {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.Model != "assistant-v2" || reply.Tokens != 17 {
		t.Errorf("metadata not propagated: %+v", reply)
	}

	if captured.Session != "admin_1" || captured.Provider != "ollama" || captured.Keep != 30 {
		t.Errorf("payload = %+v", captured)
	}
	if len(captured.Messages) != 2 ||
		captured.Messages[0].Role != "system" || captured.Messages[0].Content != "system prompt" ||
		captured.Messages[1].Role != "user" || captured.Messages[1].Content != "hello" {
		t.Errorf("messages = %+v", captured.Messages)
	}
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, "secret").Chat(context.Background(), "s", "p", "m")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Success {
		t.Fatalf("expected failure for 500 status")
	}
	if !strings.Contains(reply.Error, "500") {
		t.Errorf("error should include the status code, got %q", reply.Error)
	}
}

func TestChatMissingReplyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"assistant"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, "secret").Chat(context.Background(), "s", "p", "m")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Success || reply.Error != "invalid response from gateway" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestChatMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, "secret").Chat(context.Background(), "s", "p", "m")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply.Success || reply.Error != "invalid response from gateway" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestChatTransportFailure(t *testing.T) {
	// Closed server: connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	reply, err := newTestClient(srv.URL, "secret").Chat(context.Background(), "s", "p", "m")
	if err != nil {
		t.Fatalf("transport failures must not surface as errors, got %v", err)
	}
	if reply.Success {
		t.Fatalf("expected failure for unreachable gateway")
	}
	if !strings.Contains(reply.Error, "gateway") {
		t.Errorf("error = %q", reply.Error)
	}
}

func TestChatMissingAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call may happen without an API key")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Chat(context.Background(), "s", "p", "m")
	if err != ErrNoAPIKey {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestClearHistory(t *testing.T) {
	var captured historyPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, "secret").ClearHistory(context.Background(), "admin_1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if captured.Session != "admin_1" || captured.Action != "clear" {
		t.Errorf("payload = %+v", captured)
	}
}

func TestClearHistoryWithoutKeyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call may happen without an API key")
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, "").ClearHistory(context.Background(), "admin_1"); err != nil {
		t.Fatalf("ClearHistory without key should be a noop, got %v", err)
	}
}
