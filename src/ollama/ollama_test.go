package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"insureval/src/ollama"
)

func TestClientChat(t *testing.T) {
	t.Run("accumulates streamed chunks until done", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat" {
				t.Errorf("path = %q, want /chat", r.URL.Path)
			}

			var req ollama.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.Model != "llama3.1" {
				t.Errorf("model = %q, want llama3.1", req.Model)
			}
			if !req.Stream {
				t.Error("stream = false, want true")
			}

			w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"MATCH: 1"},"done":false}` + "\n"))
			w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"\nCONFIDENCE: 1.0"},"done":false}` + "\n"))
			w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":""},"done":true}` + "\n"))
		}))
		defer server.Close()

		client := ollama.NewClient(server.URL, server.Client())
		got, err := client.Chat(context.Background(), "llama3.1", []ollama.ChatMessage{
			{Role: "user", Content: "hello"},
		}, nil)
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}

		want := "MATCH: 1\nCONFIDENCE: 1.0"
		if got != want {
			t.Errorf("Chat() = %q, want %q", got, want)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := ollama.NewClient(server.URL, server.Client())
		if _, err := client.Chat(context.Background(), "missing", nil, nil); err == nil {
			t.Error("Chat() error = nil, want status error")
		}
	})

	t.Run("stream ending without done flag returns accumulated content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":{"role":"assistant","content":"partial"},"done":false}` + "\n"))
		}))
		defer server.Close()

		client := ollama.NewClient(server.URL, server.Client())
		got, err := client.Chat(context.Background(), "llama3.1", nil, nil)
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if got != "partial" {
			t.Errorf("Chat() = %q, want %q", got, "partial")
		}
	})
}

func TestClientModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tags" {
			t.Errorf("path = %q, want /tags", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3.1"},{"name":"mistral"}]}`))
	}))
	defer server.Close()

	client := ollama.NewClient(server.URL, server.Client())
	models, err := client.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(models) != 2 || models[0].Name != "llama3.1" {
		t.Errorf("Models() = %+v, want llama3.1 and mistral", models)
	}
}
