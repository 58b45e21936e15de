package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAITranslate(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" 你好世界 "}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("test-key", "", "en", "zh-CN", WithBaseURL(srv.URL+"/v1"), WithMaxRetries(0))
	got, err := o.Translate(context.Background(), "Hello World")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "你好世界" {
		t.Fatalf("Translate = %q, want trimmed content", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != defaultOpenAIModel {
		t.Errorf("model = %q, want default", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "Hello World" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "English") ||
		!strings.Contains(gotReq.Messages[0].Content, "Simplified Chinese") {
		t.Errorf("system prompt = %q", gotReq.Messages[0].Content)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("k", "", "en", "zh-CN", WithBaseURL(srv.URL+"/v1"), WithMaxRetries(0))
	if _, err := o.Translate(context.Background(), "hi"); err == nil {
		t.Fatal("empty choices accepted")
	}
}
