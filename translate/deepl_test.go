package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepLTranslate(t *testing.T) {
	var gotAuth, gotPath, gotText, gotTarget, gotSource string
	var sourceSet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotText = r.PostForm.Get("text")
		gotTarget = r.PostForm.Get("target_lang")
		gotSource = r.PostForm.Get("source_lang")
		_, sourceSet = r.PostForm["source_lang"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"你好世界"}]}`))
	}))
	defer srv.Close()

	d := NewDeepL("test-key", "auto", "zh-CN", WithBaseURL(srv.URL), WithMaxRetries(0))
	got, err := d.Translate(context.Background(), "Hello World")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "你好世界" {
		t.Fatalf("Translate = %q", got)
	}
	if gotAuth != "DeepL-Auth-Key test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPath != "/v2/translate" {
		t.Errorf("path = %q", gotPath)
	}
	if gotText != "Hello World" || gotTarget != "ZH" {
		t.Errorf("form text=%q target=%q", gotText, gotTarget)
	}
	if sourceSet {
		t.Errorf("auto source should omit source_lang, got %q", gotSource)
	}
}

func TestDeepLExplicitSource(t *testing.T) {
	var gotSource string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotSource = r.PostForm.Get("source_lang")
		w.Write([]byte(`{"translations":[{"text":"ok"}]}`))
	}))
	defer srv.Close()

	d := NewDeepL("k", "en", "de", WithBaseURL(srv.URL), WithMaxRetries(0))
	if _, err := d.Translate(context.Background(), "hi"); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if gotSource != "EN" {
		t.Fatalf("source_lang = %q, want EN", gotSource)
	}
}

func TestDeepLAuthFailureNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"wrong key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDeepL("bad", "en", "de", WithBaseURL(srv.URL), WithMaxRetries(4))
	if _, err := d.Translate(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("auth failure hit the server %d times, want 1", calls)
	}
}

func TestDeepLLang(t *testing.T) {
	cases := map[string]string{
		"auto":  "",
		"":      "",
		"en":    "EN",
		"en-US": "EN",
		"zh-CN": "ZH",
		"zh-TW": "ZH",
		"de":    "DE",
	}
	for in, want := range cases {
		if got := deeplLang(in); got != want {
			t.Errorf("deeplLang(%q) = %q, want %q", in, got, want)
		}
	}
}
