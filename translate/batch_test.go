package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lifeinpassion/translator/observability"
)

type stubTranslator struct {
	name  string
	calls int
	fn    func(text string) (string, error)
}

func (s *stubTranslator) Name() string { return s.name }

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	return s.fn(text)
}

func upperStub() *stubTranslator {
	return &stubTranslator{name: "stub", fn: func(text string) (string, error) {
		return strings.ToUpper(text), nil
	}}
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, ...observability.Field) {}
func (l *recordingLogger) Info(string, ...observability.Field)  {}
func (l *recordingLogger) Error(string, ...observability.Field) {}
func (l *recordingLogger) Warn(msg string, _ ...observability.Field) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) With(...observability.Field) observability.Logger { return l }

func TestBatcherOrderAndLength(t *testing.T) {
	stub := upperStub()
	b := NewBatcher(stub, "en", "zh-CN", nil, nil)

	in := []string{"one", "", "two", "   \t", "three"}
	out := b.TranslateBatch(context.Background(), in)
	if len(out) != len(in) {
		t.Fatalf("got %d outcomes for %d inputs", len(out), len(in))
	}
	want := []string{"ONE", "", "TWO", "   \t", "THREE"}
	for i, o := range out {
		if o.Text != want[i] {
			t.Errorf("outcome[%d].Text = %q, want %q", i, o.Text, want[i])
		}
		if o.Source != in[i] {
			t.Errorf("outcome[%d].Source = %q, want %q", i, o.Source, in[i])
		}
		if o.FellBack() {
			t.Errorf("outcome[%d] unexpectedly fell back", i)
		}
	}
	// Blank entries never reach the backend.
	if stub.calls != 3 {
		t.Fatalf("backend called %d times, want 3", stub.calls)
	}
}

func TestBatcherFallbackKeepsSource(t *testing.T) {
	boom := errors.New("backend down")
	stub := &stubTranslator{name: "stub", fn: func(text string) (string, error) {
		if text == "bad" {
			return "", boom
		}
		return strings.ToUpper(text), nil
	}}
	log := &recordingLogger{}
	b := NewBatcher(stub, "en", "zh-CN", nil, log)

	out := b.TranslateBatch(context.Background(), []string{"good", "bad", "fine"})
	if got := Texts(out); got[0] != "GOOD" || got[1] != "bad" || got[2] != "FINE" {
		t.Fatalf("texts = %q", got)
	}
	if !out[1].FellBack() || !errors.Is(out[1].Err, boom) {
		t.Fatalf("outcome[1] = %+v, want fallback carrying cause", out[1])
	}
	if got := Fallbacks(out); got != 1 {
		t.Fatalf("Fallbacks = %d, want 1", got)
	}
	if len(log.warnings) != 1 {
		t.Fatalf("logged %d warnings, want 1", len(log.warnings))
	}
}

func TestBatcherUsesCache(t *testing.T) {
	stub := upperStub()
	cache := NewCache(10)
	b := NewBatcher(stub, "en", "zh-CN", cache, nil)

	ctx := context.Background()
	b.TranslateBatch(ctx, []string{"hello"})
	b.TranslateBatch(ctx, []string{"hello"})
	if stub.calls != 1 {
		t.Fatalf("backend called %d times, want 1 (second call cached)", stub.calls)
	}
	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("cache stats hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestBatcherFailuresNotCached(t *testing.T) {
	fail := true
	stub := &stubTranslator{name: "stub", fn: func(text string) (string, error) {
		if fail {
			return "", errors.New("transient")
		}
		return strings.ToUpper(text), nil
	}}
	cache := NewCache(10)
	b := NewBatcher(stub, "en", "zh-CN", cache, nil)

	ctx := context.Background()
	out := b.TranslateBatch(ctx, []string{"hello"})
	if !out[0].FellBack() {
		t.Fatal("first call should fall back")
	}
	fail = false
	out = b.TranslateBatch(ctx, []string{"hello"})
	if out[0].Text != "HELLO" {
		t.Fatalf("second call = %q, want HELLO", out[0].Text)
	}
	if stub.calls != 2 {
		t.Fatalf("backend called %d times, want 2", stub.calls)
	}
}

func TestTextsAndFallbacksEmpty(t *testing.T) {
	out := NewBatcher(upperStub(), "en", "zh-CN", nil, nil).TranslateBatch(context.Background(), nil)
	if len(out) != 0 {
		t.Fatalf("got %d outcomes for empty input", len(out))
	}
	if got := Texts(out); len(got) != 0 {
		t.Fatalf("Texts length %d, want 0", len(got))
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Fatalf("snippet = %q", got)
	}
	if got := snippet("这是一段很长的中文文本", 4); got != "这是一段..." {
		t.Fatalf("snippet = %q", got)
	}
}
