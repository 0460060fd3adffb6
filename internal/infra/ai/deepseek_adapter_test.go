package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"telegram-prompt-bot/internal/domain"
	"telegram-prompt-bot/internal/domain/model"
)

func completionsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func okCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q}}]}`, content)
}

func TestDeepSeekGenerate(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		okCompletion(w, "a detailed prompt")
	})

	ad, err := NewDeepSeekAdapter("sk-test", srv.URL, "deepseek-chat", 5*time.Second, 1)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	got, err := ad.Generate(context.Background(), model.CategoryImage, "a cat on a roof")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "a detailed prompt" {
		t.Fatalf("reply = %q", got)
	}
}

func TestDeepSeekAuthErrorIsFatalAndNotRetried(t *testing.T) {
	var calls int32
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth_error"}}`)
	})

	ad, err := NewDeepSeekAdapter("sk-bad", srv.URL, "deepseek-chat", 5*time.Second, 3)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	_, err = ad.Generate(context.Background(), model.CategoryText, "anything")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, auth errors must not be retried", n)
	}
}

func TestDeepSeekRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		okCompletion(w, "recovered")
	})

	ad, err := NewDeepSeekAdapter("sk-test", srv.URL, "deepseek-chat", 5*time.Second, 2)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	got, err := ad.Generate(context.Background(), model.CategoryCode, "parse a csv")
	if err != nil {
		t.Fatalf("generate after retry: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("reply = %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestDeepSeekRateLimitClassified(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded"}}`)
	})

	ad, err := NewDeepSeekAdapter("sk-test", srv.URL, "deepseek-chat", 5*time.Second, 1)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	_, err = ad.Generate(context.Background(), model.CategoryVideo, "a storm at sea")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestDeepSeekEmptyChoices(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[]}`)
	})

	ad, err := NewDeepSeekAdapter("sk-test", srv.URL, "deepseek-chat", 5*time.Second, 1)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	_, err = ad.Generate(context.Background(), model.CategoryText, "anything")
	if !errors.Is(err, domain.ErrEmptyReply) {
		t.Fatalf("err = %v, want ErrEmptyReply", err)
	}
}

func TestLocalAdapter(t *testing.T) {
	ad := NewLocalAdapter()

	got, err := ad.Generate(context.Background(), model.CategoryImage, "a red fox")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got == "" {
		t.Fatalf("expected a non-empty prompt")
	}

	refined, err := ad.Refine(context.Background(), got, "make it snowy")
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if refined == got {
		t.Fatalf("refine must change the prompt")
	}

	if _, err := ad.Generate(context.Background(), model.CategoryImage, "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank description: err = %v", err)
	}
}
