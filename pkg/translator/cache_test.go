package translator

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedComplete(t *testing.T) {
	calls := 0
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		return "translated " + req.Prompt, nil
	})

	c, err := NewCached(next, time.Minute, 1<<20)
	if err != nil {
		t.Fatalf("NewCached() error = %v", err)
	}
	defer c.Close()

	req := Request{Credential: "a", Model: DefaultAnthropicModel, Prompt: "χαῖρε"}

	first, err := c.Complete(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	c.cache.Wait()

	second, err := c.Complete(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("cached reply %q differs from first reply %q", second, first)
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want 1", calls)
	}

	req.Model = DefaultOpenAIModel
	if _, err := c.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("a different model must miss the cache, backend called %d times", calls)
	}
}

func TestCachedScopesRepliesToCredential(t *testing.T) {
	calls := 0
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		if req.Credential != "valid" {
			return "", errors.New("authentication_error: invalid x-api-key")
		}
		return "Sing, goddess", nil
	})

	c, err := NewCached(next, time.Minute, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	req := Request{Credential: "valid", Model: DefaultAnthropicModel, Prompt: "μῆνιν ἄειδε θεὰ"}
	if _, err := c.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	c.cache.Wait()

	req.Credential = "bogus"
	got, err := c.Complete(context.Background(), req)
	if err == nil {
		t.Errorf("Complete() with another credential = %q, want the backend's rejection", got)
	}
	if calls != 2 {
		t.Errorf("backend called %d times, want 2", calls)
	}

	if generateCacheKey(Request{Credential: "a", Prompt: "x"}) == generateCacheKey(Request{Credential: "b", Prompt: "x"}) {
		t.Error("cache key does not depend on the credential")
	}
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	calls := 0
	next := CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("overloaded")
		}
		return "ok", nil
	})

	c, err := NewCached(next, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	req := Request{Model: DefaultAnthropicModel, Prompt: "x"}
	if _, err := c.Complete(context.Background(), req); err == nil {
		t.Fatal("expected first call to fail")
	}
	c.cache.Wait()

	got, err := c.Complete(context.Background(), req)
	if err != nil || got != "ok" {
		t.Errorf("Complete() = %q, %v; want %q, nil", got, err, "ok")
	}
}
