package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/go-cmp/cmp"

	"github.com/aleph-cli/aleph/internal/config"
)

type stubModel struct{ id string }

func (m *stubModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(m.id, nil), nil
}

func (m *stubModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestResolveAuth_DirectAPIKey(t *testing.T) {
	key, err := ResolveAuth(config.ProviderConfig{
		Driver: DriverGemini,
		Auth:   config.AuthConfig{APIKey: "AIza-test-123"},
	})
	if err != nil {
		t.Fatalf("ResolveAuth: %v", err)
	}
	if key != "AIza-test-123" {
		t.Fatalf("expected %q, got %q", "AIza-test-123", key)
	}
}

func TestResolveAuth_EnvVarSyntax(t *testing.T) {
	t.Setenv("MY_CUSTOM_KEY", "custom-api-key-value")

	key, err := ResolveAuth(config.ProviderConfig{
		Driver: DriverClaude,
		Auth:   config.AuthConfig{APIKey: "${MY_CUSTOM_KEY}"},
	})
	if err != nil {
		t.Fatalf("ResolveAuth: %v", err)
	}
	if key != "custom-api-key-value" {
		t.Fatalf("expected %q, got %q", "custom-api-key-value", key)
	}
}

func TestResolveAuth_DriverEnvFallback(t *testing.T) {
	tests := []struct {
		driver string
		env    string
	}{
		{DriverGemini, "GOOGLE_API_KEY"},
		{DriverOpenAI, "OPENAI_API_KEY"},
		{DriverMistral, "MISTRAL_API_KEY"},
		{DriverClaude, "ANTHROPIC_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			t.Setenv(tt.env, "from-"+tt.env)
			key, err := ResolveAuth(config.ProviderConfig{Driver: tt.driver})
			if err != nil {
				t.Fatalf("ResolveAuth: %v", err)
			}
			if key != "from-"+tt.env {
				t.Errorf("got %q", key)
			}
		})
	}
}

func TestResolveAuth_GeminiSecondaryEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	key, err := ResolveAuth(config.ProviderConfig{Driver: DriverGemini})
	if err != nil {
		t.Fatalf("ResolveAuth: %v", err)
	}
	if key != "gemini-key" {
		t.Errorf("got %q", key)
	}
}

func TestResolveAuth_NothingSet(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := ResolveAuth(config.ProviderConfig{Driver: DriverGemini})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Errorf("error should name the env var: %v", err)
	}
}

func TestResolveAuth_OllamaNeedsNoKey(t *testing.T) {
	key, err := ResolveAuth(config.ProviderConfig{Driver: DriverOllama})
	if err != nil || key != "" {
		t.Fatalf("expected no key and no error, got %q, %v", key, err)
	}
}

func TestResolveAuth_UnknownDriver(t *testing.T) {
	_, err := ResolveAuth(config.ProviderConfig{Driver: "unknown"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestCatalog_DefaultAndLookup(t *testing.T) {
	c := NewCatalog(config.ModelsConfig{})

	want := []string{"gemini-3-pro-preview", "gemini-2.5-pro", "gemini-2.5-flash", "gemini-1.5-pro", "gemini-pro"}
	if diff := cmp.Diff(want, c.IDs()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	e, err := c.Lookup(" gemini-pro ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Provider != DefaultProvider {
		t.Errorf("provider = %q", e.Provider)
	}

	_, err = c.Lookup("gpt-9")
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestCatalog_FromConfig(t *testing.T) {
	c := NewCatalog(config.ModelsConfig{Catalog: []config.ModelEntry{
		{ID: "llama3.2", Provider: "local"},
		{ID: "gemini-2.5-flash"},
		{ID: "llama3.2"},
		{ID: "  "},
	}})

	want := []Entry{
		{ID: "llama3.2", Provider: "local"},
		{ID: "gemini-2.5-flash", Provider: DefaultProvider},
	}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if got := want[0].DisplayName(); got != "llama3.2" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{})
	_, err := r.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestRegistry_GetCachesPerModel(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{})
	calls := map[string]int{}
	r.create = func(_ context.Context, cfg config.ProviderConfig, id string) (model.BaseChatModel, error) {
		if cfg.Driver != DriverGemini {
			t.Errorf("driver = %q", cfg.Driver)
		}
		calls[id]++
		return &stubModel{id: id}, nil
	}

	ctx := context.Background()
	for _, id := range []string{"gemini-pro", "gemini-2.5-flash", "gemini-pro"} {
		m, err := r.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s): %v", id, err)
		}
		if m.(*stubModel).id != id {
			t.Errorf("Get(%s) returned model for %s", id, m.(*stubModel).id)
		}
	}
	if diff := cmp.Diff(map[string]int{"gemini-pro": 1, "gemini-2.5-flash": 1}, calls); diff != "" {
		t.Errorf("create calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_FailedCreateIsRetried(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{})
	fail := true
	r.create = func(_ context.Context, _ config.ProviderConfig, id string) (model.BaseChatModel, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &stubModel{id: id}, nil
	}

	if _, err := r.Get(context.Background(), "gemini-pro"); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	if _, err := r.Get(context.Background(), "gemini-pro"); err != nil {
		t.Fatalf("second Get: %v", err)
	}
}

func TestRegistry_ProviderNotConfigured(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{Catalog: []config.ModelEntry{{ID: "gpt-4o", Provider: "openai"}}})
	if _, _, err := r.Resolve("gpt-4o"); !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected provider not configured error, got %v", err)
	}
}

func TestRegistry_CheckAuth(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	r := NewRegistry(config.ModelsConfig{
		Catalog: []config.ModelEntry{
			{ID: "gemini-2.5-flash"},
			{ID: "llama3.2", Provider: "ollama"},
		},
		Providers: map[string]config.ProviderConfig{
			"ollama": {},
		},
	})

	if err := r.CheckAuth("gemini-2.5-flash"); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
	if err := r.CheckAuth("llama3.2"); err != nil {
		t.Errorf("ollama should need no credential: %v", err)
	}

	t.Setenv("GOOGLE_API_KEY", "k")
	if err := r.CheckAuth("gemini-2.5-flash"); err != nil {
		t.Errorf("CheckAuth: %v", err)
	}
}

func TestCreateModel_UnknownDriver(t *testing.T) {
	_, err := CreateModel(context.Background(), config.ProviderConfig{
		Driver: "nope",
		Auth:   config.AuthConfig{APIKey: "k"},
	}, "m")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestUnavailableError_Message(t *testing.T) {
	err := &UnavailableError{Provider: "ollama", Status: 502, Body: "bad gateway"}
	if got, want := err.Error(), "ollama unavailable (status 502): bad gateway"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
