package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.AI.Provider != AIProviderOpenRouter {
		t.Errorf("ai provider = %q, want %q", cfg.AI.Provider, AIProviderOpenRouter)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("ai timeout = %s, want 60s", cfg.AI.Timeout)
	}
	if cfg.AI.MaxResumeChars != 8000 {
		t.Errorf("max resume chars = %d, want 8000", cfg.AI.MaxResumeChars)
	}
	if cfg.Resume.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("max upload bytes = %d, want 5MiB", cfg.Resume.MaxUploadBytes)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("AI_TEMPERATURE", "0.3")
	t.Setenv("ACCEPTED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_REPLICA_DSNS", "host=replica1,host=replica2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.AI.Provider != AIProviderGemini {
		t.Errorf("provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Timeout != 15*time.Second {
		t.Errorf("timeout = %s", cfg.AI.Timeout)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Errorf("temperature = %v", cfg.AI.Temperature)
	}
	if len(cfg.Server.AcceptedOrigins) != 2 || cfg.Server.AcceptedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.Server.AcceptedOrigins)
	}
	if len(cfg.Database.ReplicaDSNs) != 2 {
		t.Errorf("replicas = %v", cfg.Database.ReplicaDSNs)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "unknown provider", env: map[string]string{"JWT_SECRET": "s", "AI_PROVIDER": "mystery"}},
		{name: "s3 without bucket", env: map[string]string{"JWT_SECRET": "s", "STORAGE_TYPE": "s3"}},
		{name: "unknown storage", env: map[string]string{"JWT_SECRET": "s", "STORAGE_TYPE": "ftp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() error = nil, want error")
			}
		})
	}
}

type fakeSSM struct {
	values map[string]string
	calls  int
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("parameter not found")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func TestResolveSecrets(t *testing.T) {
	client := &fakeSSM{values: map[string]string{
		"/portfolia/ai-key": "sk-from-ssm",
		"/portfolia/jwt":    "jwt-from-ssm",
	}}
	cfg := &Config{
		AI:   AIConfig{APIKeySSMParam: "/portfolia/ai-key"},
		Auth: AuthConfig{JWTSecret: "already-set", JWTSecretSSMParam: "/portfolia/jwt"},
	}

	if !cfg.NeedsSecrets() {
		t.Fatal("NeedsSecrets() = false, want true")
	}
	if err := ResolveSecrets(context.Background(), cfg, client); err != nil {
		t.Fatalf("ResolveSecrets() error = %v", err)
	}
	if cfg.AI.APIKey != "sk-from-ssm" {
		t.Errorf("api key = %q", cfg.AI.APIKey)
	}
	if cfg.Auth.JWTSecret != "already-set" {
		t.Errorf("jwt secret was overwritten: %q", cfg.Auth.JWTSecret)
	}
	if client.calls != 1 {
		t.Errorf("ssm calls = %d, want 1", client.calls)
	}
}

func TestResolveSecretsMissingParameter(t *testing.T) {
	cfg := &Config{AI: AIConfig{APIKeySSMParam: "/missing"}}
	if err := ResolveSecrets(context.Background(), cfg, &fakeSSM{}); err == nil {
		t.Fatal("ResolveSecrets() error = nil, want error")
	}
}
