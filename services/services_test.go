package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rpupo63/portfolia-backend/models"
)

func TestResumeFileType(t *testing.T) {
	tests := map[string]string{
		"cv.pdf":      models.ResumeFileTypePDF,
		"CV.PDF":      models.ResumeFileTypePDF,
		"resume.docx": models.ResumeFileTypeDOCX,
		"resume.doc":  "",
		"notes.txt":   "",
		"noext":       "",
	}
	for name, want := range tests {
		if got := ResumeFileType(name); got != want {
			t.Errorf("ResumeFileType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestExtractTextRejectsUnsupportedAndCorruptFiles(t *testing.T) {
	if _, err := ExtractText("cv.txt", []byte("hello")); err == nil {
		t.Error("ExtractText(.txt) succeeded, want error")
	}
	if _, err := ExtractText("cv.pdf", []byte("definitely not a pdf")); err == nil {
		t.Error("ExtractText(corrupt pdf) succeeded, want error")
	}
	if _, err := ExtractText("cv.docx", []byte("definitely not a zip")); err == nil {
		t.Error("ExtractText(corrupt docx) succeeded, want error")
	}
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Ada Lovelace</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>R&amp;D Engineer</w:t><w:tab/><w:t>London</w:t></w:r></w:p></w:body>`

	got := docxXMLToText(xml)
	want := "Ada Lovelace\nR&D Engineer\nLondon"
	if got != want {
		t.Errorf("docxXMLToText() = %q, want %q", got, want)
	}
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}

	path, err := store.Upload(ctx, 7, "../../My CV.PDF", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(path, "resumes/7/") || !strings.HasSuffix(path, ".pdf") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(path))); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	data, err := store.Download(ctx, path)
	if err != nil || !bytes.Equal(data, []byte("%PDF-1.4")) {
		t.Fatalf("Download() = %q, %v", data, err)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, path); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
	if _, err := store.Download(ctx, path); !errs.IsNotFound(err) {
		t.Errorf("Download() after delete error = %v, want not found", err)
	}
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(base, "files"))
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	outside := filepath.Join(base, "secret.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(context.Background(), "../secret.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("file outside the storage directory was deleted")
	}
}

func TestNewFileStorageUnknownType(t *testing.T) {
	_, err := NewFileStorage(context.Background(), config.StorageConfig{Type: "ftp"})
	if !errors.Is(err, errs.ErrConfigInvalid) {
		t.Fatalf("error = %v, want invalid configuration", err)
	}
}

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		Provider:           config.AIProviderOpenRouter,
		Timeout:            50 * time.Millisecond,
		BreakerMaxFailures: 2,
		BreakerCooldown:    time.Minute,
	}
}

func TestLLMComplete(t *testing.T) {
	var gotSystem, gotPrompt string
	llm := newLLM(testAIConfig(), func(ctx context.Context, system, prompt string) (string, error) {
		gotSystem, gotPrompt = system, prompt
		return `{"name":"Ada"}`, nil
	})

	text, err := llm.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != `{"name":"Ada"}` || gotSystem != "sys" || gotPrompt != "user" {
		t.Errorf("Complete() = %q (system %q, prompt %q)", text, gotSystem, gotPrompt)
	}
}

func TestLLMErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		call   completeFunc
		status int
	}{
		{
			name: "upstream failure",
			call: func(ctx context.Context, system, prompt string) (string, error) {
				return "", errors.New("502 from provider")
			},
			status: http.StatusBadGateway,
		},
		{
			name: "timeout",
			call: func(ctx context.Context, system, prompt string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
			status: http.StatusGatewayTimeout,
		},
		{
			name: "empty answer",
			call: func(ctx context.Context, system, prompt string) (string, error) {
				return "  ", nil
			},
			status: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newLLM(testAIConfig(), tt.call)
			_, err := llm.Complete(context.Background(), "sys", "user")
			if got := errs.StatusOf(err); got != tt.status {
				t.Errorf("status = %d, want %d (err %v)", got, tt.status, err)
			}
		})
	}
}

func TestLLMCircuitBreakerOpens(t *testing.T) {
	calls := 0
	llm := newLLM(testAIConfig(), func(ctx context.Context, system, prompt string) (string, error) {
		calls++
		return "", errors.New("connection refused")
	})

	for i := 0; i < 2; i++ {
		if _, err := llm.Complete(context.Background(), "sys", "user"); !errors.Is(err, errs.ErrUpstreamUnavailable) {
			t.Fatalf("call %d error = %v, want upstream unavailable", i, err)
		}
	}

	_, err := llm.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, errs.ErrCircuitBreakerOpen) {
		t.Fatalf("error = %v, want circuit breaker open", err)
	}
	if got := errs.StatusOf(err); got != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", got)
	}
	if calls != 2 {
		t.Errorf("provider calls = %d, want 2", calls)
	}
}

func TestNewLLMRequiresKey(t *testing.T) {
	_, err := NewLLM(context.Background(), config.AIConfig{Provider: config.AIProviderGemini})
	if !errors.Is(err, errs.ErrConfigMissing) {
		t.Fatalf("error = %v, want missing configuration", err)
	}
}
