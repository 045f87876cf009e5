package resumes

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rpupo63/portfolia-backend/errs"
)

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":1}\nHope it helps!", `{"a":1}`},
		{"trailing commas", `{"a":[1,2,],"b":{"c":3,},}`, `{"a":[1,2],"b":{"c":3}}`},
		{"no object", "sorry, I cannot help", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSON(tt.in); got != tt.want {
				t.Errorf("CleanJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserParse(t *testing.T) {
	llm := &fakeCompleter{reply: "```json\n" + `{
		"name": "Ada",
		"projects": [{"title": "Engine", "tech": ["Go"]}, {"title": ""}],
		"skills": [{"name": "Go", "level": "expert", "category": "Backend"}],
	}` + "\n```"}

	data, err := NewParser(llm, 8000).Parse(context.Background(), "Ada Lovelace\nEngineer")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if data.Name != "Ada" {
		t.Errorf("name = %q", data.Name)
	}
	if len(data.Projects) != 1 {
		t.Errorf("projects = %+v, want the untitled one dropped", data.Projects)
	}
	if data.Skills[0].Level != "Advanced" {
		t.Errorf("level = %q, want Advanced", data.Skills[0].Level)
	}
	if !strings.Contains(llm.prompt, "Ada Lovelace") {
		t.Error("prompt does not contain the resume text")
	}
}

func TestParserTruncatesText(t *testing.T) {
	llm := &fakeCompleter{reply: `{}`}
	text := strings.Repeat("é", 50) + "TAIL"

	if _, err := NewParser(llm, 50).Parse(context.Background(), text); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if strings.Contains(llm.prompt, "TAIL") {
		t.Error("text beyond the limit was sent to the model")
	}
	if !utf8.ValidString(llm.prompt) {
		t.Error("truncation split a multi-byte character")
	}
}

func TestParserMalformedResponse(t *testing.T) {
	for _, reply := range []string{"not json at all", `{"projects": [}`} {
		llm := &fakeCompleter{reply: reply}
		_, err := NewParser(llm, 0).Parse(context.Background(), "resume")
		if !errors.Is(err, errs.ErrMalformedAIResponse) {
			t.Fatalf("reply %q: error = %v, want malformed AI response", reply, err)
		}
		if got := errs.StatusOf(err); got != http.StatusUnprocessableEntity {
			t.Errorf("reply %q: status = %d, want 422", reply, got)
		}
		if llm.calls != 1 {
			t.Errorf("reply %q: calls = %d, want exactly one", reply, llm.calls)
		}
	}
}

func TestParserPassesThroughUpstreamErrors(t *testing.T) {
	upstream := errs.NewTimeoutError("AI service", 0)
	_, err := NewParser(&fakeCompleter{err: upstream}, 0).Parse(context.Background(), "resume")
	if !errors.Is(err, errs.ErrTimeout) {
		t.Fatalf("error = %v, want timeout", err)
	}
}

func TestParserEmptyText(t *testing.T) {
	llm := &fakeCompleter{reply: `{}`}
	_, err := NewParser(llm, 0).Parse(context.Background(), "  \n ")
	if got := errs.StatusOf(err); got != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", got)
	}
	if llm.calls != 0 {
		t.Error("model was called for an empty resume")
	}
}
