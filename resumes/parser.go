package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/portfolia-backend/errs"
	"github.com/rs/zerolog/log"
)

// Completer sends one system + user prompt pair to a language model and
// returns the raw answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const systemPrompt = "Return ONLY valid JSON. No extra text."

const promptTemplate = `Extract ALL information from this resume and return ONLY valid JSON.

Resume:
%s

Extract:
- ALL skills (minimum 15-20 if available) from the skills section, projects and work experience
- ALL projects with technologies and features
- ALL certifications, awards and achievements
- Write 2 sentence descriptions

Return ONLY this JSON (no markdown, no extra text):
{
  "name": "Full Name",
  "title": "Job Title",
  "location": "City, Country",
  "email": "email",
  "about": "2 sentence summary of expertise and experience",
  "github": "username",
  "linkedin": "username",
  "website": "url",
  "work_experience": [{"title": "Job Title", "company": "Company Name", "duration": "Start - End Date", "location": "City, Country", "description": "2-3 sentences about responsibilities and impact"}],
  "projects": [{"title": "name", "description": "2 sentences", "tech": ["tech1"], "features": ["feature1"]}],
  "skills": [{"name": "skill", "level": "Beginner|Intermediate|Advanced", "category": "Frontend|Backend|DevOps|Database|Cloud|AI/ML|Mobile|Other"}],
  "certifications": [{"name": "Certificate Name", "issuer": "Issuing Org", "year": "YYYY", "description": "Brief description"}],
  "achievements": [{"title": "title", "issuer": "org", "date": "YYYY", "type": "award|internship|other", "description": "1-2 sentences"}]
}

Categories: Frontend (React, Vue, JS), Backend (Python, Java, Node), DevOps (Docker, K8s), Database (SQL, Mongo), Cloud (AWS, Azure), AI/ML (TensorFlow, PyTorch), Mobile (Android, iOS), Other
`

type Parser struct {
	llm      Completer
	maxChars int
}

// NewParser returns a Parser that sends at most maxChars characters of
// resume text to llm. maxChars <= 0 disables truncation.
func NewParser(llm Completer, maxChars int) Parser {
	return Parser{llm: llm, maxChars: maxChars}
}

// Parse extracts structured data from resume text. Transport failures are
// returned as they come from the Completer; an unusable answer becomes a
// 422 malformed-response error.
func (p Parser) Parse(ctx context.Context, text string) (ExtractedData, error) {
	text = p.truncate(strings.TrimSpace(text))
	if text == "" {
		return ExtractedData{}, errs.NewUnprocessableError("file", "no text could be extracted from the resume")
	}

	raw, err := p.llm.Complete(ctx, systemPrompt, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		return ExtractedData{}, err
	}

	data, err := DecodeExtracted(raw)
	if err != nil {
		log.Warn().Err(err).Int("responseLength", len(raw)).Msg("AI returned unusable resume data")
		return ExtractedData{}, err
	}
	data.DropIncomplete()

	log.Info().
		Int("projects", len(data.Projects)).
		Int("skills", len(data.Skills)).
		Int("workExperience", len(data.WorkExperience)).
		Int("certifications", len(data.Certifications)).
		Int("achievements", len(data.Achievements)).
		Msg("resume parsed")
	return data, nil
}

func (p Parser) truncate(text string) string {
	if p.maxChars <= 0 || utf8.RuneCountInString(text) <= p.maxChars {
		return text
	}
	log.Warn().Int("maxChars", p.maxChars).Msg("resume text truncated")
	return string([]rune(text)[:p.maxChars])
}

// DecodeExtracted cleans up a model answer and decodes it into normalised
// ExtractedData.
func DecodeExtracted(raw string) (ExtractedData, error) {
	var data ExtractedData
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return data, errs.NewMalformedAIResponseError("AI response contained no JSON object", nil)
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return data, errs.NewMalformedAIResponseError("AI returned invalid JSON format", err)
	}
	data.Normalize()
	return data, nil
}

var (
	fencePattern         = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// CleanJSON strips markdown code fences, any prose around the outermost JSON
// object and trailing commas before closing brackets. It returns "" when no
// object is present.
func CleanJSON(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	s = s[start : end+1]
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}
