package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolia-backend/models"
)

func TestProjectCRUD(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	router := newTestRouter(t, db, &fakeLLM{})
	aliceToken := tokenFor(t, alice)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects", aliceToken, `{"id": 99, "title": "Compiler", "stack": ["Go"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.Project](t, rec)
	if created.ID == 0 || created.ID == 99 {
		t.Fatalf("created id = %d, want a storage-assigned id", created.ID)
	}
	path := fmt.Sprintf("/api/v1/projects/%d", created.ID)

	rec = doRequest(t, router, http.MethodPut, path, aliceToken, `{"description": "Self hosting"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d (%s)", rec.Code, rec.Body.String())
	}
	updated := decodeBody[models.Project](t, rec)
	if updated.Title != "Compiler" || updated.Description != "Self hosting" {
		t.Fatalf("updated = %+v, want title kept and description set", updated)
	}

	bobToken := tokenFor(t, bob)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := doRequest(t, router, method, path, bobToken, `{"title": "Stolen"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s by another user status = %d, want 404", method, rec.Code)
		}
	}

	rec = doRequest(t, router, http.MethodDelete, path, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d (%s)", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, router, http.MethodGet, path, aliceToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestResourceValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ada")
	router := newTestRouter(t, db, &fakeLLM{})
	token := tokenFor(t, user)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"project without title", "/api/v1/projects", `{"description": "nameless"}`, http.StatusBadRequest},
		{"skill without name", "/api/v1/skills", `{"level": "Advanced"}`, http.StatusBadRequest},
		{"bad id", "/api/v1/projects/abc", ``, http.StatusBadRequest},
		{"invalid json", "/api/v1/awards", `{"title":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if tt.body == "" {
				method = http.MethodGet
			}
			rec := doRequest(t, router, method, tt.path, token, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSkillCreateCanonicalizes(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ada")
	router := newTestRouter(t, db, &fakeLLM{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/skills", tokenFor(t, user), `{"name": "Go", "level": "advanced", "category": "backend"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	skill := decodeBody[models.Skill](t, rec)
	if skill.Level != models.SkillLevelAdvanced || skill.Category != models.SkillCategoryBackend {
		t.Fatalf("skill = %+v, want canonical level and category", skill)
	}
}
