package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret = "test-secret"
	testIssuer = "portfolia"
)

func newTestDB(t *testing.T) database.Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.New(gdb)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db database.Database, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:        username,
		Email:           username + "@example.com",
		FullName:        "Full " + username,
		ThemePreference: models.ThemeClassic,
	}
	if err := db.UserRepo().Add(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			RequestTimeout:  10 * time.Second,
			AcceptedOrigins: []string{"http://localhost:5173"},
		},
		Auth:   config.AuthConfig{JWTSecret: testSecret, Issuer: testIssuer},
		AI:     config.AIConfig{MaxResumeChars: 8000},
		Resume: config.ResumeConfig{MaxUploadBytes: 1 << 20},
	}
}

func newTestRouter(t *testing.T, db database.Database, llm *fakeLLM) http.Handler {
	t.Helper()
	return newTestRouterWithConfig(t, db, llm, testConfig())
}

func newTestRouterWithConfig(t *testing.T, db database.Database, llm *fakeLLM, cfg *config.Config) http.Handler {
	t.Helper()
	storage, err := services.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	deps := Dependencies{
		Storage: storage,
		LLM:     llm,
		Extract: func(filename string, data []byte) (string, error) {
			return "Ada Lovelace\nEngineer\n" + string(data), nil
		},
	}
	return newRouter(db, withConfig(cfg), withDependencies(deps), withStartupTime(time.Now()))
}

func signToken(t *testing.T, subject string, issuer string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func tokenFor(t *testing.T, user *models.User) string {
	return signToken(t, strconv.FormatUint(uint64(user.ID), 10), testIssuer, time.Hour)
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
