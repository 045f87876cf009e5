package portfolio

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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
