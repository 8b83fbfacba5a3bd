package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database per test. The pool is
// capped at one connection so concurrent test goroutines serialize instead of
// tripping over sqlite's write locking.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(&model.User{}, &model.Enquiry{}, &model.Message{}, &model.Order{}, &model.CartItem{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

func mustCreate(t *testing.T, gdb *gorm.DB, v interface{}) {
	t.Helper()
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
