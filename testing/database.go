// Package testing provides test utilities and database setup for testing the blog platform
package testing

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/quillhq/inkwell/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a test database instance
type TestDB struct {
	DB   *gorm.DB
	Name string
}

// SetupTestDB creates an isolated in-memory database and migrates the full
// schema into it. Each call gets its own database, so parallel tests never
// observe each other's rows.
func SetupTestDB() (*TestDB, error) {
	// Unique shared-cache name keeps the database alive across the pooled
	// connections GORM opens for one *gorm.DB.
	dbName := fmt.Sprintf("inkwell_test_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database %s: %w", dbName, err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys on %s: %w", dbName, err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.AccountSession{},
		&models.AuditLog{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate test database %s: %w", dbName, err)
	}

	return &TestDB{
		DB:   db,
		Name: dbName,
	}, nil
}

// TeardownTestDB closes the underlying connection, which drops the
// in-memory database.
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB == nil {
		return nil
	}

	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TestWithDB runs a test function against a fresh database and tears it
// down afterwards.
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CleanupTables deletes all rows from every table without dropping the
// schema, for tests that reuse one database across subtests.
func (tdb *TestDB) CleanupTables() error {
	tables := []string{
		"post_tags",
		"comments",
		"posts",
		"tags",
		"audit_log",
		"account_sessions",
		"profiles",
		"accounts",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}
	return nil
}
