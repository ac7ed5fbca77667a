// Package database opens and migrates the sqlite store backing the game
// library.
package database

import (
	"io/fs"
	"os"
	"path"

	"steamlib/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (creating if needed) the sqlite database at dbPath and applies
// schema migrations. The returned handle is meant to be passed explicitly to
// every service that needs it.
func Open(dbPath string, debug bool) (*gorm.DB, error) {
	dir := path.Dir(dbPath)
	if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
		return nil, err
	}

	gormLogger := logger.Discard
	if debug {
		gormLogger = logger.Default
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	// _foreign_keys must ride on the DSN so every pooled connection gets it.
	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA cache_size = -64000;",
		"PRAGMA temp_store = MEMORY;",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return nil, err
		}
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// migrate creates or updates the schema. Order matters: referenced tables
// first so foreign key constraints resolve.
func migrate(db *gorm.DB) error {
	models := []any{
		&model.Access{},
		&model.User{},
		&model.Publisher{},
		&model.Game{},
		&model.UserGame{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

// Close checkpoints the WAL and closes the underlying connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	_ = Checkpoint(db)
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Checkpoint(db *gorm.DB) error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
