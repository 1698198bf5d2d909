package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open conecta con la base de datos de tenencias y ejecuta las migraciones.
// driver es "sqlite3" (source es una ruta) o "postgres" (source es un DSN).
func Open(driver, source string) (*sql.DB, error) {
	switch driver {
	case "sqlite3":
		// Crear el directorio si no existe
		if dir := filepath.Dir(source); dir != "." && source != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite admite un solo escritor y una base en memoria vive en una sola conexión
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
