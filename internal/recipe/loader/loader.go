// Package loader imports the ingredient catalog into PostgreSQL.
package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	"github.com/tair/foodgram/pkg/logger"
)

// IngredientRecord is one entry of the ingredient catalog file
type IngredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ReadIngredients parses a JSON array of ingredient records
func ReadIngredients(r io.Reader) ([]IngredientRecord, error) {
	var records []IngredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	for i := range records {
		records[i].Name = strings.TrimSpace(records[i].Name)
		records[i].MeasurementUnit = strings.TrimSpace(records[i].MeasurementUnit)
		if records[i].Name == "" || records[i].MeasurementUnit == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
	}
	return records, nil
}

// Loader writes ingredient records with COPY
type Loader struct {
	db *sql.DB
}

// NewLoader creates a new loader
func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// Count returns the number of stored ingredients
func (l *Loader) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingredients").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

// Load copies all records in one transaction
func (l *Loader) Load(ctx context.Context, records []IngredientRecord) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("ingredients", "name", "measurement_unit"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.Name, record.MeasurementUnit); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy ingredient %q: %w", record.Name, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingredients: %w", err)
	}

	logger.Logger.Info().Int("count", len(records)).Msg("Ingredients loaded")
	return nil
}

// Clear deletes every ingredient together with the recipe rows referencing them
func (l *Loader) Clear(ctx context.Context) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredients"); err != nil {
		return 0, fmt.Errorf("failed to delete recipe ingredients: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM ingredients")
	if err != nil {
		return 0, fmt.Errorf("failed to delete ingredients: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted ingredients: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit clear: %w", err)
	}
	return deleted, nil
}

// Store is the ingredient table an import writes to
type Store interface {
	Count(ctx context.Context) (int64, error)
	Load(ctx context.Context, records []IngredientRecord) error
	Clear(ctx context.Context) (int64, error)
}

// Result describes what an import did
type Result struct {
	Deleted  int64
	Existing int64
	Loaded   int
	Skipped  bool
}

// Import loads the catalog into an empty table. A populated table is left
// untouched unless clearFirst is set, in which case it is emptied first.
// The catalog is only opened when it is going to be loaded.
func Import(ctx context.Context, store Store, open func() (io.ReadCloser, error), clearFirst bool) (Result, error) {
	var result Result

	if clearFirst {
		deleted, err := store.Clear(ctx)
		if err != nil {
			return result, err
		}
		result.Deleted = deleted
	} else {
		count, err := store.Count(ctx)
		if err != nil {
			return result, err
		}
		if count > 0 {
			result.Existing = count
			result.Skipped = true
			return result, nil
		}
	}

	f, err := open()
	if err != nil {
		return result, fmt.Errorf("failed to open ingredient catalog: %w", err)
	}
	defer f.Close()

	records, err := ReadIngredients(f)
	if err != nil {
		return result, err
	}
	if err := store.Load(ctx, records); err != nil {
		return result, err
	}
	result.Loaded = len(records)
	return result, nil
}
