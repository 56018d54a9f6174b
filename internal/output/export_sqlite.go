package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/metrics"

	_ "modernc.org/sqlite"
)

// columnName turns a field key into a snake_case column: timeBetweenShots -> time_between_shots.
func columnName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportSQLite writes the weapon catalog and the per-weapon comparison stats
// against env into a fresh SQLite database at path.
func ExportSQLite(ctx context.Context, path string, records []domain.WeaponRecord, env domain.Environment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite open: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return err
	}

	cols := make([]string, 0, len(domain.Fields))
	defs := make([]string, 0, len(domain.Fields)+1)
	defs = append(defs, "id INTEGER PRIMARY KEY")
	for _, f := range domain.Fields {
		col := quoteIdent(columnName(f.Key))
		cols = append(cols, col)
		if f.Kind == domain.FieldText {
			defs = append(defs, col+" TEXT NOT NULL")
		} else {
			defs = append(defs, col+" REAL NOT NULL")
		}
	}

	for _, ddl := range []string{
		"CREATE TABLE weapons (" + strings.Join(defs, ", ") + ")",
		`CREATE TABLE weapon_stats (
			weapon_id INTEGER PRIMARY KEY REFERENCES weapons(id) ON DELETE CASCADE,
			target_hp REAL NOT NULL,
			rate_of_fire REAL NOT NULL,
			dps_body REAL NOT NULL,
			dps_head REAL NOT NULL,
			btk_body INTEGER,
			ttk_body REAL,
			btk_head INTEGER,
			ttk_head REAL
		)`,
		"CREATE INDEX idx_weapons_name ON weapons(name)",
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	insertWeapon, err := tx.PrepareContext(ctx, "INSERT INTO weapons (id, "+strings.Join(cols, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return err
	}
	defer insertWeapon.Close()

	insertStats, err := tx.PrepareContext(ctx, `INSERT INTO weapon_stats
		(weapon_id, target_hp, rate_of_fire, dps_body, dps_head, btk_body, ttk_body, btk_head, ttk_head)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertStats.Close()

	for i := range records {
		id := int64(i + 1)
		args := make([]any, 0, len(cols)+1)
		args = append(args, id)
		for _, f := range domain.Fields {
			if f.Kind == domain.FieldText {
				args = append(args, *f.Text(&records[i]))
			} else {
				args = append(args, *f.Number(&records[i]))
			}
		}
		if _, err := insertWeapon.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert weapon %q: %w", records[i].Name, err)
		}

		s := metrics.ComputeComparisonStats(records[i], env)
		bb, tb := killColumns(s.Body)
		bh, th := killColumns(s.Head)
		if _, err := insertStats.ExecContext(ctx, id, env.TotalEffectiveHP(), s.RateOfFire, s.DPSBody, s.DPSHead, bb, tb, bh, th); err != nil {
			return fmt.Errorf("insert stats %q: %w", records[i].Name, err)
		}
	}
	return tx.Commit()
}

// killColumns maps invalid kills to NULL.
func killColumns(k metrics.Kill) (sql.NullInt64, sql.NullFloat64) {
	if !k.Valid {
		return sql.NullInt64{}, sql.NullFloat64{}
	}
	return sql.NullInt64{Int64: int64(k.Bullets), Valid: true}, sql.NullFloat64{Float64: k.Seconds, Valid: true}
}
