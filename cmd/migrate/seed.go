package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"ceylon-tours-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// seedTables lists the tables fixtures may target, in dependency order.
var seedTables = []string{"destinations", "tours", "blog_posts"}

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// seed upserts <table>.json from dir for every allowed table. Missing files are skipped.
func seed(db *sql.DB, dir string) error {
	for _, table := range seedTables {
		path := filepath.Join(dir, table+".json")
		rows, err := loadFixture(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}

		if err := seedTable(db, table, rows); err != nil {
			return fmt.Errorf("seed %s: %w", table, err)
		}
		logger.L().Info("seeded table", zap.String("table", table), zap.Int("rows", len(rows)))
	}
	return nil
}

func loadFixture(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func seedTable(db *sql.DB, table string, rows []map[string]any) error {
	if !allowedTable(table) {
		return fmt.Errorf("table %q is not seedable", table)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, row := range rows {
		query, args, err := upsertStatement(table, row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func allowedTable(table string) bool {
	for _, t := range seedTables {
		if t == table {
			return true
		}
	}
	return false
}

// upsertStatement builds an insert keyed on slug. Columns come from the
// fixture's keys so each one is checked before it reaches the query text.
func upsertStatement(table string, row map[string]any) (string, []any, error) {
	if _, ok := row["slug"]; !ok {
		return "", nil, errors.New("missing slug")
	}

	cols := make([]string, 0, len(row))
	for col := range row {
		if !identifierRe.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		v, err := columnValue(row[col])
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", col, err)
		}
		args[i] = v
		if col != "slug" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (slug) DO ",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if len(updates) == 0 {
		query += "NOTHING"
	} else {
		query += "UPDATE SET " + strings.Join(updates, ", ")
	}
	return query, args, nil
}

// columnValue maps decoded JSON onto driver values. String lists become
// Postgres text arrays; other objects and lists are stored as JSON text.
func columnValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool:
		return val, nil
	case json.Number:
		return val.String(), nil
	case []any:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return marshalText(val)
			}
			strs = append(strs, s)
		}
		return pq.Array(strs), nil
	default:
		return marshalText(val)
	}
}

func marshalText(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
