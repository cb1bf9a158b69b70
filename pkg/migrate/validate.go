package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	bareCreateRe  = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?`)
	guardedCreate = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+IF\s+NOT\s+EXISTS\s+`)
	createdRe     = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+IF\s+NOT\s+EXISTS\s+([a-z0-9_]+)\s*\(`)
)

// ValidateDir checks migration filenames, goose headers and that every
// CREATE TABLE is guarded with IF NOT EXISTS.
func ValidateDir(dir string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if !strings.Contains(f.body, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", f.name)
		}
		if !strings.Contains(f.body, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", f.name)
		}
		if len(bareCreateRe.FindAllString(f.body, -1)) != len(guardedCreate.FindAllString(f.body, -1)) {
			return fmt.Errorf("migration %q has CREATE TABLE without IF NOT EXISTS", f.name)
		}
	}
	return nil
}

// CheckModelCoverage fails when a model table has no CREATE TABLE in dir.
// sqlite builds its schema from the models, so a gap here means postgres
// drifts from what the tests exercise.
func CheckModelCoverage(dir string) error {
	files, err := readMigrations(dir)
	if err != nil {
		return err
	}
	created := map[string]bool{}
	for _, f := range files {
		for _, m := range createdRe.FindAllStringSubmatch(f.body, -1) {
			created[strings.ToLower(m[1])] = true
		}
	}

	tables, err := ModelTables()
	if err != nil {
		return err
	}
	var missing []string
	for _, table := range tables {
		if !created[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("no migration creates %s", strings.Join(missing, ", "))
	}
	return nil
}

type migrationFile struct {
	name string
	body string
}

func readMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		files = append(files, migrationFile{name: name, body: string(b)})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %q", dir)
	}
	return files, nil
}
