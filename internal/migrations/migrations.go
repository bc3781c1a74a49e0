// Package migrations embeds the SQL schema for both supported databases.
package migrations

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed *.sql
var postgres embed.FS

//go:embed sqlite/*.sql
var sqlite embed.FS

type Migration struct {
	Name string
	SQL  string
}

// Postgres returns the Postgres migrations in apply order.
func Postgres() ([]Migration, error) {
	return load(postgres, ".")
}

// SQLite returns the SQLite migrations in apply order.
func SQLite() ([]Migration, error) {
	return load(sqlite, "sqlite")
}

func load(fsys embed.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	return out, nil
}
