// Package migrations embeds the SQL schema files so the migration runner and
// the integration tests apply the same statements.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

type File struct {
	Name string
	SQL  string
}

// Load returns the migration files for direction ("up" or "down") in the
// order they must be applied.
func Load(direction string) ([]File, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("direction must be 'up' or 'down', got %q", direction)
	}

	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), "."+direction+".sql") {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	if direction == "down" {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	result := make([]File, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", name, err)
		}
		result = append(result, File{Name: name, SQL: string(content)})
	}

	return result, nil
}
