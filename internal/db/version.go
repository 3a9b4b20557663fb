package db

import "io/fs"

// SchemaVersion returns the number of embedded migration files for driver,
// which equals the catalogue schema version bookgraph was built against.
func SchemaVersion(driver string) int {
	_, fsys, err := dialectFS(driver)
	if err != nil {
		return 0
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
