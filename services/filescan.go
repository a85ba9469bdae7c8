package services

import (
	"os"
	"sort"
)

// FileScanner enumerates the module files listed in the assistant context.
// Purely descriptive: the listing enriches the prompt, nothing executes it.
type FileScanner interface {
	Scan() map[string][]string
}

// ModuleScanner lists files under the configured module directories, grouped
// by category. Missing or unreadable directories yield an empty category.
type ModuleScanner struct {
	dirs map[string]string
}

func NewModuleScanner(dirs map[string]string) *ModuleScanner {
	return &ModuleScanner{dirs: dirs}
}

func (s *ModuleScanner) Scan() map[string][]string {
	structure := make(map[string][]string, len(s.dirs))

	for category, dir := range s.dirs {
		names := make([]string, 0)

		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || entry.Name()[0] == '.' {
					continue
				}
				names = append(names, entry.Name())
			}
		}

		sort.Strings(names)
		structure[category] = names
	}

	return structure
}
