package source

import (
	"os"
	"path/filepath"
	"sort"
)

// ScanDir lists candidate statement files directly inside dir, newest first.
// Only files with an accepted extension are returned; subdirectories are not
// descended. A missing directory yields no files and no error.
func ScanDir(dir string) ([]*Statement, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []*Statement
	for _, e := range entries {
		if e.IsDir() || TypeForExt(filepath.Ext(e.Name())) == "" {
			continue
		}
		st, err := FromPath(filepath.Join(dir, e.Name()))
		if err != nil {
			continue // unreadable entries are skipped
		}
		files = append(files, st)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}
