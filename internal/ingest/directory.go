// Package ingest finds the documents to process: a one-shot listing of the
// input directory and a watcher for documents dropped into it later.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type DirStats struct {
	Scanned uint32 // directory entries seen
	Matched uint32 // PDFs returned
	Skipped uint32 // hidden files, directories and other extensions
}

// ListPDFs returns the PDFs directly inside root (no recursion), sorted by
// file name. An empty result is not an error.
func ListPDFs(root string) ([]string, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("input directory is required")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, stats, fmt.Errorf("read dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		stats.Scanned++
		if e.IsDir() || IsHidden(e.Name()) || !IsPDF(e.Name()) {
			stats.Skipped++
			continue
		}
		if !e.Type().IsRegular() {
			// follow symlinks to regular files
			info, err := os.Stat(filepath.Join(root, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				stats.Skipped++
				continue
			}
		}
		out = append(out, filepath.Join(root, e.Name()))
		stats.Matched++
	}
	sort.Slice(out, func(i, j int) bool {
		return filepath.Base(out[i]) < filepath.Base(out[j])
	})
	return out, stats, nil
}
