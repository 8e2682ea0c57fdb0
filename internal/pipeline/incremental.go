package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/fcast/internal/ledger"
	"github.com/theirongolddev/fcast/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int
}

// LoadWithCache discovers ledger files, diffs them against the cache by mtime
// and size, parses only changed files and returns the combined ledger.
// Files that disappeared from disk are pruned from the cache.
func LoadWithCache(ledgerDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := ledger.ScanDir(ledgerDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ledgerDir, err)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			AccountCount: ledger.CountAccounts(files),
		},
	}

	present := make(map[string]struct{}, len(files))
	var toReparse []ledger.DiscoveredFile
	unchanged := make(map[string]struct{})

	for _, f := range files {
		present[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := present[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err == nil {
			result.Pruned++
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		led, err := cache.LoadFiles(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached records: %w", err)
		}
		result.Ledger.Append(led)
		result.ParsedFiles += len(unchanged)
		if progressFn != nil {
			progressFn(result.CacheHits, result.TotalFiles)
		}
	}

	if len(toReparse) == 0 {
		return result, nil
	}

	for i, pr := range parseAll(toReparse, progressFn, result.CacheHits, result.TotalFiles) {
		result.collect(pr)
		if pr.Err != nil {
			continue
		}
		info, err := os.Stat(toReparse[i].Path)
		if err == nil {
			_ = cache.SaveFile(toReparse[i].Path, pr.Ledger, info.ModTime().UnixNano(), info.Size())
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "fcast")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "ledger.db")
}
