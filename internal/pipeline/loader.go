package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/fcast/internal/ledger"
	"github.com/theirongolddev/fcast/internal/model"
)

// LoadResult holds the output of the full ledger loading pipeline.
type LoadResult struct {
	Ledger       model.Ledger
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	AccountCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every ledger file under ledgerDir.
// It uses a bounded worker pool for parallel parsing.
func Load(ledgerDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := ledger.ScanDir(ledgerDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ledgerDir, err)
	}

	result := &LoadResult{
		TotalFiles:   len(files),
		AccountCount: ledger.CountAccounts(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseAll(files, progressFn, 0, len(files)) {
		result.collect(pr)
	}
	return result, nil
}

func (r *LoadResult) collect(pr ledger.ParseResult) {
	if pr.Err != nil {
		r.FileErrors++
		return
	}
	r.ParsedFiles++
	r.ParseErrors += pr.ParseErrors
	r.Ledger.Append(pr.Ledger)
}

// parseAll parses files on min(GOMAXPROCS, len(files)) workers. Results keep
// the input order. Progress is reported as offset+n out of total.
func parseAll(files []ledger.DiscoveredFile, progressFn ProgressFunc, offset, total int) []ledger.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ledger.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ledger.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(offset+int(n), total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
