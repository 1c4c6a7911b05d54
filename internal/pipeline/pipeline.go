package pipeline

import (
	"runtime"
	"sync"
)

// Job is one export file scheduled for analysis.
type Job struct {
	Index int
	Path  string
}

type Analyzer func(job Job) error

// AnalyzeFiles fans the given export paths out to a bounded worker pool.
// The result has one slot per input path, nil where the analyzer succeeded.
func AnalyzeFiles(paths []string, workers int, fn Analyzer) []error {
	if len(paths) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	jobs := make(chan Job)
	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Workers write to disjoint indices, no lock needed.
				errs[job.Index] = fn(job)
			}
		}()
	}

	for i, path := range paths {
		jobs <- Job{Index: i, Path: path}
	}
	close(jobs)
	wg.Wait()

	return errs
}
