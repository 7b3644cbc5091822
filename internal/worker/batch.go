package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/model"
)

// Runner analyses one dataset
type Runner interface {
	Run(ctx context.Context, ds *dataset.Dataset) (*model.Report, error)
}

// DatasetJob loads a dataset file and runs it through the pipeline
type DatasetJob struct {
	Index  int
	Path   string
	Runner Runner
}

// Execute executes the dataset job
func (j *DatasetJob) Execute(ctx context.Context) Result {
	res := &DatasetResult{Index: j.Index, Path: j.Path}

	ds, err := dataset.Load(j.Path)
	if err != nil {
		res.Error = err
		return res
	}

	res.Report, res.Error = j.Runner.Run(ctx, ds)
	return res
}

// DatasetResult represents the result of a dataset job
type DatasetResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the dataset result
func (r *DatasetResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses many dataset files concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessPaths runs every dataset and returns results in input order. Jobs
// never submitted because ctx was cancelled carry ctx's error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DatasetResult {
	if len(paths) == 0 {
		return []*DatasetResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		pool.Submit(&DatasetJob{Index: i, Path: path, Runner: b.runner})
	}

	out := make([]*DatasetResult, len(paths))
	for _, r := range pool.Wait() {
		res := r.(*DatasetResult)
		out[res.Index] = res
	}
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DatasetResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return out
}

// ProcessFile reads dataset paths from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*DatasetResult, error) {
	paths, err := ReadPathsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read dataset list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads dataset paths from a file (one per line)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
