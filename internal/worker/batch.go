package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/verimed/citegate/internal/model"
)

// Checker gates one response file against its evidence files
type Checker interface {
	CheckFiles(ctx context.Context, responsePath string, evidencePaths []string) (*model.Report, error)
}

// Pair is one manifest entry: a response file and the evidence files it
// must be verified against
type Pair struct {
	Response string
	Evidence []string
}

// CheckJob gates a single response/evidence pair
type CheckJob struct {
	Pair    Pair
	Checker Checker
}

// Execute runs the gate for the job's pair
func (j *CheckJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.CheckFiles(ctx, j.Pair.Response, j.Pair.Evidence)
	return &CheckResult{
		ResponsePath: j.Pair.Response,
		Report:       report,
		Error:        err,
	}
}

// CheckResult is the outcome of one gate job
type CheckResult struct {
	ResponsePath string
	Report       *model.Report
	Error        error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor gates many response/evidence pairs concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessPairs gates the given pairs using the worker pool
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair) []*CheckResult {
	if len(pairs) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, pair := range pairs {
		pool.Submit(&CheckJob{Pair: pair, Checker: b.checker})
	}

	results := pool.Wait()

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}

	return checkResults
}

// ProcessManifest reads pairs from a manifest file and gates them
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*CheckResult, error) {
	pairs, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPairs(ctx, pairs), nil
}

// ReadManifest parses a manifest file. One pair per line: the response
// file path, whitespace, then a comma-separated list of evidence file
// paths. Blank lines and #-comments are skipped.
func ReadManifest(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var pairs []Pair

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("manifest line %d: want \"response evidence[,evidence...]\", got %q", line, text)
		}

		pairs = append(pairs, Pair{
			Response: fields[0],
			Evidence: strings.Split(fields[1], ","),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return pairs, nil
}
