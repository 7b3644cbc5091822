package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/clausius/internal/dataset"
	"github.com/ppiankov/clausius/internal/model"
)

// mockRunner implements Runner
type mockRunner struct {
	shouldError bool
	calls       int32
}

func (m *mockRunner) Run(ctx context.Context, ds *dataset.Dataset) (*model.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.shouldError {
		return nil, errors.New("run error")
	}
	return &model.Report{Subject: ds.Name}, nil
}

func writeDatasets(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		ds := dataset.Default()
		ds.Name = name
		paths[i] = filepath.Join(dir, name+".yaml")
		require.NoError(t, dataset.Save(paths[i], ds))
	}
	return paths
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	paths := writeDatasets(t, names...)
	runner := &mockRunner{}

	results := NewBatchProcessor(runner, 2).ProcessPaths(context.Background(), paths)

	require.Len(t, results, 5)
	for i, res := range results {
		require.NoError(t, res.Error)
		assert.Equal(t, i, res.Index)
		assert.Equal(t, paths[i], res.Path)
		assert.Equal(t, names[i], res.Report.Subject)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&runner.calls))
}

func TestBatchProcessor_RunnerError(t *testing.T) {
	paths := writeDatasets(t, "a")

	results := NewBatchProcessor(&mockRunner{shouldError: true}, 2).ProcessPaths(context.Background(), paths)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Error)
	assert.Nil(t, results[0].Report)
}

func TestBatchProcessor_MissingDataset(t *testing.T) {
	runner := &mockRunner{}

	results := NewBatchProcessor(runner, 2).ProcessPaths(context.Background(), []string{"no_such_dataset.yaml"})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Error)
	assert.Zero(t, atomic.LoadInt32(&runner.calls))
}

func TestBatchProcessor_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockRunner{}, 2).ProcessPaths(context.Background(), nil)
	assert.Empty(t, results)
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	paths := writeDatasets(t, "a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchProcessor(&mockRunner{}, 1).ProcessPaths(ctx, paths)

	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, errors.Is(res.Error, context.Canceled), "got %v", res.Error)
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	paths := writeDatasets(t, "a", "b")
	list := writeList(t, paths[0]+"\n# comment\n\n"+paths[1]+"\n"+paths[0]+"\n")

	results, err := NewBatchProcessor(&mockRunner{}, 2).ProcessFile(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = NewBatchProcessor(&mockRunner{}, 2).ProcessFile(context.Background(), "no_such_file.txt")
	assert.Error(t, err)
}

func TestReadPathsFromFile(t *testing.T) {
	list := writeList(t, "a.yaml\n# comment\nb.yaml\n   \n  c.yaml   \na.yaml\n")

	paths, err := ReadPathsFromFile(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml", "c.yaml"}, paths)

	_, err = ReadPathsFromFile("non_existent_file.txt")
	assert.Error(t, err)
}

func TestDatasetResult_GetError(t *testing.T) {
	assert.NoError(t, (&DatasetResult{}).GetError())

	expected := errors.New("failed")
	assert.Equal(t, expected, (&DatasetResult{Error: expected}).GetError())
}
