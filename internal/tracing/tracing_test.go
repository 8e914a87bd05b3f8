package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "spans.txt")
	require.NoError(t, Init("leadrouter", "test", fname))

	_, span := StartSpan(context.Background(), "test")
	span.SetInt64("operator_id", 1).SetString("outcome", "assigned")
	EndSpan(span, nil)

	_, failed := StartSpan(context.Background(), "failing")
	EndSpan(failed, errors.New("boom"))

	require.NoError(t, Shutdown(context.Background()))
	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Contains(t, string(data), "operator_id")
	require.Contains(t, string(data), "boom")
}

func TestInit_InstalledProviderKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")

	require.NoError(t, Init("leadrouter", "test", first))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	require.NoError(t, Init("leadrouter", "test", second))
	_, err := os.Stat(second)
	require.True(t, os.IsNotExist(err), "second Init must not open another file")

	require.NoError(t, Shutdown(context.Background()))
	require.NoError(t, Shutdown(context.Background()))

	require.NoError(t, Init("leadrouter", "test", second))
	_, err = os.Stat(second)
	require.NoError(t, err)
}

func TestInit_BadOutputPath(t *testing.T) {
	err := Init("leadrouter", "test", filepath.Join(t.TempDir(), "missing", "spans.txt"))
	require.Error(t, err)

	_, span := StartSpan(context.Background(), "noop")
	require.NotPanics(t, func() { EndSpan(span, nil) })
}

func TestEndSpan_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		EndSpan(nil, nil)
		var s *Span
		s.SetInt64("k", 1)
	})
}
