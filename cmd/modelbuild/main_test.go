package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randolang/randolang/language"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "cmudict.dict")
	require.NoError(t, os.WriteFile(dictPath, []byte("BID  B IH1 D\nKIT  K IH1 T\nZOO  Z UW1\n"), 0o644))
	vocabPath := filepath.Join(dir, "vocab.txt")
	require.NoError(t, os.WriteFile(vocabPath, []byte("bid kit\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(),
		[]string{"-dict", dictPath, "-vocab", vocabPath, "-order", "1", "-log-level", "error"}, &out))

	m, err := language.LoadCounts(&out)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Order())
	// START->B, START->K, B->IH, K->IH, IH->D, IH->T, D->STOP, T->STOP
	assert.Equal(t, 8, m.Transitions())

	outPath := filepath.Join(dir, "model.counts")
	require.NoError(t, run(context.Background(),
		[]string{"-dict", dictPath, "-order", "2", "-output", outPath, "-log-level", "error"}, &out))
	m, err = language.LoadCountsFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Order())
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-dict", filepath.Join(t.TempDir(), "missing")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dictionary")
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestWriteCountsReportsClose(t *testing.T) {
	m, err := language.FromNested(map[string]any{
		"START": map[string]any{"B": 1},
		"B":     map[string]any{"STOP": 1},
	})
	require.NoError(t, err)

	errDisk := errors.New("disk full")
	w := &failingCloser{err: errDisk}
	require.ErrorIs(t, writeCounts(w, m), errDisk)
	assert.NotEmpty(t, w.String())

	require.NoError(t, writeCounts(&failingCloser{}, m))
}

func TestRunOutputDirMissing(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "cmudict.dict")
	require.NoError(t, os.WriteFile(dictPath, []byte("BID  B IH1 D\n"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(),
		[]string{"-dict", dictPath, "-output", filepath.Join(dir, "no", "model.counts"), "-log-level", "error"}, &out)
	require.Error(t, err)
}
