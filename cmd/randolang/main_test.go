package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randolang/randolang"
	"github.com/randolang/randolang/cache"
	"github.com/randolang/randolang/internal/metrics"
	"github.com/randolang/randolang/internal/publish"
	"github.com/randolang/randolang/language"
)

const testDict = `BID  B IH1 D
KIT  K IH1 T
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "cmudict.dict")
	require.NoError(t, os.WriteFile(dictPath, []byte(testDict), 0o644))
	cacheDir := filepath.Join(dir, "saved")

	args := []string{"-dict", dictPath, "-order", "1", "-n", "2", "-seed", "3",
		"-cache", cacheDir, "-log-level", "error", "-attempts", "500"}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))
	got := strings.Fields(out.String())
	sort.Strings(got)
	assert.Equal(t, []string{"bit", "kid"}, got)

	data, err := os.ReadFile(filepath.Join(cacheDir, "phones", "words.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Word,TLD,Availability\nbit,.com,unknown\nkid,.com,unknown\n", string(data))

	// everything new is cached now, so a second run yields nothing
	out.Reset()
	require.NoError(t, run(context.Background(), args, &out))
	assert.Empty(t, strings.TrimSpace(out.String()))
}

func TestRunVerboseNoCache(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "cmudict.dict")
	require.NoError(t, os.WriteFile(dictPath, []byte(testDict), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-dict", dictPath, "-order", "1", "-n", "1",
		"-seed", "5", "-no-cache", "-v", "-log-level", "error", "-attempts", "500"}, &out)
	require.NoError(t, err)

	fields := strings.Split(strings.TrimSpace(out.String()), "\t")
	require.Len(t, fields, 3)
	assert.Contains(t, []string{"bit", "kid"}, fields[0])
	assert.Contains(t, []string{"B IH T", "K IH D"}, fields[1])
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, run(context.Background(), []string{"-dict", ""}, &out))
	require.Error(t, run(context.Background(), []string{"-dict", filepath.Join(t.TempDir(), "missing"), "-no-cache"}, &out))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092,,b:9092 "))
	assert.Empty(t, splitBrokers(""))
}

func TestRunLettersScheme(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "cmudict.dict")
	require.NoError(t, os.WriteFile(dictPath, []byte(testDict), 0o644))
	cacheDir := filepath.Join(dir, "saved")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-dict", dictPath, "-order", "1", "-n", "2",
		"-seed", "3", "-scheme", "letters", "-cache", cacheDir, "-log-level", "error", "-attempts", "500"}, &out))
	got := strings.Fields(out.String())
	sort.Strings(got)
	assert.Equal(t, []string{"bit", "kid"}, got)

	data, err := os.ReadFile(filepath.Join(cacheDir, "letters", "words.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Word,TLD,Availability\nbit,.com,unknown\nkid,.com,unknown\n", string(data))
	_, err = os.Stat(filepath.Join(cacheDir, "phones", "words.csv"))
	assert.True(t, os.IsNotExist(err))

	err = run(context.Background(), []string{"-dict", dictPath, "-scheme", "tuples", "-no-cache",
		"-log-level", "error"}, &out)
	require.ErrorIs(t, err, randolang.ErrUnsupportedScheme)
}

// cancelOnCheck cancels the batch context the first time a word is checked
// and reports every word as new, so exactly one word is collected.
type cancelOnCheck struct {
	cancel context.CancelFunc
}

func (c cancelOnCheck) Contains(string) bool {
	c.cancel()
	return false
}

func TestBatchInterruptedKeepsWords(t *testing.T) {
	m, err := language.FromWords([]string{"bid", "kit"}, 2)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	words := cache.New(t.TempDir())
	gen, err := randolang.NewGenerator(m, randolang.WithScheme(cache.Letters), randolang.WithSeed(1),
		randolang.WithCache(words), randolang.WithExisting(cancelOnCheck{cancel}))
	require.NoError(t, err)
	pub := publish.New(nil, metrics.For(nil))

	var out bytes.Buffer
	o := &options{count: 2}
	require.NoError(t, batch(ctx, gen, words, pub, o, &out, zerolog.Nop()))
	require.ErrorIs(t, ctx.Err(), context.Canceled)

	printed := strings.Fields(out.String())
	require.Len(t, printed, 1)
	assert.Contains(t, []string{"bid", "kit"}, printed[0])

	data, err := os.ReadFile(words.Path(cache.Letters))
	require.NoError(t, err)
	assert.Contains(t, string(data), printed[0]+",.com,unknown")
}
