package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/service"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/tabular"
)

func setupWatcher(t *testing.T) (*Watcher, *service.CatalogService, string) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := service.NewCatalogService(st, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, svc.Load(context.Background()))

	dir := filepath.Join(t.TempDir(), "import")
	w, err := New(svc, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	return w, svc, dir
}

func validCSV(t *testing.T) string {
	t.Helper()

	row := make([]string, len(tabular.Schema()))
	row[2] = "Dropped Book"
	row[12] = "reading"
	row[21] = "2024-01-01T00:00:00Z"
	return strings.Join(tabular.Schema(), ",") + "\r\n" + strings.Join(row, ",") + "\r\n"
}

func TestEligible(t *testing.T) {
	assert.True(t, eligible("/drop/books.csv"))
	assert.True(t, eligible("/drop/BOOKS.CSV"))
	assert.False(t, eligible("/drop/books.csv.imported"))
	assert.False(t, eligible("/drop/books.csv.failed"))
	assert.False(t, eligible("/drop/.books.csv"))
	assert.False(t, eligible("/drop/notes.txt"))
}

func TestProcess_ImportsAndRenames(t *testing.T) {
	w, svc, dir := setupWatcher(t)

	path := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(validCSV(t)), 0o644))

	w.process(context.Background(), path)

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Dropped Book", all[0].Title)

	_, err := os.Stat(path + doneSuffix)
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestProcess_BadFileMarkedFailed(t *testing.T) {
	w, svc, dir := setupWatcher(t)

	path := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("not,a,catalog\r\n"), 0o644))

	w.process(context.Background(), path)

	assert.Empty(t, svc.All())
	_, err := os.Stat(path + failedSuffix)
	assert.NoError(t, err)
}

func TestSweepExisting(t *testing.T) {
	w, svc, dir := setupWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.csv"), []byte(validCSV(t)), 0o644))
	w.sweepExisting(context.Background())

	require.Len(t, svc.All(), 1)
}

func TestStart_PicksUpDroppedFile(t *testing.T) {
	w, svc, dir := setupWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = w.Start(ctx)
		close(done)
	}()

	// Give the event loop a moment before dropping the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.csv"), []byte(validCSV(t)), 0o644))

	require.Eventually(t, func() bool {
		return len(svc.All()) == 1
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	<-done
}
