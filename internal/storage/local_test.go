package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrack/backend/internal/apperr"
)

var storedNamePattern = regexp.MustCompile(`^documents-\d+-\d+\.pdf$`)

func TestNewLocal_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	l, err := NewLocal(dir)
	require.NoError(t, err)

	info, err := os.Stat(l.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocal_SaveOpenDelete(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := l.Save(ctx, "Voucher 1.PDF", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Regexp(t, storedNamePattern, stored.Filename)
	assert.Equal(t, filepath.Join(l.Dir(), stored.Filename), stored.Path)

	rc, err := l.Open(ctx, stored.Filename)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(body))

	require.NoError(t, l.Delete(ctx, stored.Path))
	_, err = l.Open(ctx, stored.Filename)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// deleting again is not an error
	assert.NoError(t, l.Delete(ctx, stored.Path))
	assert.NoError(t, l.Delete(ctx, ""))
}

func TestLocal_OpenRejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../etc/passwd", "a/b.pdf", "", ".."} {
		_, err := l.Open(context.Background(), name)
		assert.True(t, apperr.Is(err, apperr.KindNotFound), name)
	}
}

func TestStoredName_Unique(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := StoredName("scan.png", now)
		assert.True(t, strings.HasPrefix(name, "documents-1700000000000-"))
		assert.True(t, strings.HasSuffix(name, ".png"))
		seen[name] = true
	}
	assert.Greater(t, len(seen), 45)
}
