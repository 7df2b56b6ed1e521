package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	path, err := s.Upload(ctx, "user:42", id, "Rent Agreement.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "user_42/3f/3f2504e0-4f89-11d3-9a0c-0305e82c3301_Rent_Agreement.pdf", path)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, ErrFileNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"../secret", "/etc/passwd", "a/../../b", ""} {
		_, err := s.Download(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestGenerateStoragePath_Sanitizes(t *testing.T) {
	id := uuid.MustParse("aa2504e0-4f89-11d3-9a0c-0305e82c3301")
	path := generateStoragePath("session:../x", id, "../../etc/Pass wd.TXT")
	assert.Equal(t, "session___x/aa/aa2504e0-4f89-11d3-9a0c-0305e82c3301_Pass_wd.txt", path)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a.PDF"))
	assert.Equal(t, "text/markdown", ContentType("notes.md"))
	assert.Equal(t, "text/html", ContentType("page.htm"))
	assert.Equal(t, "application/octet-stream", ContentType("image.png"))
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(context.Background(), StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(context.Background(), StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(context.Background(), StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
