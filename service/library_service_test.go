package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legalinsight-backend/models"
	"legalinsight-backend/repository"
	"legalinsight-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type libraryFixture struct {
	store   *repository.MemoryDocumentStore
	files   *fakeFiles
	dir     string
	service *LibraryService
}

func newLibraryFixture(t *testing.T, opts ...LibraryServiceOption) *libraryFixture {
	t.Helper()
	dir := t.TempDir()
	st, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	f := &libraryFixture{
		store: repository.NewMemoryDocumentStore(),
		files: &fakeFiles{},
		dir:   dir,
	}
	base := []LibraryServiceOption{LibraryWithFileStore(f.files), LibraryWithStorage(st)}
	f.service = NewLibraryService(f.store, append(base, opts...)...)
	return f
}

var libraryUser = models.Session{UserID: "advocate-7"}

func TestLibrary_AddListClear(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()

	_, err := f.service.AddDocument(ctx, libraryUser, "   ")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	size, err := f.service.AddDocument(ctx, libraryUser, "Judgment in Civil Appeal 1234 of 2019")
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	docs, err := f.service.ListDocuments(ctx, libraryUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Judgment in Civil Appeal 1234 of 2019"}, docs)

	require.NoError(t, f.service.Clear(ctx, libraryUser))
	docs, err = f.service.ListDocuments(ctx, libraryUser)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, []string{libraryUser.Scope()}, f.files.cleared)
}

func TestLibrary_Upload(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	content := "RENT AGREEMENT\n\nThe tenant shall give three months notice."

	res, err := f.service.Upload(ctx, UploadRequest{
		Session:  libraryUser,
		Filename: "rent agreement.txt",
		Size:     int64(len(content)),
		Content:  strings.NewReader(content),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.LibrarySize)
	assert.Equal(t, "rent agreement.txt", res.File.Filename)
	assert.Equal(t, "text/plain", res.File.MimeType)
	assert.Equal(t, int64(len(content)), res.File.Size)
	assert.Equal(t, len(content), res.File.TextLength)
	assert.Equal(t, libraryUser.Scope(), res.File.Scope)

	stored, err := os.ReadFile(filepath.Join(f.dir, res.File.StoragePath))
	require.NoError(t, err)
	assert.Equal(t, content, string(stored))

	docs, err := f.service.ListDocuments(ctx, libraryUser)
	require.NoError(t, err)
	assert.Equal(t, []string{content}, docs)

	files, err := f.service.ListFiles(ctx, libraryUser)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, res.File.ID, files[0].ID)

	file, rc, err := f.service.OpenFile(ctx, libraryUser, res.File.ID)
	require.NoError(t, err)
	raw, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
	assert.Equal(t, "rent agreement.txt", file.Filename)

	// another session cannot open it
	_, _, err = f.service.OpenFile(ctx, models.Session{SessionID: "other"}, res.File.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// clearing removes the stored copy too
	require.NoError(t, f.service.Clear(ctx, libraryUser))
	_, err = os.Stat(filepath.Join(f.dir, res.File.StoragePath))
	assert.True(t, os.IsNotExist(err))
}

func TestLibrary_UploadRejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		size     int64
		want     error
	}{
		{name: "unsupported extension", filename: "scan.png", content: "x", want: ErrUnsupportedFile},
		{name: "declared size over limit", filename: "big.txt", content: "x", size: 1 << 30, want: ErrFileTooLarge},
		{name: "actual size over limit", filename: "big.txt", content: strings.Repeat("a", 65), want: ErrFileTooLarge},
		{name: "no text", filename: "blank.txt", content: "\n\n   \n", want: ErrEmptyDocument},
		{name: "corrupt pdf", filename: "broken.pdf", content: "not a pdf", want: ErrUnsupportedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLibraryFixture(t, LibraryWithMaxUploadBytes(64))

			_, err := f.service.Upload(context.Background(), UploadRequest{
				Session:  libraryUser,
				Filename: tt.filename,
				Size:     tt.size,
				Content:  strings.NewReader(tt.content),
			})
			assert.ErrorIs(t, err, tt.want)

			docs, err := f.service.ListDocuments(context.Background(), libraryUser)
			require.NoError(t, err)
			assert.Empty(t, docs)
			assert.Empty(t, f.files.files)
		})
	}
}

func TestLibrary_WithoutFileStore(t *testing.T) {
	svc := NewLibraryService(repository.NewMemoryDocumentStore())
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadRequest{
		Session:  libraryUser,
		Filename: "notes.md",
		Content:  strings.NewReader("# Notes\n\nHearing on 12 May."),
	})
	require.NoError(t, err)
	assert.Empty(t, res.File.StoragePath)
	assert.False(t, res.File.CreatedAt.IsZero())

	files, err := svc.ListFiles(ctx, libraryUser)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)

	docs, err := svc.ListDocuments(ctx, libraryUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes\n\nHearing on 12 May."}, docs)
	assert.Equal(t, int64(defaultMaxUploadBytes), svc.MaxUploadBytes())

	_, _, err = svc.OpenFile(ctx, libraryUser, res.File.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
