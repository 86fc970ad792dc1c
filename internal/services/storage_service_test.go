package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func TestUploadListingImageLocal(t *testing.T) {
	dir := t.TempDir()
	svc := NewStorageServiceWithStore(NewLocalStore(dir, "http://localhost:8080/uploads/"), 1024, 3)

	result, err := svc.UploadListingImage(context.Background(), bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.MimeType)
	assert.True(t, strings.HasPrefix(result.Key, "listings/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Key, result.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.NoError(t, svc.DeleteFile(context.Background(), result.Key))
	assert.Equal(t, 0, countFiles(t, dir))
}

func TestUploadListingImageRejects(t *testing.T) {
	svc := NewStorageServiceWithStore(NewLocalStore(t.TempDir(), "/uploads"), 64, 3)

	_, err := svc.UploadListingImage(context.Background(), strings.NewReader("just some text"), 14)
	assert.ErrorIs(t, err, ErrInvalidImage)

	big := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	_, err = svc.UploadListingImage(context.Background(), bytes.NewReader(big), int64(len(big)))
	assert.ErrorIs(t, err, ErrImageTooLarge)

	// declared size can lie
	_, err = svc.UploadListingImage(context.Background(), bytes.NewReader(big), 10)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestUploadListingImagesAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	svc := NewStorageServiceWithStore(NewLocalStore(dir, "/uploads"), 1024, 3)

	results, err := svc.UploadListingImages(context.Background(), multipartFiles(t, map[string][]byte{
		"a.png": pngHeader,
		"b.png": pngHeader,
	}))
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.NotEqual(t, results[0].Key, results[1].Key)
	assert.Equal(t, 2, countFiles(t, dir))

	failDir := t.TempDir()
	svc = NewStorageServiceWithStore(NewLocalStore(failDir, "/uploads"), 1024, 3)
	_, err = svc.UploadListingImages(context.Background(), multipartFiles(t, map[string][]byte{
		"good.png":  pngHeader,
		"notes.txt": []byte("not an image"),
	}))
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Equal(t, 0, countFiles(t, failDir))

	_, err = svc.UploadListingImages(context.Background(), multipartFiles(t, map[string][]byte{
		"1.png": pngHeader, "2.png": pngHeader, "3.png": pngHeader, "4.png": pngHeader,
	}))
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestDetectImageType(t *testing.T) {
	ct, err := DetectImageType([]byte("\xFF\xD8\xFF\xE0rest"))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	ct, err = DetectImageType([]byte("GIF89a...."))
	require.NoError(t, err)
	assert.Equal(t, "image/gif", ct)

	_, err = DetectImageType([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
