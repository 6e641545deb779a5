package services

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kirayo/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUploadService(t *testing.T) *UploadService {
	t.Helper()
	service, err := NewUploadService(config.Config{
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 1024,
	})
	require.NoError(t, err)
	return service
}

func TestUploadService_Resolve(t *testing.T) {
	service := testUploadService(t)
	stored := filepath.Join(service.dir, "abc123.jpg")
	require.NoError(t, os.WriteFile(stored, []byte("data"), 0o644))

	t.Run("Resolves a stored file", func(t *testing.T) {
		path, err := service.Resolve("abc123.jpg")
		assert.NoError(t, err)
		assert.Equal(t, stored, path)
	})

	t.Run("Rejects traversal attempts", func(t *testing.T) {
		for _, name := range []string{"../secret", "..", "a/../../b", "/etc/passwd", ".hidden"} {
			_, err := service.Resolve(name)
			assert.ErrorIs(t, err, ErrInvalidUploadPath, name)
		}
	})

	t.Run("Rejects missing files", func(t *testing.T) {
		_, err := service.Resolve("missing.jpg")
		assert.ErrorIs(t, err, ErrInvalidUploadPath)
	})
}

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestUploadService_Save(t *testing.T) {
	service := testUploadService(t)

	t.Run("Stores a pdf under a generated name", func(t *testing.T) {
		filename, err := service.Save(multipartFile(t, "contract.pdf", []byte("%PDF-1.4")))

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".pdf"))
		assert.NotContains(t, filename, "contract")
		_, err = os.Stat(filepath.Join(service.dir, filename))
		assert.NoError(t, err)
	})

	t.Run("Stores an image", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

		filename, err := service.Save(multipartFile(t, "photo.png", buf.Bytes()))

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".png"))
	})

	t.Run("Rejects oversized files", func(t *testing.T) {
		_, err := service.Save(multipartFile(t, "big.pdf", bytes.Repeat([]byte("a"), 2048)))

		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("Rejects unsupported extensions", func(t *testing.T) {
		_, err := service.Save(multipartFile(t, "script.sh", []byte("echo hi")))

		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})
}
