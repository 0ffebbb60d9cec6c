package utils

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report v1.pdf", "report_v1.pdf"},
		{"clean-name.PNG", "clean-name.PNG"},
		{"éval finale.md", "_val_finale.md"},
		{"a/b\\c.txt", "a_b_c.txt"},
		{"...", "..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestSolutionObjectKey(t *testing.T) {
	now := time.Now()
	key := SolutionObjectKey("u1", "ch1", "report v1.pdf", now)

	assert.Equal(t, fmt.Sprintf("u1/ch1/%d_report_v1.pdf", now.UnixMilli()), key)
	assert.Regexp(t, regexp.MustCompile(`^u1/ch1/\d+_report_v1\.pdf$`), key)
}

func TestSolutionObjectPrefix(t *testing.T) {
	assert.Equal(t, "u1/ch1/", SolutionObjectPrefix("u1", "ch1"))
}

func header(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateUpload(t *testing.T) {
	limits := DefaultUploadLimits()

	t.Run("allowed types pass", func(t *testing.T) {
		for _, ct := range []string{
			"image/png", "image/jpeg", "image/gif", "image/webp",
			"application/pdf", "text/plain", "text/markdown",
		} {
			assert.NoError(t, ValidateUpload(header("f", ct, 1024), limits))
		}
	})

	t.Run("charset parameter is ignored", func(t *testing.T) {
		assert.NoError(t, ValidateUpload(header("notes.md", "text/markdown; charset=utf-8", 1024), limits))
	})

	t.Run("disallowed type rejected", func(t *testing.T) {
		err := ValidateUpload(header("run.exe", "application/octet-stream", 1024), limits)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		err := ValidateUpload(header("big.pdf", "application/pdf", limits.MaxFileSize+1), limits)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestValidateUploads(t *testing.T) {
	limits := UploadLimits{MaxFileSize: 1024, MaxFileCount: 2}

	ok := []*multipart.FileHeader{
		header("a.png", "image/png", 10),
		header("b.pdf", "application/pdf", 10),
	}
	assert.NoError(t, ValidateUploads(ok, limits))

	tooMany := append(ok, header("c.txt", "text/plain", 10))
	err := ValidateUploads(tooMany, limits)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many files")

	oneBad := []*multipart.FileHeader{
		header("a.png", "image/png", 10),
		header("b.zip", "application/zip", 10),
	}
	assert.Error(t, ValidateUploads(oneBad, limits))

	assert.NoError(t, ValidateUploads(nil, limits))
}
