package utils

import (
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"
)

// Upload limits; callers may override via UploadLimits.
const (
	DefaultMaxFileSize  = 10 * 1024 * 1024 // 10 MB
	DefaultMaxFileCount = 5
)

// UploadLimits bounds a single solution submission.
type UploadLimits struct {
	MaxFileSize  int64
	MaxFileCount int
}

func DefaultUploadLimits() UploadLimits {
	return UploadLimits{MaxFileSize: DefaultMaxFileSize, MaxFileCount: DefaultMaxFileCount}
}

// allowedMIMETypes is the fixed allow-list for solution attachments.
var allowedMIMETypes = map[string]bool{
	"image/png":      true,
	"image/jpeg":     true,
	"image/gif":      true,
	"image/webp":     true,
	"application/pdf": true,
	"text/plain":     true,
	"text/markdown":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with "_".
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// SolutionObjectKey builds the object store key for a solution attachment:
// {userId}/{challengeId}/{timestamp}_{sanitizedName}. The timestamp keeps
// keys collision-free across concurrent uploads.
func SolutionObjectKey(userID, challengeID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", userID, challengeID, now.UnixMilli(), SanitizeFilename(filename))
}

// SolutionObjectPrefix is the listing prefix for a user's attachments on a
// challenge.
func SolutionObjectPrefix(userID, challengeID string) string {
	return fmt.Sprintf("%s/%s/", userID, challengeID)
}

// ValidateUpload checks a single form file against the allow-list and size
// ceiling before anything is written to the store.
func ValidateUpload(fileHeader *multipart.FileHeader, limits UploadLimits) error {
	if fileHeader.Size > limits.MaxFileSize {
		return fmt.Errorf("file %q too large (max %d bytes)", fileHeader.Filename, limits.MaxFileSize)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if !allowedMIMETypes[contentType] {
		return fmt.Errorf("file type %q not allowed for %q", contentType, fileHeader.Filename)
	}
	return nil
}

// ValidateUploads applies the count ceiling then per-file checks.
func ValidateUploads(files []*multipart.FileHeader, limits UploadLimits) error {
	if len(files) > limits.MaxFileCount {
		return fmt.Errorf("too many files: %d (max %d)", len(files), limits.MaxFileCount)
	}
	for _, fh := range files {
		if err := ValidateUpload(fh, limits); err != nil {
			return err
		}
	}
	return nil
}
