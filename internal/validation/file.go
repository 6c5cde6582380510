package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints maps each allowed extension to the content types its
// magic bytes may be detected as.
type FileConstraints struct {
	Extensions map[string][]string
	MaxSize    int64
}

// DefaultMaxResourceSize is the upload limit when none is configured.
const DefaultMaxResourceSize = 50 * 1000 * 1000

// ResourceConstraints accepts the document and image formats students
// share. Office formats are only recognisable by their container.
func ResourceConstraints(maxSize int64) FileConstraints {
	if maxSize <= 0 {
		maxSize = DefaultMaxResourceSize
	}
	return FileConstraints{
		Extensions: map[string][]string{
			".pdf":  {"application/pdf"},
			".docx": {"application/zip"},
			".pptx": {"application/zip"},
			".ppt":  {"application/octet-stream"},
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
		},
		MaxSize: maxSize,
	}
}

// FileExtension returns the lowercased extension of name without the dot.
func FileExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// ValidateFile checks size, extension and detected content type, and
// returns the detected type. The file is rewound when it is seekable.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) (string, error) {
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1000 * 1000)
		return "", fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed, ok := constraints.Extensions[ext]
	if !ok {
		return "", fmt.Errorf("invalid file extension: %q", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	detected, err := DetectContentType(file)
	if err != nil {
		return "", err
	}

	for _, t := range allowed {
		if t == detected {
			return detected, nil
		}
	}
	return "", fmt.Errorf("file content does not match extension %s (detected: %s)", ext, detected)
}

// DetectContentType sniffs the first 512 bytes of r (magic numbers, not
// the client supplied header) and rewinds r if it can.
func DetectContentType(r io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to reset file pointer: %w", err)
		}
	}

	detected := http.DetectContentType(buffer[:n])
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	return detected, nil
}
