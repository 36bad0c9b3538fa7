package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFileType = errors.New("utils: unsupported file type")
	ErrFileTooLarge        = errors.New("utils: file exceeds maximum size")
)

// FileHandler validates and stores uploaded files. Stored files get a
// generated name so two uploads with the same filename never collide.
type FileHandler struct {
	uploadDir         string
	maxSizeBytes      int64
	allowedExtensions map[string]bool
}

func NewFileHandler(uploadDir string, maxSizeBytes int64, allowedExtensions []string) (*FileHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &FileHandler{
		uploadDir:         uploadDir,
		maxSizeBytes:      maxSizeBytes,
		allowedExtensions: allowed,
	}, nil
}

// Validate checks extension and size before any bytes are read.
func (h *FileHandler) Validate(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.allowedExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	if header.Size > h.maxSizeBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, header.Size)
	}
	return nil
}

// Read loads the full upload into memory. Uploads are text documents bounded
// by the configured size limit.
func (h *FileHandler) Read(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return content, nil
}

// Hash returns the hex sha256 of content, used for duplicate detection.
func (h *FileHandler) Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Store writes content under the upload dir with a generated name and
// returns the stored path.
func (h *FileHandler) Store(originalFilename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	path := filepath.Join(h.uploadDir, uuid.New().String()+ext)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. A missing file is not an error, deletes are
// idempotent.
func (h *FileHandler) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stored file: %w", err)
	}
	return nil
}
