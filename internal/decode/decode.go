// Package decode persists uploaded resume files and extracts their plain
// text for downstream field extraction.
package decode

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/google/uuid"
	"github.com/intervue/intervue-backend/internal/config"
)

// Sentinel errors for resume uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed resume file extensions keyed by MIME type. DOCX uploads arrive
// with the long OOXML content type.
var allowedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/msword": ".doc",
	"text/plain":         ".txt",
}

// ResumeStore saves resume uploads to local storage and decodes them to
// text.
type ResumeStore struct {
	cfg *config.Config
}

// NewResumeStore creates a new ResumeStore.
func NewResumeStore(cfg *config.Config) *ResumeStore {
	return &ResumeStore{cfg: cfg}
}

// SaveAndDecode saves an uploaded resume with a UUID filename and extracts
// its plain text. Returns the relative URL path to the saved file and the
// decoded text. Decode failures are not fatal: a resume that cannot be
// parsed is stored anyway and returned with empty text, so registration can
// fall back to user-supplied identity fields.
func (s *ResumeStore) SaveAndDecode(file multipart.File, header *multipart.FileHeader) (url, text string, err error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		// Some clients send generic octet-stream; trust the extension then.
		ext = strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExt(ext) {
			return "", "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
		}
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}

	text, _ = s.decodeText(destPath, ext)
	return "/uploads/" + filename, text, nil
}

func (s *ResumeStore) decodeText(path, ext string) (string, error) {
	switch ext {
	case ".pdf", ".docx", ".doc":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("convert document: %w", err)
		}
		return res.Body, nil
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}

func allowedExt(ext string) bool {
	for _, e := range allowedMIMETypes {
		if e == ext {
			return true
		}
	}
	return false
}
