package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedType is returned for files that are not jpeg, png or gif images.
	ErrUnsupportedType = errors.New("only image files are allowed")
	// ErrFileTooLarge is returned when the upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// PublicPrefix is the URL path stored files are served under.
const PublicPrefix = "/uploads/"

// allowed maps an accepted extension to the sniffed content type it must carry.
var allowed = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Store writes validated product images into a directory.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
	logger   *zap.Logger
}

func NewStore(dir string, maxBytes int64, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, maxBytes: maxBytes, now: time.Now, logger: logger}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save validates the image and writes it under a collision-free name.
// It returns the public path of the stored file.
func (s *Store) Save(originalName string, size int64, r io.Reader) (string, error) {
	if size > s.maxBytes {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	want, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !mimetype.Detect(head).Is(want) {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := s.fileName(ext)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	// The limit also covers readers whose declared size was wrong.
	written, err := io.Copy(f, io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxBytes+1))
	closeErr := f.Close()
	if err == nil && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Info("image stored", zap.String("file", name), zap.Int64("bytes", written))
	return PublicPrefix + name, nil
}

// fileName builds <unix-millis>-<8 hex chars><ext>.
func (s *Store) fileName(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, ext)
}
