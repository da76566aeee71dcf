package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	// ErrUnsupportedType - файл не является изображением png/jpg/gif.
	ErrUnsupportedType = errors.New("storage: unsupported file type")
	// ErrExtensionMismatch - расширение не совпадает с реальным типом файла.
	ErrExtensionMismatch = errors.New("storage: extension does not match content")
	// ErrTooLarge - файл больше лимита.
	ErrTooLarge = errors.New("storage: file too large")
	// ErrEmpty - пустой файл.
	ErrEmpty = errors.New("storage: empty file")
)

const sniffLen = 512

// допустимые расширения и MIME по магическим байтам
var allowed = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// Папки для загрузок.
const (
	FolderProfiles = "perfis"
	FolderLogos    = "logos"
)

// ImageStorage сохраняет изображения на локальный диск.
type ImageStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewImageStorage создаёт каталог хранилища.
func NewImageStorage(rootPath string, maxUploadMB int64) (*ImageStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}
	return &ImageStorage{rootPath: rootPath, maxUploadBytes: maxUploadMB * 1024 * 1024}, nil
}

// Root - корень хранилища, отдаётся статикой по /uploads.
func (s *ImageStorage) Root() string {
	return s.rootPath
}

// Save проверяет тип по магическим байтам и сохраняет файл как "<folder>/<uuid>.<ext>".
func (s *ImageStorage) Save(ctx context.Context, folder, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	mime, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	if n == 0 {
		return "", ErrEmpty
	}
	header = header[:n]

	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown || !strings.HasPrefix(kind.MIME.Value, "image/") {
		return "", ErrUnsupportedType
	}
	if kind.MIME.Value != mime {
		return "", ErrExtensionMismatch
	}

	dir := filepath.Join(s.rootPath, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	name := uuid.NewString() + ext
	target := filepath.Join(dir, name)
	temp := target + ".tmp"

	f, err := os.Create(temp)
	if err != nil {
		return "", fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limited := &io.LimitedReader{R: io.MultiReader(bytes.NewReader(header), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, limited)
	if err != nil {
		_ = os.Remove(temp)
		return "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(temp)
		return "", ErrTooLarge
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(temp)
		return "", fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(temp, target); err != nil {
		return "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return path.Join(folder, name), nil
}

// Delete удаляет файл по относительной ссылке. Отсутствие файла не ошибка.
func (s *ImageStorage) Delete(ctx context.Context, reference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(filepath.FromSlash(reference))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("storage: некорректный путь %q", reference)
	}

	if err := os.Remove(filepath.Join(s.rootPath, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}
