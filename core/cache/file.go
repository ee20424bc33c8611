package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const fileHeaderSize = 8

// FileBackend stores each key as a file under a root directory.
// Writes go through a temp file and rename so readers never see partial data.
type FileBackend struct {
	root    string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time
}

// FileOption configures FileBackend.
type FileOption func(*FileBackend) error

// WithCompression enables zstd compression of stored payloads.
func WithCompression() FileOption {
	return func(b *FileBackend) error {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			_ = enc.Close()
			return fmt.Errorf("create zstd decoder: %w", err)
		}
		b.encoder = enc
		b.decoder = dec
		return nil
	}
}

// NewFileBackend creates the root directory if missing.
func NewFileBackend(root string, opts ...FileOption) (*FileBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	b := &FileBackend{root: root, now: time.Now}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(raw) < fileHeaderSize {
		return nil, ErrCorruptEntry
	}

	if nanos := int64(binary.BigEndian.Uint64(raw[:fileHeaderSize])); nanos != 0 {
		if expired(b.now(), time.Unix(0, nanos)) {
			_ = os.Remove(path)
			return nil, ErrNotFound
		}
	}

	payload := raw[fileHeaderSize:]
	if b.decoder != nil {
		payload, err = b.decoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, errors.Join(ErrCorruptEntry, err)
		}
	}
	return payload, nil
}

func (b *FileBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	header := make([]byte, fileHeaderSize)
	if at := expiresAt(b.now(), ttl); !at.IsZero() {
		binary.BigEndian.PutUint64(header, uint64(at.UnixNano()))
	}
	payload := value
	if b.encoder != nil {
		payload = b.encoder.EncodeAll(value, nil)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(header, payload...)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	if b.encoder != nil {
		_ = b.encoder.Close()
		b.decoder.Close()
	}
	return nil
}

func (b *FileBackend) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(b.root, filepath.FromSlash(key)), nil
}
