// Package snapshot writes whole-world exports as zstd compressed msgpack,
// independent of the live database.
package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack"

	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/storage"
)

const (
	Version   = 1
	Extension = ".fmsnap"
)

// Header is written as a JSON line ahead of the compressed body so a
// snapshot can be identified without decoding it.
type Header struct {
	Version int       `json:"version"`
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Cells   int       `json:"cells"`
}

// Writer writes snapshots into a directory.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Snapshot exports w and writes it to a new file, returning its path.
// The caller holds the world lock.
func (s *Writer) Snapshot(ctx context.Context, w *game.World) (string, error) {
	data, err := w.Export()
	if err != nil {
		return "", fmt.Errorf("exporting world: %w", err)
	}

	h := Header{
		Version: Version,
		ID:      uuid.NewString(),
		Created: s.now().UTC(),
		Cells:   len(data.Cells),
	}
	name := fmt.Sprintf("world-%s-%s%s", h.Created.Format("20060102-150405"), h.ID[:8], Extension)
	path := filepath.Join(s.dir, name)
	if err := Write(path, h, data); err != nil {
		return "", err
	}

	slog.Info("world snapshot written", "path", path, "cells", h.Cells)
	return path, nil
}

// Write stores data at path, replacing any existing file.
func Write(path string, h Header, data *storage.WorldData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	hb, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	if _, err := f.Write(append(hb, '\n')); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := msgpack.NewEncoder(bw).Encode(data); err != nil {
		enc.Close()
		return fmt.Errorf("encoding world: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("writing world: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing snapshot: %w", err)
	}
	return f.Sync()
}

// Read loads a snapshot written by Write.
func Read(path string) (Header, *storage.WorldData, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, nil, fmt.Errorf("reading header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, nil, fmt.Errorf("decoding header: %w", err)
	}
	if h.Version != Version {
		return h, nil, fmt.Errorf("unsupported snapshot version %d", h.Version)
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return h, nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	data := &storage.WorldData{}
	if err := msgpack.NewDecoder(bufio.NewReaderSize(dec, 256*1024)).Decode(data); err != nil {
		return h, nil, fmt.Errorf("decoding world: %w", err)
	}
	return h, data, nil
}

// Latest returns the newest snapshot in dir by name, or "" if there is none.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "world-*"+Extension))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	// Names sort by creation time.
	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, nil
}
