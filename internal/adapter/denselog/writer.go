// Package denselog archives per-step build batches as zstd-compressed JSON
// lines, one file per episode.
package denselog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"urbandesign/internal/app/ports"
)

var ErrNoEpisode = errors.New("dense log has no open episode")

type Writer struct {
	baseDir string

	mu      sync.Mutex
	episode string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

func (w *Writer) PathFor(episodeID string) string {
	return filepath.Join(w.baseDir, "build-"+episodeID+".jsonl.zst")
}

// Begin closes the current episode file, if any, and opens a new one.
func (w *Writer) Begin(episodeID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.PathFor(episodeID), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.episode = episodeID
	return nil
}

func (w *Writer) Write(record ports.BuildBatchRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return ErrNoEpisode
	}
	if record.EpisodeID != w.episode {
		return fmt.Errorf("dense log record for episode %s while %s is open", record.EpisodeID, w.episode)
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) closeLocked() error {
	var err1, err2 error
	if w.w != nil {
		err1 = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err1 == nil {
			err1 = err
		}
		w.enc = nil
	}
	if w.f != nil {
		err2 = w.f.Close()
		w.f = nil
	}
	w.episode = ""
	if err1 != nil {
		return err1
	}
	return err2
}

// ReadFile decodes every record of an archived episode.
func ReadFile(path string) ([]ports.BuildBatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out := make([]ports.BuildBatchRecord, 0)
	jd := json.NewDecoder(dec)
	for {
		var rec ports.BuildBatchRecord
		if err := jd.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out = append(out, rec)
	}
}
