package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"emberday/internal/state"
)

// Export writes the full snapshot, ledger included, to path. Paths
// ending in .zst get zstd-compressed JSON; anything else gets plain
// indented JSON fit for hand inspection.
func Export(path string, st *state.State) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}

	// Flush and close errors matter here: a short write means a
	// truncated backup, so nothing is deferred on the happy path.
	if !strings.HasSuffix(path, ".zst") {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			f.Close()
			return fmt.Errorf("encode export: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close export: %w", err)
		}
		return nil
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return fmt.Errorf("zstd writer: %w", err)
	}

	bw := bufio.NewWriterSize(zw, 256*1024)
	if err := json.NewEncoder(bw).Encode(st); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("encode export: %w", err)
	}
	if err := bw.Flush(); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("flush export: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}

// Import reads a snapshot written by Export. Malformed JSON is an
// error and the caller's state stays untouched; a well-formed but
// partial or older snapshot comes back migrated with defaults filled.
func Import(path string, today string) (*state.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		r = bufio.NewReaderSize(zr, 256*1024)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	var st state.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	return state.Migrate(&st, today), nil
}
