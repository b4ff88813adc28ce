package resource

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// spillThreshold is the buffer size above which WithMaybeSpill considers
// writing to the scratch directory (spec §4.2: "|buf| > 1 MiB").
const spillThreshold = 1 << 20

// WithMaybeSpill implements the scoped-resource idiom from spec §4.2 and
// §9: if buf is larger than 1 MiB and the process is under memory
// pressure, buf is zstd-compressed to a uniquely named scratch file, the
// caller's reference is considered released, and handler is invoked with
// the bytes reread lazily from disk. The scratch file is deleted on
// every exit path, success or failure. Otherwise handler runs directly
// against buf with no I/O.
//
// A write or read failure on the scratch path falls back to processing
// in memory (spec §7, "I/O (scratch)" is non-fatal).
func (g *Governor) WithMaybeSpill(buf []byte, handler func([]byte) error) error {
	stats := g.Probe()
	if len(buf) <= spillThreshold || g.Level(stats) == PressureNone {
		return handler(buf)
	}

	path, reread, err := g.spillToDisk(buf)
	if err != nil {
		g.logger.Warn("scratch spill failed, processing in memory", "error", err)
		return handler(buf)
	}
	defer os.Remove(path)

	data, err := reread()
	if err != nil {
		g.logger.Warn("scratch reread failed, processing in memory", "error", err)
		return handler(buf)
	}
	return handler(data)
}

// spillToDisk compresses buf and writes it to a new scratch file,
// returning its path and a lazy reread function.
func (g *Governor) spillToDisk(buf []byte) (path string, reread func() ([]byte, error), err error) {
	path, err = g.scratchPath(g.nextScratchName())
	if err != nil {
		return "", nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch file: %w", err)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return "", nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return "", nil, fmt.Errorf("writing scratch file: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("closing zstd writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", nil, fmt.Errorf("closing scratch file: %w", err)
	}

	reread = func() ([]byte, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading scratch file: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	}
	return path, reread, nil
}
