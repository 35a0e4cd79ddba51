// Package dataset implements the compressed dataset file from
// spec.md §6: a data file holding the concatenation of LZ4-compressed
// serialized pieces, and a sibling ".header" file indexing byte
// ranges into three disjoint splits (train/valid/test). Grounded on
// internal/storage/storage.go's single-writer, periodic-flush pattern
// (AutoSave's debounce timer, gzip framing) — this package swaps gzip
// for LZ4 framing via github.com/pierrec/lz4/v4, since LZ4 is the
// format spec.md names explicitly for this file.
package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pierrec/lz4/v4"

	"github.com/schollz/miditok/internal/pieceio"
	"github.com/schollz/miditok/internal/score"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Split names one of the three disjoint record lists a Header tracks.
type Split string

const (
	Train Split = "train"
	Valid Split = "valid"
	Test  Split = "test"
)

// Range is one record's location in the data file: the compressed
// byte span it occupies, and srcSize, the uncompressed piece's byte
// length (needed to size the LZ4 decompression buffer on read).
type Range struct {
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	SrcSize int   `json:"src_size"`
}

// Header is the sidecar index persisted as "<prefix>.header".
type Header struct {
	Train []Range `json:"train"`
	Valid []Range `json:"valid"`
	Test  []Range `json:"test"`
}

func (h *Header) list(split Split) *[]Range {
	switch split {
	case Train:
		return &h.Train
	case Valid:
		return &h.Valid
	default:
		return &h.Test
	}
}

// flushInterval is how many appends elapse between header flushes,
// matching spec.md §5/§6's "every 1000 records".
const flushInterval = 1000

// Writer is a single-writer, append-only dataset file plus its header
// sidecar, flushed periodically and on Close.
type Writer struct {
	mu           sync.Mutex
	dataPath     string
	headerPath   string
	file         *os.File
	header       Header
	sinceFlush   int
	cursor       int64
}

// Create opens (truncating) a fresh dataset file at prefix and
// prefix+".header".
func Create(prefix string) (*Writer, error) {
	f, err := os.Create(prefix)
	if err != nil {
		return nil, err
	}
	return &Writer{dataPath: prefix, headerPath: prefix + ".header", file: f}, nil
}

// Append serializes p to JSON, LZ4-compresses it, and writes it to the
// data file, recording its byte range under split. Flushes the header
// every flushInterval appends.
func (w *Writer) Append(split Split, p *score.Piece) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	raw, err := pieceio.MarshalPiece(p)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	n, err := w.file.Write(buf.Bytes())
	if err != nil {
		return err
	}

	rng := Range{Start: w.cursor, End: w.cursor + int64(n), SrcSize: len(raw)}
	w.cursor += int64(n)
	list := w.header.list(split)
	*list = append(*list, rng)

	w.sinceFlush++
	if w.sinceFlush >= flushInterval {
		if err := w.flushHeaderLocked(); err != nil {
			return err
		}
		w.sinceFlush = 0
	}
	return nil
}

func (w *Writer) flushHeaderLocked() error {
	data, err := json.Marshal(&w.header)
	if err != nil {
		return err
	}
	return os.WriteFile(w.headerPath, data, 0o644)
}

// Close flushes the header one last time and closes the data file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flushHeaderLocked(); err != nil {
		return err
	}
	return w.file.Close()
}

// Reader opens an existing dataset file and its header for concurrent,
// independent readers, per spec.md §5's "readers open independently
// and may run concurrently after the writer closes".
type Reader struct {
	file   *os.File
	header Header
}

// Open reads prefix+".header" and opens prefix for random access.
func Open(prefix string) (*Reader, error) {
	data, err := os.ReadFile(prefix + ".header")
	if err != nil {
		return nil, err
	}
	var header Header
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}
	f, err := os.Open(prefix)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, header: header}, nil
}

// Len reports how many records a split holds.
func (r *Reader) Len(split Split) int { return len(*r.header.list(split)) }

// Read decompresses and unmarshals the i'th record of split.
func (r *Reader) Read(split Split, i int) (*score.Piece, error) {
	list := *r.header.list(split)
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("dataset: index %d out of range for split %s (len %d)", i, split, len(list))
	}
	rng := list[i]
	compressed := make([]byte, rng.End-rng.Start)
	if _, err := r.file.ReadAt(compressed, rng.Start); err != nil {
		return nil, err
	}
	raw := make([]byte, rng.SrcSize)
	zr := lz4.NewReader(bytes.NewReader(compressed))
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, err
	}
	return pieceio.UnmarshalPiece(raw)
}

// Close closes the underlying data file.
func (r *Reader) Close() error { return r.file.Close() }
