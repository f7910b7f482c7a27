// Package iqfile reads and writes raw complex baseband recordings.
//
// Samples are interleaved little-endian float32 I/Q pairs (the "cf32"
// layout of SDR tools). Streams may be zstd-compressed; readers detect the
// zstd frame magic and decompress transparently.
package iqfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// BytesPerSample is the size of one cf32 sample.
const BytesPerSample = 8

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ErrTruncated is returned when a stream ends inside a sample.
var ErrTruncated = errors.New("iqfile: truncated sample")

// Reader decodes cf32 samples.
type Reader struct {
	r   io.Reader
	dec *zstd.Decoder
	buf []byte
}

// NewReader wraps r, decompressing it when it starts with a zstd frame.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iqfile: %w", err)
	}

	rd := &Reader{r: br}
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("iqfile: zstd: %w", err)
		}
		rd.r = dec
		rd.dec = dec
	}
	return rd, nil
}

// Compressed reports whether the stream is zstd-compressed.
func (r *Reader) Compressed() bool {
	return r.dec != nil
}

// Read decodes up to len(dst) samples. It returns io.EOF once the stream is
// exhausted and ErrTruncated if it ends in the middle of a sample.
func (r *Reader) Read(dst []complex128) (int, error) {
	need := len(dst) * BytesPerSample
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:need]

	nb, err := io.ReadFull(r.r, buf)
	n := nb / BytesPerSample
	for i := range n {
		b := buf[i*BytesPerSample:]
		re := math.Float32frombits(binary.LittleEndian.Uint32(b))
		im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
		dst[i] = complex(float64(re), float64(im))
	}

	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		if nb%BytesPerSample != 0 {
			return n, ErrTruncated
		}
		return n, nil
	case errors.Is(err, io.EOF):
		return n, io.EOF
	default:
		return n, fmt.Errorf("iqfile: %w", err)
	}
}

// ReadAll decodes the remaining samples.
func (r *Reader) ReadAll() ([]complex128, error) {
	var out []complex128
	chunk := make([]complex128, 4096)
	for {
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// Close releases the decompressor, if any. It does not close the
// underlying reader.
func (r *Reader) Close() {
	if r.dec != nil {
		r.dec.Close()
	}
}

// Writer encodes cf32 samples, optionally zstd-compressed.
type Writer struct {
	w   io.Writer
	enc *zstd.Encoder
	buf []byte
}

// NewWriter returns a writer on w. With compress, Close must be called to
// flush the last zstd frame.
func NewWriter(w io.Writer, compress bool) (*Writer, error) {
	wr := &Writer{w: w}
	if compress {
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("iqfile: zstd: %w", err)
		}
		wr.w = enc
		wr.enc = enc
	}
	return wr, nil
}

// Write encodes samples, rounding them to float32.
func (w *Writer) Write(samples []complex128) error {
	need := len(samples) * BytesPerSample
	if cap(w.buf) < need {
		w.buf = make([]byte, need)
	}
	buf := w.buf[:need]
	for i, v := range samples {
		b := buf[i*BytesPerSample:]
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(real(v))))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(imag(v))))
	}
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("iqfile: %w", err)
	}
	return nil
}

// Close flushes the compressor. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.enc != nil {
		return w.enc.Close()
	}
	return nil
}

// File is a Reader on an open file.
type File struct {
	*Reader
	f *os.File
}

// Open opens a recording for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f}, nil
}

// Close closes the decompressor and the file.
func (f *File) Close() error {
	f.Reader.Close()
	return f.f.Close()
}

// WriteFile writes samples to path, zstd-compressed when the name ends in
// ".zst".
func WriteFile(path string, samples []complex128) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := NewWriter(f, strings.HasSuffix(path, ".zst"))
	if err != nil {
		return err
	}
	if err := w.Write(samples); err != nil {
		return err
	}
	return w.Close()
}
