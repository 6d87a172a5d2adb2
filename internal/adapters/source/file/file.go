// Package file reads trip log lines from local files or arbitrary streams
// gzip input is detected from the magic bytes and decompressed transparently
package file

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"

	perr "tripstats/internal/platform/errors"
)

const (
	// DefaultMaxLine is the longest accepted line in bytes
	DefaultMaxLine = 1 << 20
	initialBuf     = 64 * 1024
)

var gzipMagic = []byte{0x1f, 0x8b}

// Option configures a Source
type Option func(*Source)

// WithMaxLine caps the line length, values below 1 keep the default
func WithMaxLine(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// Source is a line iterator over a plain or gzip stream
// Bytes is only valid until the next call to Scan
// lines longer than the limit are skipped whole and reported through Oversized
type Source struct {
	name    string
	closers []io.Closer
	br      *bufio.Reader
	maxLine int
	gzipped bool
	lines   int64
	bytes   int64
	closed  bool
	err     error

	line []byte
	buf  []byte
	over int
}

// Open opens path as a line source
// an unreadable path returns an Unavailable error
func Open(path string, opts ...Option) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open source %s", path)
	}
	s, err := newSource(path, f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.closers = append(s.closers, f)
	return s, nil
}

// FromReader wraps r as a line source, r itself is not closed by Close
func FromReader(r io.Reader, opts ...Option) (*Source, error) {
	return newSource("reader", r, opts...)
}

func newSource(name string, r io.Reader, opts ...Option) (*Source, error) {
	s := &Source{name: name, maxLine: DefaultMaxLine}
	for _, o := range opts {
		o(s)
	}

	br := bufio.NewReaderSize(r, initialBuf)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read source %s", name)
	}

	s.br = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "gzip source %s", name)
		}
		s.closers = append(s.closers, gz)
		s.gzipped = true
		s.br = bufio.NewReaderSize(gz, initialBuf)
	}
	return s, nil
}

// Scan advances to the next line, false at end of input or on a read error
// an over-long line still counts as a line, its bytes are discarded up to the next newline
func (s *Source) Scan() bool {
	if s.closed || s.err != nil {
		return false
	}
	s.line, s.buf, s.over = nil, s.buf[:0], 0

	read, long := 0, false
	for {
		chunk, err := s.br.ReadSlice('\n')
		read += len(chunk)
		switch {
		case long:
		case read == len(chunk) && err == nil:
			// whole line inside the reader buffer, no copy
			s.line = chunk
		default:
			s.buf = append(s.buf, chunk...)
			s.line = s.buf
		}
		if !long && len(trimEOL(s.line)) > s.maxLine {
			long, s.line, s.buf = true, nil, s.buf[:0]
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			s.line, s.err = nil, err
			return false
		}
		if err != nil && read == 0 {
			return false
		}
		break
	}

	s.lines++
	s.bytes += int64(read)
	if long {
		s.over = read
		return true
	}
	s.line = trimEOL(s.line)
	return true
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}

// Bytes returns the current line without its terminator, nil for an oversized line
func (s *Source) Bytes() []byte { return s.line }

// Oversized returns how many bytes were discarded for the current line, terminator included
// it is 0 unless the line exceeded the limit
func (s *Source) Oversized() int { return s.over }

// Err returns the first read error, end of input is not an error
func (s *Source) Err() error {
	if s.err == nil {
		return nil
	}
	return perr.Wrapf(s.err, perr.ErrorCodeUnavailable, "read source %s", s.name)
}

// Counts returns lines and bytes read so far, terminators and oversized lines included
func (s *Source) Counts() (lines, size int64) { return s.lines, s.bytes }

// Gzipped reports whether the stream was decompressed
func (s *Source) Gzipped() bool { return s.gzipped }

// Name returns the path or "reader"
func (s *Source) Name() string { return s.name }

// Close releases the gzip reader and the file, safe to call more than once
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
