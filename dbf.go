package godbf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Reader decodes a DBF file record by record. It owns the supplied streams:
// whichever of them implement io.Closer are closed by Close, or before the
// error propagates when construction fails.
//
// A Reader is not safe for concurrent use; every call mutates the stream
// cursors and the record buffer.
type Reader struct {
	src     *bufio.Reader
	memo    io.ReadSeeker
	decoder TextDecoder
	charset string
	logger  *slog.Logger

	header     FileHeader
	fields     []FieldDescriptor
	fieldIndex map[string]int
	dataLength int

	record    []Value
	scratch   []byte
	exhausted bool

	closers []io.Closer
}

// Option configures a Reader during construction.
type Option func(*Reader)

// WithMemo supplies the companion DBT memo stream. Memo-typed fields fail
// to decode without it.
func WithMemo(memo io.ReadSeeker) Option {
	return func(r *Reader) {
		r.memo = memo
		if c, ok := memo.(io.Closer); ok {
			r.closers = append(r.closers, c)
		}
	}
}

// WithCharset selects a named charset (e.g. "gbk") for all text content.
// The default is strict 7-bit ASCII.
func WithCharset(name string) Option {
	return func(r *Reader) { r.charset = name }
}

// WithDecoder supplies a custom text decoder, overriding WithCharset.
func WithDecoder(dec TextDecoder) Option {
	return func(r *Reader) { r.decoder = dec }
}

// WithLogger attaches a structured logger. Construction logs a header
// summary at Debug; the record path does not log.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// NewReader constructs a Reader over a stream positioned at the start of a
// DBF file. The header and the field descriptor table are parsed here; a
// FormatError means no Reader is returned and any closeable supplied
// streams have already been closed.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	r := &Reader{
		src:     bufio.NewReader(src),
		decoder: asciiDecoder{},
		logger:  slog.New(discardHandler{}),
	}
	if c, ok := src.(io.Closer); ok {
		r.closers = append(r.closers, c)
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.charset != "" && r.decoder == (asciiDecoder{}) {
		dec, err := NewCharsetDecoder(r.charset)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.decoder = dec
	}
	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.parseFields(); err != nil {
		r.Close()
		return nil, err
	}
	r.logger.Debug("dbf opened",
		"version", r.header.Version(),
		"records", r.header.RecordCount,
		"fields", len(r.fields),
		"recordLength", r.header.RecordLength,
		"hasMemo", r.memo != nil)
	return r, nil
}

// Open opens the DBF file at path read-only and constructs a Reader over it.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// NewReader closes f on construction failure
	return NewReader(f, opts...)
}

// OpenWithMemo opens a DBF file together with its companion DBT memo file.
func OpenWithMemo(path, memoPath string, opts ...Option) (*Reader, error) {
	m, err := os.Open(memoPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		m.Close()
		return nil, err
	}
	// NewReader closes both files on construction failure
	return NewReader(f, append(opts, WithMemo(m))...)
}

// Close releases every owned stream. Safe to call more than once.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *Reader) parseHeader() error {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return &FormatError{Reason: "truncated header", cause: err}
	}
	h := decodeHeader(buf)
	if h.Version() > maxVersion {
		return &FormatError{Reason: fmt.Sprintf("unsupported version %d (signature 0x%02X)", h.Version(), h.Signature)}
	}
	r.header = h
	return nil
}

// parseFields reads 32-byte descriptors until the 0x0D terminator, then
// derives the physical record stride and skips any residual header bytes up
// to the declared header length.
func (r *Reader) parseFields() error {
	r.fieldIndex = make(map[string]int)
	dataLength := 1 // deletion flag
	buf := make([]byte, descriptorSize)
	for {
		first, err := r.src.ReadByte()
		if err != nil {
			return &FormatError{Reason: "field table terminator not found", cause: err}
		}
		if first == fieldTerminator {
			break
		}
		buf[0] = first
		if _, err := io.ReadFull(r.src, buf[1:]); err != nil {
			return &FormatError{Reason: "truncated field descriptor", cause: err}
		}
		fd := decodeFieldDescriptor(buf, r.decoder)
		r.fieldIndex[fd.Name] = len(r.fields) // last wins on duplicate names
		r.fields = append(r.fields, fd)
		dataLength += fd.Length
	}
	// tolerate files whose declared record length disagrees with the field
	// sum by taking the larger
	if rl := int(r.header.RecordLength); rl > dataLength {
		dataLength = rl
	}
	r.dataLength = dataLength

	consumed := headerSize + len(r.fields)*descriptorSize + 1
	if rest := int(r.header.HeaderLength) - consumed; rest > 0 {
		if _, err := io.CopyN(io.Discard, r.src, int64(rest)); err != nil {
			return &FormatError{Reason: "truncated header block", cause: err}
		}
	}
	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() FileHeader { return r.header }

// RecordCount returns the record count declared in the header, which
// includes soft-deleted records.
func (r *Reader) RecordCount() uint32 { return r.header.RecordCount }

// FieldCount returns the number of fields per record.
func (r *Reader) FieldCount() int { return len(r.fields) }

// Field returns the descriptor of the field at ordinal i.
func (r *Reader) Field(i int) FieldDescriptor { return r.fields[i] }

// Fields returns the descriptors in physical record order. The slice is
// owned by the Reader and must not be modified.
func (r *Reader) Fields() []FieldDescriptor { return r.fields }

// FieldIndex returns the ordinal of the named field, or -1 when no field
// has that name. Matching is exact and case-sensitive.
func (r *Reader) FieldIndex(name string) int {
	if i, ok := r.fieldIndex[name]; ok {
		return i
	}
	return -1
}

// Value returns the field at ordinal i of the last record read, or a null
// Value before the first successful ReadNext.
func (r *Reader) Value(i int) Value {
	if r.record == nil {
		return Value{}
	}
	return r.record[i]
}

// ValueByName returns the named field of the last record read, or a null
// Value when the name is unknown.
func (r *Reader) ValueByName(name string) Value {
	i := r.FieldIndex(name)
	if i < 0 || r.record == nil {
		return Value{}
	}
	return r.record[i]
}

// Record returns the last record read as an ordered value sequence. The
// slice is a borrowed view of the internal buffer: it is overwritten by
// every ReadNext call. Copy the Values out to retain them.
func (r *Reader) Record() []Value { return r.record }

// discardHandler drops every log record; the default when no logger is set.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }

func (d discardHandler) WithGroup(string) slog.Handler { return d }
