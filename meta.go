package godbf

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"
)

const (
	headerSize      = 32
	descriptorSize  = 32
	fieldTerminator = 0x0D
	deletedMarker   = '*'
	maxVersion      = 3
)

// FieldType is the closed set of field types this reader decodes, built
// from the raw type byte of a field descriptor. Binary, Integer and any
// other tag map to TypeUnsupported.
type FieldType int

const (
	TypeCharacter FieldType = iota
	TypeNumeric
	TypeDouble
	TypeDate
	TypeLogical
	TypeMemo
	TypeUnsupported
)

func (t FieldType) String() string {
	switch t {
	case TypeCharacter:
		return "Character"
	case TypeNumeric:
		return "Numeric"
	case TypeDouble:
		return "Double"
	case TypeDate:
		return "Date"
	case TypeLogical:
		return "Logical"
	case TypeMemo:
		return "Memo"
	}
	return "Unsupported"
}

func fieldTypeOf(tag byte) FieldType {
	switch tag {
	case 'C':
		return TypeCharacter
	case 'N':
		return TypeNumeric
	case 'F', 'O':
		return TypeDouble
	case 'D':
		return TypeDate
	case 'L':
		return TypeLogical
	case 'M':
		return TypeMemo
	}
	return TypeUnsupported
}

// FileHeader holds the fixed 32-byte DBF file header.
type FileHeader struct {
	Signature       byte
	LastUpdateYear  byte // stored as offset from 1900
	LastUpdateMonth byte
	LastUpdateDay   byte
	RecordCount     uint32
	HeaderLength    uint16
	RecordLength    uint16
	TableFlags      byte
	CodePage        byte
}

// Version is the format version carried in the low 3 bits of the signature.
func (h FileHeader) Version() byte { return h.Signature & 0x07 }

// LastModified returns the last-update stamp from the header. The stored
// year/month/day bytes are not validated anywhere, so the result may be a
// normalized nonsense date for corrupt headers.
func (h FileHeader) LastModified() time.Time {
	return time.Date(1900+int(h.LastUpdateYear), time.Month(h.LastUpdateMonth),
		int(h.LastUpdateDay), 0, 0, 0, 0, time.UTC)
}

// FieldDescriptor describes one column of the table.
type FieldDescriptor struct {
	Name     string
	Type     FieldType
	TypeTag  byte // raw type byte, kept for diagnostics on unsupported types
	Length   int
	Decimals int
}

// decodeHeader interprets a 32-byte window as a FileHeader. Layout is
// little-endian with 1-byte packing; reserved ranges are skipped.
func decodeHeader(buf []byte) FileHeader {
	return FileHeader{
		Signature:       buf[0],
		LastUpdateYear:  buf[1],
		LastUpdateMonth: buf[2],
		LastUpdateDay:   buf[3],
		RecordCount:     binary.LittleEndian.Uint32(buf[4:8]),
		HeaderLength:    binary.LittleEndian.Uint16(buf[8:10]),
		RecordLength:    binary.LittleEndian.Uint16(buf[10:12]),
		TableFlags:      buf[28],
		CodePage:        buf[29],
	}
}

// decodeFieldDescriptor interprets a 32-byte window as a FieldDescriptor.
// The name occupies the first 11 bytes, NUL-padded, and is decoded with the
// configured text decoder. For Character fields the decimals byte is the
// high byte of a 16-bit length extension, not a decimal count.
func decodeFieldDescriptor(buf []byte, dec TextDecoder) FieldDescriptor {
	name := buf[:11]
	if i := bytes.IndexByte(name, 0x00); i >= 0 {
		name = name[:i]
	}
	fd := FieldDescriptor{
		Name:     strings.TrimSpace(dec.Decode(name)),
		TypeTag:  buf[11],
		Type:     fieldTypeOf(buf[11]),
		Length:   int(buf[16]),
		Decimals: int(buf[17]),
	}
	if fd.Type == TypeCharacter {
		fd.Length += 256 * fd.Decimals
		fd.Decimals = 0
	}
	return fd
}
