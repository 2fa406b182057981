package godbf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Value is one decoded field slot. A Value is either null or holds exactly
// one of: string (Character, Memo), decimal.Decimal (Numeric), float64
// (Double), time.Time (Date), bool (Logical). Null is the decoded form of
// recognized-but-empty content (blank numeric, blank date, '?' logical); it
// is not an error state.
type Value struct {
	data any
}

// IsNull reports whether the slot holds no value.
func (v Value) IsNull() bool { return v.data == nil }

// Interface returns the underlying value, or nil when null.
func (v Value) Interface() any { return v.data }

// String renders the value as text; null renders as the empty string.
func (v Value) String() string {
	switch d := v.data.(type) {
	case nil:
		return ""
	case string:
		return d
	case decimal.Decimal:
		return d.String()
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	case time.Time:
		return d.Format("2006-01-02")
	case bool:
		if d {
			return "T"
		}
		return "F"
	}
	return fmt.Sprint(v.data)
}

// Decimal returns the Numeric value, reporting false when the slot holds
// anything else.
func (v Value) Decimal() (decimal.Decimal, bool) {
	d, ok := v.data.(decimal.Decimal)
	return d, ok
}

// Float returns the value as a float64 for Numeric and Double slots.
func (v Value) Float() (float64, bool) {
	switch d := v.data.(type) {
	case float64:
		return d, true
	case decimal.Decimal:
		return d.InexactFloat64(), true
	}
	return 0, false
}

// Date returns the Date value, reporting false when the slot holds
// anything else.
func (v Value) Date() (time.Time, bool) {
	t, ok := v.data.(time.Time)
	return t, ok
}

// Bool returns the Logical value, reporting false when the slot holds
// anything else.
func (v Value) Bool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok
}

// decodeValue dispatches the raw bytes of one field to its type's decoding
// rule. Returns a null Value for recognized-but-empty content, a DecodeError
// when the content cannot be interpreted under the declared type.
func (r *Reader) decodeValue(fd FieldDescriptor, raw []byte) (Value, error) {
	switch fd.Type {
	case TypeCharacter:
		return Value{data: strings.TrimRight(r.decoder.Decode(raw), " \t\r\n\x00")}, nil
	case TypeNumeric:
		return r.decodeNumeric(fd, raw)
	case TypeDouble:
		return r.decodeDouble(fd, raw)
	case TypeDate:
		return decodeDate(raw), nil
	case TypeLogical:
		return decodeLogical(raw), nil
	case TypeMemo:
		return r.decodeMemoField(fd, raw)
	}
	return Value{}, &DecodeError{
		Field: fd.Name,
		Raw:   string(raw),
		cause: fmt.Errorf("unsupported field type %q", fd.TypeTag),
	}
}

// numericText normalizes the textual form of a numeric field. Blank content
// and '?'-terminated content mean "no value"; DBF numerics are right-aligned
// so a trailing space marks an unset cell. Comma decimal points are replaced
// to stay locale-neutral.
func numericText(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if last := s[len(s)-1]; last == ' ' || last == '?' {
		return "", false
	}
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), true
}

func (r *Reader) decodeNumeric(fd FieldDescriptor, raw []byte) (Value, error) {
	text, ok := numericText(r.decoder.Decode(raw))
	if !ok {
		return Value{}, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Value{}, &DecodeError{Field: fd.Name, Raw: string(raw), cause: err}
	}
	return Value{data: d}, nil
}

func (r *Reader) decodeDouble(fd FieldDescriptor, raw []byte) (Value, error) {
	text, ok := numericText(r.decoder.Decode(raw))
	if !ok {
		return Value{}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, &DecodeError{Field: fd.Name, Raw: string(raw), cause: err}
	}
	return Value{data: f}, nil
}

// decodeDate parses YYYYMMDD. Blank or non-numeric content and impossible
// calendar dates all decode to null, never an error.
func decodeDate(raw []byte) Value {
	if len(raw) < 8 {
		return Value{}
	}
	s := string(raw[:8])
	y, err := strconv.Atoi(s[0:4])
	if err != nil {
		return Value{}
	}
	m, err := strconv.Atoi(s[4:6])
	if err != nil {
		return Value{}
	}
	d, err := strconv.Atoi(s[6:8])
	if err != nil {
		return Value{}
	}
	if y < 1 || m < 1 || m > 12 || d < 1 || d > 31 {
		return Value{}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != time.Month(m) {
		// time.Date normalizes Feb 30 and friends
		return Value{}
	}
	return Value{data: t}
}

func decodeLogical(raw []byte) Value {
	if len(raw) == 0 {
		return Value{}
	}
	switch raw[0] {
	case '?':
		return Value{}
	case 't', 'T', 'y', 'Y':
		return Value{data: true}
	}
	return Value{data: false}
}

// decodeMemoField resolves the block index stored in the field against the
// companion memo stream.
func (r *Reader) decodeMemoField(fd FieldDescriptor, raw []byte) (Value, error) {
	text := strings.TrimSpace(r.decoder.Decode(raw))
	if text == "" {
		return Value{}, nil
	}
	block, err := strconv.Atoi(text)
	if err != nil {
		return Value{}, &DecodeError{Field: fd.Name, Raw: string(raw), cause: err}
	}
	if r.memo == nil {
		return Value{}, &DecodeError{Field: fd.Name, Raw: text, cause: ErrNoMemoFile}
	}
	s, err := r.readMemo(block)
	if err != nil {
		return Value{}, err
	}
	return Value{data: s}, nil
}
