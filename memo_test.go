package godbf

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDBT assembles a memo stream with the given payloads placed at their
// block indexes. Block 0 (the memo file header) is left zeroed.
func buildDBT(blocks map[int][]byte) []byte {
	max := 0
	for i := range blocks {
		if i > max {
			max = i
		}
	}
	out := make([]byte, (max+2)<<memoBlockShift)
	for i, payload := range blocks {
		off := (i + 1) << memoBlockShift
		copy(out[off:], payload)
		copy(out[off+len(payload):], []byte{memoTerminator, memoTerminator})
	}
	return out
}

func TestMemoRoundTrip(t *testing.T) {
	payload := "Call me Ishmael. Some years ago - never mind how long precisely."
	memo := bytes.NewReader(buildDBT(map[int][]byte{5: []byte(payload)}))

	r := &Reader{decoder: asciiDecoder{}, memo: memo}
	got, err := r.readMemo(5)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMemoLineBreaksStripped(t *testing.T) {
	raw := []byte("first line\x8D\x0Asecond line\x8D\x0A")
	memo := bytes.NewReader(buildDBT(map[int][]byte{0: raw}))

	r := &Reader{decoder: asciiDecoder{}, memo: memo}
	got, err := r.readMemo(0)
	require.NoError(t, err)
	assert.Equal(t, "first linesecond line", got)
}

func TestMemoSingleTerminatorNotEnough(t *testing.T) {
	// a lone 0x1A inside the content does not terminate the memo
	raw := []byte("before\x1Aafter")
	memo := bytes.NewReader(buildDBT(map[int][]byte{2: raw}))

	r := &Reader{decoder: asciiDecoder{}, memo: memo}
	got, err := r.readMemo(2)
	require.NoError(t, err)
	assert.Equal(t, "before\x1Aafter", got)
}

func TestMemoMissingTerminator(t *testing.T) {
	data := buildDBT(map[int][]byte{1: []byte("unterminated")})
	// chop the stream before the terminator pair
	memo := bytes.NewReader(data[:(2<<memoBlockShift)+5])

	r := &Reader{decoder: asciiDecoder{}, memo: memo}
	_, err := r.readMemo(1)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMemoFieldsEndToEnd(t *testing.T) {
	fields := []testField{
		{name: "ID", tag: 'N', length: 3},
		{name: "NOTE", tag: 'M', length: 10},
	}
	// block references deliberately out of ascending order: every memo
	// decode performs an absolute seek
	data := buildDBF(3, fields,
		row(false, fields, "1", "3"),
		row(false, fields, "2", ""),
		row(false, fields, "3", "1"),
	)
	memo := buildDBT(map[int][]byte{
		1: []byte("note for record three"),
		3: []byte("note for record one"),
	})

	db, err := NewReader(bytes.NewReader(data), WithMemo(bytes.NewReader(memo)))
	require.NoError(t, err)

	ok, err := db.ReadNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "note for record one", db.ValueByName("NOTE").String())

	ok, err = db.ReadNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, db.ValueByName("NOTE").IsNull(), "blank memo reference")

	ok, err = db.ReadNext()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "note for record three", db.ValueByName("NOTE").String())
}
