package godbf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	memoBlockShift = 9 // 512-byte blocks
	memoTerminator = 0x1A
)

// dBASE memos mark soft line breaks with 0x8D 0x0A.
var memoLineBreak = []byte{0x8D, 0x0A}

// readMemo extracts the memo text stored at the given 0-based block index.
// Block 0 of the memo file is its header, so content starts one block in.
// The seek is absolute on every call, so memo reads may interleave freely
// with primary record reads.
func (r *Reader) readMemo(block int) (string, error) {
	if _, err := r.memo.Seek(int64(block+1)<<memoBlockShift, io.SeekStart); err != nil {
		return "", fmt.Errorf("dbf: memo block %d: %w", block, err)
	}
	br := bufio.NewReader(r.memo)
	var buf []byte
	var prev byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("dbf: memo block %d: terminator not found: %w", block, err)
		}
		if b == memoTerminator && prev == memoTerminator {
			buf = buf[:len(buf)-1] // drop the first terminator byte
			break
		}
		buf = append(buf, b)
		prev = b
	}
	return r.decoder.Decode(bytes.ReplaceAll(buf, memoLineBreak, nil)), nil
}
