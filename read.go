package godbf

import "io"

// ReadNext advances to the next live record and reports whether one is
// available. Soft-deleted records are skipped transparently. Clean end of
// stream — including a truncated final record — yields (false, nil) and
// every later call returns (false, nil) without further I/O. A DecodeError
// leaves the cursor at the next record boundary so the caller may keep
// reading past a bad record.
func (r *Reader) ReadNext() (bool, error) {
	if r.exhausted {
		return false, nil
	}
	if r.record == nil {
		r.record = make([]Value, len(r.fields))
		r.scratch = make([]byte, r.dataLength-1)
	}
	for i := range r.record {
		r.record[i] = Value{}
	}

	// skip loop: deleted payload bytes are irrelevant, only the byte count
	// matters for cursor advancement
	flag, err := r.src.ReadByte()
	for err == nil && flag == deletedMarker {
		if _, err = io.CopyN(io.Discard, r.src, int64(r.dataLength-1)); err != nil {
			break
		}
		flag, err = r.src.ReadByte()
	}
	if err != nil {
		r.exhausted = true
		return false, nil
	}

	consumed := 1
	off := 0
	for i, fd := range r.fields {
		raw := r.scratch[off : off+fd.Length]
		if _, err := io.ReadFull(r.src, raw); err != nil {
			// truncated final record, same as end of stream
			r.exhausted = true
			return false, nil
		}
		off += fd.Length
		consumed += fd.Length
		v, err := r.decodeValue(fd, raw)
		if err != nil {
			r.skipPadding(consumed)
			return false, err
		}
		r.record[i] = v
	}
	r.skipPadding(consumed)
	return true, nil
}

// skipPadding discards whatever remains of the current record: trailing pad
// bytes when the record stride exceeds the field sum, or the unread tail of
// a record whose decoding failed.
func (r *Reader) skipPadding(consumed int) {
	if pad := r.dataLength - consumed; pad > 0 {
		if _, err := io.CopyN(io.Discard, r.src, int64(pad)); err != nil {
			r.exhausted = true
		}
	}
}
