// File: codec/delim.go
// Package codec implements the delimiter framing transform shared by the
// pollio read path.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package codec

import "bytes"

// DelimCodec splits a byte stream into frames terminated by (and
// including) a single delimiter byte. The codec itself retains nothing;
// callers own the accumulating buffer.
type DelimCodec struct {
	Delim byte
}

// Lines returns a codec framing on '\n'.
func Lines() DelimCodec {
	return DelimCodec{Delim: '\n'}
}

// Decode scans buf for the first delimiter occurrence.
// Returns at most one frame per call: everything up to and including
// the delimiter, plus the number of bytes consumed from buf. If no
// delimiter is present yet, returns (nil, 0) and bytes keep
// accumulating. The returned frame aliases buf.
func (c DelimCodec) Decode(buf []byte) (frame []byte, n int) {
	i := bytes.IndexByte(buf, c.Delim)
	if i < 0 {
		return nil, 0 // Incomplete
	}
	return buf[:i+1], i + 1
}

// DecodeEOF drains the final frame at end-of-stream: a non-empty
// remainder comes back once as a possibly delimiter-less frame, an
// empty remainder yields no frame.
func (c DelimCodec) DecodeEOF(buf []byte) (frame []byte, n int) {
	if len(buf) == 0 {
		return nil, 0
	}
	return buf, len(buf)
}

// Encode appends payload followed by one delimiter byte to dst and
// returns the extended slice.
func (c DelimCodec) Encode(dst, payload []byte) []byte {
	dst = append(dst, payload...)
	return append(dst, c.Delim)
}
