// File: codec/reader.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package codec

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// defaultChunk is the per-read fill size of a FrameReader.
const defaultChunk = 4096

// Reader is the context-aware read surface a FrameReader pumps from.
// *pollfile.File satisfies it.
type Reader interface {
	Read(ctx context.Context, p []byte) (int, error)
}

// FrameReader pumps a Reader through a DelimCodec, yielding one frame
// per ReadFrame call. Frames are returned in stream order; after the
// final (possibly delimiter-less) frame every call reports io.EOF.
//
// Not safe for concurrent use.
type FrameReader struct {
	r     Reader
	codec DelimCodec
	buf   bytes.Buffer
	chunk []byte
	eof   bool
}

// NewFrameReader returns a FrameReader over r using c.
func NewFrameReader(r Reader, c DelimCodec) *FrameReader {
	return &FrameReader{
		r:     r,
		codec: c,
		chunk: make([]byte, defaultChunk),
	}
}

// ReadFrame returns the next frame. Underlying read errors other than
// end-of-stream pass through unchanged; the FrameReader stays usable
// for subsequent calls after a transient error.
func (fr *FrameReader) ReadFrame(ctx context.Context) ([]byte, error) {
	for {
		if frame, n := fr.codec.Decode(fr.buf.Bytes()); n > 0 {
			return fr.consume(frame, n), nil
		}
		if fr.eof {
			if frame, n := fr.codec.DecodeEOF(fr.buf.Bytes()); n > 0 {
				return fr.consume(frame, n), nil
			}
			return nil, io.EOF
		}

		n, err := fr.r.Read(ctx, fr.chunk)
		if n > 0 {
			fr.buf.Write(fr.chunk[:n])
		}
		switch {
		case errors.Is(err, io.EOF):
			fr.eof = true
		case err != nil:
			return nil, err
		case n == 0:
			// Raw descriptor reads report end-of-stream as (0, nil).
			fr.eof = true
		}
	}
}

// consume copies frame out of the accumulating buffer before the
// buffered bytes are discarded.
func (fr *FrameReader) consume(frame []byte, n int) []byte {
	out := make([]byte, len(frame))
	copy(out, frame)
	fr.buf.Next(n)
	return out
}
