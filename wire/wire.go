// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire encodes and decodes mtcp.Segment values to and from a fixed
// wire layout, for collaborators that move segments over a real byte-level
// transport (a TUN device, a test harness pipe, ...).
//
// Wire layout: a 1-byte flags field (bit 0 SYN, bit 1 FIN, bit 2 RST),
// a 4-byte sequence number, a 2-byte payload length, then the payload.
// Byte order follows the configured Codec; real network
// transports use big-endian, a local loopback transport may use native
// order instead.
package wire

import (
	"encoding/binary"
	"errors"

	"code.hybscloud.com/mtcp"
	"code.hybscloud.com/mtcp/internal/bo"
)

const headerLen = 1 + 4 + 2

const (
	flagSYN byte = 1 << 0
	flagFIN byte = 1 << 1
	flagRST byte = 1 << 2
)

var (
	// ErrTooShort reports a buffer too small to hold a full header, or a
	// header whose declared payload length overruns the buffer.
	ErrTooShort = errors.New("wire: buffer too short for segment")

	// ErrPayloadTooLarge reports a payload that cannot fit the 16-bit
	// length field.
	ErrPayloadTooLarge = errors.New("wire: payload exceeds 65535 bytes")
)

// Codec encodes/decodes segments for one byte order.
type Codec struct {
	order binary.ByteOrder
}

// Option configures a Codec.
type Option func(*Codec)

// WithByteOrder overrides the wire byte order (default: big-endian/network
// order).
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *Codec) { c.order = order }
}

// WithLocalByteOrder selects the machine's native byte order, for a
// same-host loopback transport where there is no wire to be interoperable
// over.
func WithLocalByteOrder() Option {
	return func(c *Codec) { c.order = bo.Native() }
}

// NewCodec returns a Codec using network byte order unless overridden.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{order: binary.BigEndian}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode serializes seg into a freshly allocated buffer.
func (c *Codec) Encode(seg mtcp.Segment) ([]byte, error) {
	if len(seg.Payload) > 0xFFFF {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, headerLen+len(seg.Payload))
	buf[0] = flagsByte(seg)
	c.order.PutUint32(buf[1:5], seg.Seqno.Raw())
	c.order.PutUint16(buf[5:7], uint16(len(seg.Payload)))
	copy(buf[headerLen:], seg.Payload)
	return buf, nil
}

// Decode parses a segment out of b. The returned segment's Payload aliases
// freshly copied memory, not b.
func (c *Codec) Decode(b []byte) (mtcp.Segment, error) {
	if len(b) < headerLen {
		return mtcp.Segment{}, ErrTooShort
	}
	flags := b[0]
	seqno := mtcp.Wrap32(c.order.Uint32(b[1:5]))
	n := int(c.order.Uint16(b[5:7]))
	if len(b) < headerLen+n {
		return mtcp.Segment{}, ErrTooShort
	}
	payload := append([]byte(nil), b[headerLen:headerLen+n]...)
	return mtcp.Segment{
		Seqno:   seqno,
		SYN:     flags&flagSYN != 0,
		FIN:     flags&flagFIN != 0,
		RST:     flags&flagRST != 0,
		Payload: payload,
	}, nil
}

func flagsByte(seg mtcp.Segment) byte {
	var b byte
	if seg.SYN {
		b |= flagSYN
	}
	if seg.FIN {
		b |= flagFIN
	}
	if seg.RST {
		b |= flagRST
	}
	return b
}
