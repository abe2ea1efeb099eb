// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

// Wrap32 is a 32-bit wire sequence number: an absolute 64-bit stream
// position reduced modulo 2^32 and offset by a zero point (the ISN for
// its direction).
type Wrap32 uint32

// Raw returns the underlying 32-bit value.
func (w Wrap32) Raw() uint32 { return uint32(w) }

// WrapSeq converts an absolute 64-bit sequence number to wire form relative
// to zeroPoint: (n mod 2^32) + zeroPoint, mod 2^32.
func WrapSeq(nAbs uint64, zeroPoint Wrap32) Wrap32 {
	return Wrap32(uint32(nAbs) + uint32(zeroPoint))
}

// UnwrapSeq returns the 64-bit absolute sequence number whose wrapped form
// equals wrapped and which is closest to checkpoint. At an exact tie (both
// candidates 2^31 away) the smaller one is returned, unless it would be
// negative, in which case the larger one is. The result is never negative.
func UnwrapSeq(wrapped, zeroPoint Wrap32, checkpoint uint64) uint64 {
	off32 := uint32(wrapped) - uint32(zeroPoint)
	ck32 := uint32(checkpoint)
	delta := int64(int32(off32 - ck32))
	candidate := int64(checkpoint) + delta
	if candidate < 0 {
		candidate += 1 << 32
	}
	return uint64(candidate)
}
