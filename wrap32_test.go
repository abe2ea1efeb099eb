// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp_test

import (
	"testing"

	"code.hybscloud.com/mtcp"
)

func TestWrapSeq(t *testing.T) {
	got := mtcp.WrapSeq((1<<32)+17, mtcp.Wrap32(100))
	if got != mtcp.Wrap32(117) {
		t.Fatalf("WrapSeq = %v, want 117", got)
	}
}

func TestUnwrapSeq(t *testing.T) {
	cases := []struct {
		name       string
		wrapped    mtcp.Wrap32
		zeroPoint  mtcp.Wrap32
		checkpoint uint64
		want       uint64
	}{
		{"far checkpoint resolves across a wrap", 117, 100, (1 << 32) - 10, (1 << 32) + 17},
		{"zero/zero/zero", 0, 0, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := mtcp.UnwrapSeq(c.wrapped, c.zeroPoint, c.checkpoint)
			if got != c.want {
				t.Fatalf("UnwrapSeq(%v,%v,%d) = %d, want %d", c.wrapped, c.zeroPoint, c.checkpoint, got, c.want)
			}
		})
	}
}

func TestWrap32RoundTrip(t *testing.T) {
	ns := []uint64{0, 1, 1 << 16, 1 << 31, 1 << 32, (1 << 32) + 12345, 1 << 40}
	zeroPoints := []mtcp.Wrap32{0, 1, 12345, 1 << 31}
	for _, n := range ns {
		for _, z := range zeroPoints {
			w := mtcp.WrapSeq(n, z)
			if got := mtcp.UnwrapSeq(w, z, n); got != n {
				t.Fatalf("round trip n=%d z=%v: UnwrapSeq(WrapSeq(n,z),z,n) = %d, want %d", n, z, got, n)
			}
		}
	}
}

func TestUnwrapSeqClosestToCheckpoint(t *testing.T) {
	// checkpoint well above 2^31: result must stay within 2^31 of it.
	ck := uint64(3) << 32
	w := mtcp.WrapSeq(ck+5, 0)
	got := mtcp.UnwrapSeq(w, 0, ck)
	diff := int64(got) - int64(ck)
	if diff < 0 {
		diff = -diff
	}
	if diff > (1 << 31) {
		t.Fatalf("unwrap not closest to checkpoint: |%d - %d| = %d > 2^31", got, ck, diff)
	}
	if got != ck+5 {
		t.Fatalf("UnwrapSeq = %d, want %d", got, ck+5)
	}
}

func TestUnwrapSeqNeverNegative(t *testing.T) {
	// A checkpoint near zero with a wrapped value that would naturally
	// resolve to a small negative candidate must wrap forward instead.
	got := mtcp.UnwrapSeq(mtcp.Wrap32(0xFFFFFFFE), 0, 0)
	if int64(got) < 0 {
		t.Fatalf("UnwrapSeq returned a negative-looking result: %d", int64(got))
	}
}
