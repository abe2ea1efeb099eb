// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"reflect"
	"testing"

	"code.hybscloud.com/mtcp"
	"code.hybscloud.com/mtcp/wire"
)

func TestCodecRoundTrip(t *testing.T) {
	cases := []mtcp.Segment{
		{Seqno: 42, SYN: true},
		{Seqno: 1000, Payload: []byte("hello, wire")},
		{Seqno: 7, FIN: true},
		{Seqno: 0, RST: true},
	}
	c := wire.NewCodec()
	for _, seg := range cases {
		enc, err := c.Encode(seg)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", seg, err)
		}
		dec, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if dec.Seqno != seg.Seqno || dec.SYN != seg.SYN || dec.FIN != seg.FIN || dec.RST != seg.RST {
			t.Fatalf("round trip flags/seqno mismatch: got %+v, want %+v", dec, seg)
		}
		if !reflect.DeepEqual(dec.Payload, seg.Payload) && !(len(dec.Payload) == 0 && len(seg.Payload) == 0) {
			t.Fatalf("round trip payload mismatch: got %q, want %q", dec.Payload, seg.Payload)
		}
	}
}

func TestDecodeTooShort(t *testing.T) {
	c := wire.NewCodec()
	if _, err := c.Decode([]byte{1, 2, 3}); err != wire.ErrTooShort {
		t.Fatalf("Decode(short buffer) error = %v, want ErrTooShort", err)
	}
}

func TestLocalByteOrderRoundTrip(t *testing.T) {
	c := wire.NewCodec(wire.WithLocalByteOrder())
	seg := mtcp.Segment{Seqno: 0xDEADBEEF, Payload: []byte("x")}
	enc, err := c.Encode(seg)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := c.Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Seqno != seg.Seqno {
		t.Fatalf("seqno = %v, want %v", dec.Seqno, seg.Seqno)
	}
}
