// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp_test

import (
	"testing"

	"code.hybscloud.com/mtcp"
)

func TestTCPReceiverHandshakeAndPayload(t *testing.T) {
	isn := mtcp.Wrap32(400)
	inbound := mtcp.NewByteStream(64)
	recv := mtcp.NewTCPReceiver(inbound)

	recv.Receive(mtcp.Segment{Seqno: isn, SYN: true})
	msg := recv.Send()
	if !msg.HaveAckno || msg.Ackno != mtcp.WrapSeq(1, isn) {
		t.Fatalf("ackno after SYN = %+v, want wrap(1)", msg)
	}
	if msg.WindowSize != 64 {
		t.Fatalf("window = %d, want 64", msg.WindowSize)
	}

	recv.Receive(mtcp.Segment{Seqno: mtcp.WrapSeq(1, isn), Payload: []byte("hello")})
	r := inbound.Reader()
	if string(r.Peek()) != "hello" {
		t.Fatalf("assembled payload = %q, want %q", r.Peek(), "hello")
	}
	msg = recv.Send()
	if msg.Ackno != mtcp.WrapSeq(6, isn) {
		t.Fatalf("ackno after payload = %v, want wrap(6)", msg.Ackno)
	}
}

func TestTCPReceiverDiscardsBeforeSYN(t *testing.T) {
	inbound := mtcp.NewByteStream(64)
	recv := mtcp.NewTCPReceiver(inbound)

	recv.Receive(mtcp.Segment{Seqno: 5, Payload: []byte("nope")})

	r := inbound.Reader()
	if r.BytesBuffered() != 0 {
		t.Fatalf("bytes buffered before SYN = %d, want 0", r.BytesBuffered())
	}
	if msg := recv.Send(); msg.HaveAckno {
		t.Fatalf("ackno present before SYN seen: %+v", msg)
	}
}

func TestTCPReceiverFINClosesAndAcksSYNAndFIN(t *testing.T) {
	isn := mtcp.Wrap32(0)
	inbound := mtcp.NewByteStream(64)
	recv := mtcp.NewTCPReceiver(inbound)

	recv.Receive(mtcp.Segment{Seqno: isn, SYN: true, Payload: []byte("hi"), FIN: true})

	r := inbound.Reader()
	if !r.IsClosed() {
		t.Fatal("stream not closed after FIN reassembled")
	}
	msg := recv.Send()
	// abs_ackno = bytes_pushed(2) + 1 (SYN) + 1 (FIN) = 4.
	if msg.Ackno != mtcp.WrapSeq(4, isn) {
		t.Fatalf("ackno = %v, want wrap(4)", msg.Ackno)
	}
}

func TestTCPReceiverRSTSetsError(t *testing.T) {
	inbound := mtcp.NewByteStream(64)
	recv := mtcp.NewTCPReceiver(inbound)

	recv.Receive(mtcp.Segment{RST: true})

	if msg := recv.Send(); !msg.RST {
		t.Fatal("Send().RST false after an RST segment was received")
	}
}
