// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp_test

import (
	"testing"

	"code.hybscloud.com/mtcp"
)

func TestReassemblerOutOfOrderMerge(t *testing.T) {
	s := mtcp.NewByteStream(100)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	re.Insert(5, []byte("fghij"), false)
	re.Insert(0, []byte("abcde"), false)
	re.Insert(10, nil, true)

	got := string(r.Peek())
	if got != "abcdefghij" {
		t.Fatalf("assembled = %q, want %q", got, "abcdefghij")
	}
	if !r.IsClosed() {
		t.Fatal("stream not closed after last-substring fragment assembled")
	}
}

func TestReassemblerOverlap(t *testing.T) {
	s := mtcp.NewByteStream(100)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	re.Insert(0, []byte("abc"), false)
	re.Insert(2, []byte("cdef"), false)
	re.Insert(4, []byte("efghi"), true)

	got := string(r.Peek())
	if got != "abcdefghi" {
		t.Fatalf("assembled = %q, want %q", got, "abcdefghi")
	}
	if !r.IsClosed() {
		t.Fatal("stream not closed")
	}
}

func TestReassemblerIdempotence(t *testing.T) {
	s := mtcp.NewByteStream(100)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	re.Insert(0, []byte("abcdef"), false)
	before := string(r.Peek())

	re.Insert(0, []byte("abcdef"), false) // identical resend
	re.Insert(2, []byte("cd"), false)     // subset resend
	after := string(r.Peek())

	if before != after {
		t.Fatalf("re-inserting already-assembled bytes changed the stream: %q -> %q", before, after)
	}
}

func TestReassemblerCapacityBoundDropsOverflow(t *testing.T) {
	s := mtcp.NewByteStream(4)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	// The part beyond capacity at the current next index is dropped even
	// though the fragment carries the last-substring flag. end_index is
	// still recorded.
	re.Insert(0, []byte("abcdefgh"), true)
	if got := string(r.Peek()); got != "abcd" {
		t.Fatalf("assembled = %q, want %q (clipped to capacity)", got, "abcd")
	}
	if r.IsClosed() {
		t.Fatal("stream closed even though end_index was beyond what capacity allowed through")
	}

	r.Pop(4)
	// Retransmission redelivers the remainder once capacity opens.
	re.Insert(4, []byte("efgh"), true)
	if got := string(r.Peek()); got != "efgh" {
		t.Fatalf("assembled = %q, want %q", got, "efgh")
	}
	if !r.IsClosed() {
		t.Fatal("stream not closed after end_index finally reached")
	}
}

func TestReassemblerEmptyLastSubstringClosesAtNextIndex(t *testing.T) {
	s := mtcp.NewByteStream(10)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	re.Insert(0, nil, true)
	if !r.IsClosed() {
		t.Fatal("empty is_last fragment at next_idx=0 must close the stream")
	}
	if r.BytesBuffered() != 0 {
		t.Fatalf("BytesBuffered = %d, want 0", r.BytesBuffered())
	}
}

func TestReassemblerZeroLengthFragmentNeverPending(t *testing.T) {
	s := mtcp.NewByteStream(10)
	re := mtcp.NewReassembler(s)

	re.Insert(5, nil, false) // out-of-order, zero-length
	if re.CountBytesPending() != 0 {
		t.Fatalf("CountBytesPending = %d, want 0 for a zero-length fragment", re.CountBytesPending())
	}
}

func TestReassemblerOrderingWrittenOnce(t *testing.T) {
	s := mtcp.NewByteStream(100)
	r := s.Reader()
	re := mtcp.NewReassembler(s)

	re.Insert(3, []byte("def"), false)
	re.Insert(0, []byte("abc"), false)
	re.Insert(0, []byte("ZZZ"), false) // fully stale resend, must not re-apply

	if got := string(r.Peek()); got != "abcdef" {
		t.Fatalf("assembled = %q, want %q", got, "abcdef")
	}
}
