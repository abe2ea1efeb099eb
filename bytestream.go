// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mtcp implements the in-order byte delivery pipeline and the
// reliable-transmission state machines for one TCP connection endpoint:
// ByteStream, Wrap32, Reassembler, TCPReceiver, and TCPSender.
//
// The package is single-threaded and event-driven: every exported method
// runs synchronously to completion and there is no internal locking. A
// caller drives a TCPSender/TCPReceiver pair with discrete events (Push,
// Tick, Receive) and must not call back into either from inside the
// transmit callback it supplies to Push/Tick.
package mtcp

import "bytes"

// ByteStream is a bounded, single-producer/single-consumer byte pipe with
// closure and error signalling.
//
// A ByteStream owns its state exclusively; Writer and Reader are two
// capability handles over that one state, obtained via the Writer and
// Reader methods. Both handles observe each other's mutations because they
// hold a pointer back to the same ByteStream — passing a ByteStream by
// value is therefore meaningless and the type is only ever used through
// *ByteStream and its handles.
type ByteStream struct {
	capacity uint64
	buf      bytes.Buffer

	pushed uint64
	popped uint64

	closed  bool // input-closed: no more writes will come
	errored bool // poisoned
}

// NewByteStream returns a ByteStream with the given capacity in bytes.
func NewByteStream(capacity uint64) *ByteStream {
	return &ByteStream{capacity: capacity}
}

// Writer returns the write capability over s.
func (s *ByteStream) Writer() Writer { return Writer{s: s} }

// Reader returns the read capability over s.
func (s *ByteStream) Reader() Reader { return Reader{s: s} }

// Writer is the write-side capability of a ByteStream.
type Writer struct{ s *ByteStream }

// Push admits min(len(data), AvailableCapacity()) bytes from the front of
// data and silently truncates the rest. It is a no-op if the stream is
// input-closed or data is empty. Returns the number of bytes actually
// admitted.
func (w Writer) Push(data []byte) int {
	if w.s.closed || len(data) == 0 {
		return 0
	}
	avail := w.AvailableCapacity()
	n := uint64(len(data))
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	w.s.buf.Write(data[:n])
	w.s.pushed += n
	return int(n)
}

// Close marks the stream input-closed. Idempotent; never clears once set.
func (w Writer) Close() { w.s.closed = true }

// SetError poisons the stream. Does not affect counters or the closed flag.
func (w Writer) SetError() { w.s.errored = true }

// AvailableCapacity returns the capacity left for Push.
func (w Writer) AvailableCapacity() uint64 {
	buffered := uint64(w.s.buf.Len())
	if buffered >= w.s.capacity {
		return 0
	}
	return w.s.capacity - buffered
}

// BytesPushed returns the cumulative count of bytes admitted by Push.
func (w Writer) BytesPushed() uint64 { return w.s.pushed }

// IsClosed reports whether the stream is input-closed.
func (w Writer) IsClosed() bool { return w.s.closed }

// HasError reports whether the stream is poisoned.
func (w Writer) HasError() bool { return w.s.errored }

// Reader is the read-side capability of a ByteStream.
type Reader struct{ s *ByteStream }

// Peek returns a view of the longest contiguous prefix of buffered bytes
// currently available, without copying. The returned slice is invalidated
// by the next Push or Pop.
func (r Reader) Peek() []byte { return r.s.buf.Bytes() }

// Pop removes min(n, BytesBuffered()) bytes from the front of the stream.
func (r Reader) Pop(n int) {
	if n <= 0 {
		return
	}
	if n > r.s.buf.Len() {
		n = r.s.buf.Len()
	}
	r.s.buf.Next(n)
	r.s.popped += uint64(n)
}

// BytesBuffered returns the number of bytes currently buffered.
func (r Reader) BytesBuffered() uint64 { return uint64(r.s.buf.Len()) }

// BytesPopped returns the cumulative count of bytes removed by Pop.
func (r Reader) BytesPopped() uint64 { return r.s.popped }

// IsClosed reports whether the stream is input-closed.
func (r Reader) IsClosed() bool { return r.s.closed }

// HasError reports whether the stream is poisoned.
func (r Reader) HasError() bool { return r.s.errored }

// SetError poisons the stream. Exposed on Reader too since either side of
// a pipe may detect a failure that should propagate to its peer.
func (r Reader) SetError() { r.s.errored = true }

// IsFinished reports whether the stream is input-closed and fully drained.
func (r Reader) IsFinished() bool { return r.s.closed && r.s.buf.Len() == 0 }
