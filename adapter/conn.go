// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package adapter glues a TCPSender/TCPReceiver pair to a datagram
// transport — a TUN device, a TAP bridge, or any net.Conn — the
// peer-to-peer "connection" collaborator spec.md places outside the CORE.
//
// Each Read/Write on the transport carries one raw datagram. Transport
// errors, including iox.ErrWouldBlock, are returned to the caller unchanged;
// the adapter does not retry.
package adapter

import (
	"errors"
	"io"

	"code.hybscloud.com/mtcp"
	"code.hybscloud.com/mtcp/wire"
)

// ErrClosed is returned by Connection methods after Close.
var ErrClosed = errors.New("adapter: connection closed")

// Datagram is the minimal transport a Connection needs: one Read returns
// one inbound wire-encoded segment, one Write sends one outbound
// wire-encoded segment. The *os.File returned by OpenTUN and an
// EthernetFramer satisfy this, as does any io.ReadWriter carrying whole
// datagrams (e.g. a UDP conn).
type Datagram interface {
	io.Reader
	io.Writer
}

// Sender is the subset of *mtcp.TCPSender a Connection drives. It is an
// interface, not a concrete *mtcp.TCPSender, so a metrics.InstrumentedSender
// (or any other decorator embedding *mtcp.TCPSender) can stand in for it.
type Sender interface {
	Push(mtcp.Transmit)
	Receive(mtcp.ReceiverMessage)
	Tick(ms uint64, transmit mtcp.Transmit)
	MakeEmptySegment() mtcp.Segment
}

// Receiver is the subset of *mtcp.TCPReceiver a Connection drives.
type Receiver interface {
	Receive(mtcp.Segment)
	Send() mtcp.ReceiverMessage
}

// Connection runs one Sender/Receiver pair over a Datagram transport,
// synchronously pumping segments in both directions.
type Connection struct {
	tr    Datagram
	codec *wire.Codec

	sender   Sender
	receiver Receiver

	rbuf   []byte
	closed bool
}

// New returns a Connection driving sender/receiver over tr.
func New(tr Datagram, sender Sender, receiver Receiver, codec *wire.Codec) *Connection {
	if codec == nil {
		codec = wire.NewCodec()
	}
	return &Connection{tr: tr, codec: codec, sender: sender, receiver: receiver, rbuf: make([]byte, 64*1024)}
}

// PumpOutbound drains whatever the sender is willing to emit right now onto
// the wire, writing one segment per Write call.
func (c *Connection) PumpOutbound() error {
	if c.closed {
		return ErrClosed
	}
	var writeErr error
	c.sender.Push(func(seg mtcp.Segment) {
		if writeErr != nil {
			return
		}
		writeErr = c.writeSegment(seg)
	})
	return writeErr
}

// PumpInbound reads exactly one datagram from the transport, decodes it,
// and feeds it to the receiver. The sender is not updated here; SendAck
// passes the receiver's state to it.
func (c *Connection) PumpInbound() error {
	if c.closed {
		return ErrClosed
	}
	n, err := c.readOnce(c.rbuf)
	if err != nil {
		return err
	}
	seg, err := c.codec.Decode(c.rbuf[:n])
	if err != nil {
		return err
	}
	c.receiver.Receive(seg)
	return nil
}

// SendAck pushes the receiver's current ack/window state to the sender and
// writes the resulting (possibly empty) segment.
func (c *Connection) SendAck() error {
	msg := c.receiver.Send()
	c.sender.Receive(msg)
	seg := c.sender.MakeEmptySegment()
	seg.RST = seg.RST || msg.RST
	return c.writeSegment(seg)
}

// Tick advances the sender's retransmission clock by elapsedMs and writes
// a retransmitted segment if the timer has expired.
func (c *Connection) Tick(elapsedMs uint64) error {
	if c.closed {
		return ErrClosed
	}
	var writeErr error
	c.sender.Tick(elapsedMs, func(seg mtcp.Segment) {
		if writeErr != nil {
			return
		}
		writeErr = c.writeSegment(seg)
	})
	return writeErr
}

// Close marks the connection closed; further pump calls return ErrClosed.
func (c *Connection) Close() error {
	c.closed = true
	return nil
}

func (c *Connection) writeSegment(seg mtcp.Segment) error {
	buf, err := c.codec.Encode(seg)
	if err != nil {
		return err
	}
	return c.writeOnce(buf)
}

// readOnce/writeOnce surface iox.ErrWouldBlock to the caller rather than
// retrying internally: the caller drives the retry loop by calling Pump*
// again, following the CORE's own rule that every event is a discrete,
// synchronous step with no implicit background work. cmd/webget's
// getURL loop is what actually branches on iox.ErrWouldBlock.
func (c *Connection) readOnce(p []byte) (int, error) {
	return c.tr.Read(p)
}

func (c *Connection) writeOnce(p []byte) error {
	n, err := c.tr.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}
