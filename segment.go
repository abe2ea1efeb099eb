// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

// Segment is the wire-segment shape consumed by TCPReceiver.Receive and
// produced by TCPSender's transmit callback.
type Segment struct {
	Seqno   Wrap32
	SYN     bool
	Payload []byte
	FIN     bool
	RST     bool
}

// SequenceLength returns the segment's footprint in the sequence space:
// payload length plus one for SYN plus one for FIN.
func (s Segment) SequenceLength() uint64 {
	n := uint64(len(s.Payload))
	if s.SYN {
		n++
	}
	if s.FIN {
		n++
	}
	return n
}

// ReceiverMessage is the receiver-to-sender feedback message: what
// TCPReceiver.Send produces and TCPSender.Receive consumes.
type ReceiverMessage struct {
	Ackno      Wrap32
	HaveAckno  bool
	WindowSize uint16
	RST        bool
}

// Transmit is the callback a TCPSender uses to hand a freshly built segment
// to its external collaborator (a datagram adapter, a test harness, ...).
type Transmit func(Segment)
