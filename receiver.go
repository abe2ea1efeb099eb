// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

// TCPReceiver consumes wire segments, tracks the peer's initial sequence
// number, translates 32-bit wrapped sequence numbers back into 64-bit
// absolute stream indices via Wrap32, and produces acknowledgements and
// window advertisements.
type TCPReceiver struct {
	reassembler *Reassembler
	inbound     *ByteStream

	isn     Wrap32
	synSeen bool
}

// NewTCPReceiver returns a TCPReceiver writing assembled payload bytes to
// inbound.
func NewTCPReceiver(inbound *ByteStream) *TCPReceiver {
	return &TCPReceiver{
		reassembler: NewReassembler(inbound),
		inbound:     inbound,
	}
}

// Receive handles one inbound wire segment.
func (r *TCPReceiver) Receive(seg Segment) {
	if seg.RST {
		r.inbound.Writer().SetError()
		return
	}

	if seg.SYN && !r.synSeen {
		r.isn = seg.Seqno
		r.synSeen = true
	}
	if !r.synSeen {
		return
	}

	checkpoint := r.inbound.Writer().BytesPushed() + 1
	absSeqno := UnwrapSeq(seg.Seqno, r.isn, checkpoint)

	var synAdj uint64
	if seg.SYN {
		synAdj = 1
	}
	streamIndex := absSeqno + synAdj - 1

	r.reassembler.Insert(streamIndex, seg.Payload, seg.FIN)
}

// Send produces the receiver's current acknowledgement/window-advertisement
// message.
func (r *TCPReceiver) Send() ReceiverMessage {
	msg := ReceiverMessage{RST: r.inbound.Reader().HasError()}

	if !r.synSeen {
		return msg
	}

	absAckno := r.inbound.Writer().BytesPushed() + 1
	if r.inbound.Writer().IsClosed() {
		absAckno++
	}
	msg.Ackno = WrapSeq(absAckno, r.isn)
	msg.HaveAckno = true

	avail := r.inbound.Writer().AvailableCapacity()
	if avail > 65535 {
		avail = 65535
	}
	msg.WindowSize = uint16(avail)

	return msg
}
