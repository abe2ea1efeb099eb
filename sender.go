// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

// TCPSender reads the outbound byte stream, emits segments under
// flow-control constraints, tracks outstanding segments, and implements
// retransmission with exponential backoff.
//
// Congestion control beyond this timer-based backoff (AIMD or similar),
// selective ACK, and simultaneous open are out of scope: this design
// implements only what spec.md's CORE requires.
type TCPSender struct {
	outbound *ByteStream
	isn      Wrap32

	currentSeqno uint64 // next absolute seqno to emit
	senderAckno  uint64 // highest absolute seqno acknowledged by peer
	windowSize   uint16 // last advertised by peer; defaults to 1 before any ACK

	outstanding []outstandingSegment

	timerRunning bool
	elapsedMs    uint64
	currentRTOms uint64
	initialRTOms uint64

	consecutiveRetransmissions uint64
	finSent                    bool

	maxPayloadSize int
}

// outstandingSegment is a (starting_abs_seqno, segment) pair: emitted and
// not yet fully acknowledged.
type outstandingSegment struct {
	startSeqno uint64
	segment    Segment
}

func (o outstandingSegment) endSeqno() uint64 {
	return o.startSeqno + o.segment.SequenceLength()
}

// NewTCPSender returns a TCPSender reading from outbound, using isn as this
// endpoint's initial sequence number and initialRTOms as the starting
// retransmission timeout.
func NewTCPSender(outbound *ByteStream, isn Wrap32, initialRTOms uint64, opts ...SenderOption) *TCPSender {
	cfg := defaultSenderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TCPSender{
		outbound:       outbound,
		isn:            isn,
		windowSize:     1,
		initialRTOms:   initialRTOms,
		currentRTOms:   initialRTOms,
		maxPayloadSize: cfg.maxPayloadSize,
	}
}

// effectiveWindow is the peer-advertised window, or 1 if it advertised 0 —
// enough to force a single probe segment that elicits either a reopening
// ACK or a confirming zero.
func (s *TCPSender) effectiveWindow() uint64 {
	if s.windowSize == 0 {
		return 1
	}
	return uint64(s.windowSize)
}

// SequenceNumbersInFlight returns current_seqno - sender_ackno.
func (s *TCPSender) SequenceNumbersInFlight() uint64 {
	return s.currentSeqno - s.senderAckno
}

// ConsecutiveRetransmissions returns the number of retransmissions fired
// back-to-back since the last forward-moving ACK.
func (s *TCPSender) ConsecutiveRetransmissions() uint64 {
	return s.consecutiveRetransmissions
}

// Push emits as many segments as the effective window allows, reading
// payload bytes from the outbound stream and calling transmit once per
// segment built.
func (s *TCPSender) Push(transmit Transmit) {
	for {
		inFlight := s.SequenceNumbersInFlight()
		ew := s.effectiveWindow()
		if ew <= inFlight {
			return
		}
		space := ew - inFlight

		var seg Segment
		if s.currentSeqno == 0 {
			seg.SYN = true
			space--
		}

		payloadCap := space
		if uint64(s.maxPayloadSize) < payloadCap {
			payloadCap = uint64(s.maxPayloadSize)
		}
		reader := s.outbound.Reader()
		var payload []byte
		for uint64(len(payload)) < payloadCap {
			chunk := reader.Peek()
			if len(chunk) == 0 {
				break
			}
			need := payloadCap - uint64(len(payload))
			if uint64(len(chunk)) > need {
				chunk = chunk[:need]
			}
			payload = append(payload, chunk...)
			reader.Pop(len(chunk))
		}
		seg.Payload = payload
		space -= uint64(len(payload))

		if reader.IsFinished() && !s.finSent && space > 0 {
			seg.FIN = true
			s.finSent = true
		}

		if seg.SequenceLength() == 0 {
			return
		}

		if reader.HasError() {
			seg.RST = true
		}

		seg.Seqno = WrapSeq(s.currentSeqno, s.isn)
		s.outstanding = append(s.outstanding, outstandingSegment{
			startSeqno: s.currentSeqno,
			segment:    seg,
		})
		s.currentSeqno += seg.SequenceLength()
		transmit(seg)

		if !s.timerRunning {
			s.timerRunning = true
			s.elapsedMs = 0
		}

		if s.windowSize == 0 {
			// Single zero-window probe; wait for the peer's response.
			return
		}
	}
}

// MakeEmptySegment returns a segment carrying no SYN/FIN and no payload,
// for an external collaborator that needs to carry a pure ACK.
func (s *TCPSender) MakeEmptySegment() Segment {
	seg := Segment{Seqno: WrapSeq(s.currentSeqno, s.isn)}
	if s.outbound.Reader().HasError() {
		seg.RST = true
	}
	return seg
}

// Receive processes one receiver feedback message.
func (s *TCPSender) Receive(msg ReceiverMessage) {
	s.windowSize = msg.WindowSize

	if msg.RST {
		s.outbound.Writer().SetError()
		return
	}
	if !msg.HaveAckno {
		return
	}

	newAck := UnwrapSeq(msg.Ackno, s.isn, s.senderAckno)
	if newAck > s.currentSeqno {
		// Impossible/malicious: ignore.
		return
	}
	if newAck > s.senderAckno {
		s.senderAckno = newAck
		s.currentRTOms = s.initialRTOms
		s.consecutiveRetransmissions = 0
		s.elapsedMs = 0
	}

	i := 0
	for i < len(s.outstanding) && s.outstanding[i].endSeqno() <= s.senderAckno {
		i++
	}
	s.outstanding = s.outstanding[i:]
	if len(s.outstanding) == 0 {
		s.timerRunning = false
	}
}

// Tick advances the retransmission timer by ms milliseconds, retransmitting
// the oldest outstanding segment and backing off if it has expired.
func (s *TCPSender) Tick(ms uint64, transmit Transmit) {
	if !s.timerRunning {
		return
	}
	s.elapsedMs += ms
	if s.elapsedMs < s.currentRTOms {
		return
	}

	if len(s.outstanding) > 0 {
		transmit(s.outstanding[0].segment)
	}
	if s.windowSize > 0 {
		s.currentRTOms *= 2
	}
	s.elapsedMs = 0
	s.consecutiveRetransmissions++
}
