// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics instruments a TCPSender with Prometheus counters and
// gauges, the same shape of per-connection counter family runZeroInc's
// TCP_INFO sampler keeps, applied here to the hand-rolled sender instead of
// a kernel socket.
package metrics

import (
	"code.hybscloud.com/mtcp"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds one connection's Prometheus series.
type Collector struct {
	SegmentsSent               prometheus.Counter
	Retransmits                prometheus.Counter
	BytesAcked                 prometheus.Counter
	ConsecutiveRetransmissions prometheus.Gauge
}

// NewCollector returns a Collector labelled with connID.
func NewCollector(connID string) *Collector {
	labels := prometheus.Labels{"conn_id": connID}
	return &Collector{
		SegmentsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mtcp",
			Name:        "segments_sent_total",
			Help:        "Segments handed to the transmit callback, including retransmissions.",
			ConstLabels: labels,
		}),
		Retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mtcp",
			Name:        "retransmits_total",
			Help:        "Segments retransmitted by the timer.",
			ConstLabels: labels,
		}),
		BytesAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "mtcp",
			Name:        "bytes_acked_total",
			Help:        "Sequence-space bytes newly acknowledged by the peer.",
			ConstLabels: labels,
		}),
		ConsecutiveRetransmissions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "mtcp",
			Name:        "consecutive_retransmissions",
			Help:        "Current back-to-back retransmission count.",
			ConstLabels: labels,
		}),
	}
}

// MustRegister registers every series in c against reg.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.SegmentsSent, c.Retransmits, c.BytesAcked, c.ConsecutiveRetransmissions)
}

// InstrumentedSender wraps a TCPSender, reporting its activity to a
// Collector without changing its behavior.
type InstrumentedSender struct {
	*mtcp.TCPSender
	c *Collector
}

// NewInstrumentedSender returns a Sender that reports into c.
func NewInstrumentedSender(s *mtcp.TCPSender, c *Collector) *InstrumentedSender {
	return &InstrumentedSender{TCPSender: s, c: c}
}

// Push wraps TCPSender.Push, counting every segment handed to transmit.
func (s *InstrumentedSender) Push(transmit mtcp.Transmit) {
	s.TCPSender.Push(func(seg mtcp.Segment) {
		s.c.SegmentsSent.Inc()
		transmit(seg)
	})
}

// Tick wraps TCPSender.Tick, counting retransmissions and reporting the
// current backoff state.
func (s *InstrumentedSender) Tick(ms uint64, transmit mtcp.Transmit) {
	s.TCPSender.Tick(ms, func(seg mtcp.Segment) {
		s.c.Retransmits.Inc()
		transmit(seg)
	})
	s.c.ConsecutiveRetransmissions.Set(float64(s.TCPSender.ConsecutiveRetransmissions()))
}

// Receive wraps TCPSender.Receive, reporting newly acknowledged bytes.
func (s *InstrumentedSender) Receive(msg mtcp.ReceiverMessage) {
	before := s.TCPSender.SequenceNumbersInFlight()
	s.TCPSender.Receive(msg)
	after := s.TCPSender.SequenceNumbersInFlight()
	if after < before {
		s.c.BytesAcked.Add(float64(before - after))
	}
	s.c.ConsecutiveRetransmissions.Set(float64(s.TCPSender.ConsecutiveRetransmissions()))
}
