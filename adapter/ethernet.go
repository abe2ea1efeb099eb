// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"errors"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ErrNoIPv4Layer is returned by ParseIPv4Frame when the frame carries no
// parseable Ethernet+IPv4 layer pair.
var ErrNoIPv4Layer = errors.New("adapter: frame has no IPv4 layer")

// EthernetFramer wraps a TAP-mode Datagram (one whose Read/Write carry whole
// Ethernet frames rather than bare IP packets, unlike a TUN device) so a
// Connection can exchange raw wire.Codec payloads over it inside an
// Ethernet+IPv4 envelope.
type EthernetFramer struct {
	tr             Datagram
	srcMAC, dstMAC net.HardwareAddr
	srcIP, dstIP   net.IP

	buf gopacket.SerializeBuffer
	opt gopacket.SerializeOptions
}

// NewEthernetFramer returns a Datagram that frames every Write in an
// Ethernet+IPv4 header addressed src->dst, and strips that header from every
// Read, handing PumpInbound the bare mtcp wire payload.
func NewEthernetFramer(tr Datagram, srcMAC, dstMAC net.HardwareAddr, srcIP, dstIP net.IP) *EthernetFramer {
	return &EthernetFramer{
		tr:     tr,
		srcMAC: srcMAC,
		dstMAC: dstMAC,
		srcIP:  srcIP.To4(),
		dstIP:  dstIP.To4(),
		buf:    gopacket.NewSerializeBuffer(),
		opt:    gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
	}
}

// Write serializes payload inside an Ethernet+IPv4 frame and writes it to
// the underlying transport.
func (f *EthernetFramer) Write(payload []byte) (int, error) {
	eth := &layers.Ethernet{
		SrcMAC:       f.srcMAC,
		DstMAC:       f.dstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocol(6), // TCP, for the benefit of anything sniffing the bridge
		SrcIP:    f.srcIP,
		DstIP:    f.dstIP,
	}

	f.buf.Clear()
	if err := gopacket.SerializeLayers(f.buf, f.opt, eth, ip, gopacket.Payload(payload)); err != nil {
		return 0, err
	}
	if _, err := f.tr.Write(f.buf.Bytes()); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Read reads one Ethernet frame from the underlying transport and returns
// its IPv4 payload.
func (f *EthernetFramer) Read(p []byte) (int, error) {
	raw := make([]byte, 64*1024)
	n, err := f.tr.Read(raw)
	if err != nil {
		return 0, err
	}
	payload, err := ParseIPv4Frame(raw[:n])
	if err != nil {
		return 0, err
	}
	return copy(p, payload), nil
}

// ParseIPv4Frame decodes an Ethernet frame and returns its IPv4 payload
// (the TCP segment bytes mtcp's wire.Codec understands), discarding the
// Ethernet and IPv4 headers.
func ParseIPv4Frame(frame []byte) ([]byte, error) {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	if ipLayer == nil {
		return nil, ErrNoIPv4Layer
	}
	ip, ok := ipLayer.(*layers.IPv4)
	if !ok {
		return nil, ErrNoIPv4Layer
	}
	return ip.LayerPayload(), nil
}
