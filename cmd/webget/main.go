// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command webget fetches one HTTP resource over an mtcp connection, the
// way the original debug exercise's get_URL demo does over a real kernel
// TCP socket: send a bare GET request, stream the response to stdout.
//
// Usage:
//
//	webget -transport=udp -addr=host:port HOST PATH
//	webget -transport=tun -dev=tun0 HOST PATH
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/mtcp"
	"code.hybscloud.com/mtcp/adapter"
	"code.hybscloud.com/mtcp/connid"
	"code.hybscloud.com/mtcp/metrics"
	"code.hybscloud.com/mtcp/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
)

var (
	transport = flag.String("transport", "udp", `datagram transport: "udp" or "tun"`)
	addr      = flag.String("addr", "", "remote address for -transport=udp (host:port)")
	dev       = flag.String("dev", "tun0", "TUN device name for -transport=tun")
	window    = flag.Uint64("window", 1<<20, "byte stream capacity in each direction")
	rtoMs     = flag.Uint64("rto", 1000, "initial retransmission timeout in milliseconds")
)

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] HOST PATH\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	host, path := flag.Arg(0), flag.Arg(1)

	if err := getURL(host, path); err != nil {
		log.Fatal(err)
	}
}

func openTransport() (adapter.Datagram, error) {
	switch *transport {
	case "udp":
		if *addr == "" {
			return nil, errors.New("webget: -addr is required for -transport=udp")
		}
		conn, err := net.Dial("udp", *addr)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case "tun":
		return adapter.OpenTUN(*dev)
	default:
		return nil, fmt.Errorf("webget: unknown -transport %q", *transport)
	}
}

func getURL(host, path string) error {
	tr, err := openTransport()
	if err != nil {
		return fmt.Errorf("open transport: %w", err)
	}

	outbound := mtcp.NewByteStream(*window)
	inbound := mtcp.NewByteStream(*window)

	id := connid.New()
	collector := metrics.NewCollector(id.String())
	collector.MustRegister(prometheus.DefaultRegisterer)

	sender := metrics.NewInstrumentedSender(mtcp.NewTCPSender(outbound, 0, *rtoMs), collector)
	receiver := mtcp.NewTCPReceiver(inbound)
	conn := adapter.New(tr, sender, receiver, wire.NewCodec())

	log.Printf("conn %s: GET %s%s", id, host, path)

	request := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", path, host)
	outbound.Writer().Push([]byte(request))
	outbound.Writer().Close()

	bar := progressbar.DefaultBytes(-1, fmt.Sprintf("GET %s%s", host, path))
	defer bar.Close()

	reader := inbound.Reader()
	for !reader.IsFinished() && !reader.HasError() {
		if err := conn.PumpOutbound(); err != nil {
			return fmt.Errorf("pump outbound: %w", err)
		}
		if err := conn.SendAck(); err != nil {
			return fmt.Errorf("send ack: %w", err)
		}

		switch err := conn.PumpInbound(); {
		case err == nil:
			// fall through to drain below
		case errors.Is(err, iox.ErrWouldBlock):
			const tick = 50
			if err := conn.Tick(tick); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
			time.Sleep(tick * time.Millisecond)
		case errors.Is(err, io.EOF):
			// transport exhausted; let the loop condition decide whether
			// the response actually finished
		default:
			return fmt.Errorf("pump inbound: %w", err)
		}

		if n := reader.BytesBuffered(); n > 0 {
			buf := reader.Peek()
			if _, err := io.MultiWriter(os.Stdout, bar).Write(buf); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
			reader.Pop(int(n))
		}
	}

	if reader.HasError() {
		return errors.New("webget: connection reset by peer")
	}
	return nil
}
