// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package adapter

import (
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"
)

// SizeSocketBuffers sets a net.Conn's kernel send/receive buffers to match
// a ByteStream's capacity, so the kernel doesn't buffer substantially more
// than the CORE's own flow-control window can ever advertise.
func SizeSocketBuffers(conn net.Conn, capacity int) error {
	fd, err := netfd.GetFD(conn)
	if err != nil {
		return err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, capacity); err != nil {
		return err
	}
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, capacity)
}
