// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package adapter

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const tunDevicePath = "/dev/net/tun"

// ifReq mirrors struct ifreq's name+flags prefix, enough for TUNSETIFF.
type ifReq struct {
	name  [unix.IFNAMSIZ]byte
	flags uint16
	_     [22]byte // pad to the kernel's struct ifreq size
}

// OpenTUN opens a TUN device named name (created if it does not exist,
// subject to privilege) in IFF_NO_PI mode: each Read/Write carries exactly
// one raw IPv4 (or IPv6) packet, no link-layer framing.
func OpenTUN(name string) (*os.File, error) {
	fd, err := unix.Open(tunDevicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	var req ifReq
	copy(req.name[:], name)
	req.flags = unix.IFF_TUN | unix.IFF_NO_PI

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.TUNSETIFF), uintptr(unsafe.Pointer(&req))); errno != 0 {
		_ = unix.Close(fd)
		return nil, errno
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	return os.NewFile(uintptr(fd), tunDevicePath), nil
}
