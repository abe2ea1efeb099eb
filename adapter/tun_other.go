// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package adapter

import (
	"errors"
	"os"
)

// ErrUnsupportedPlatform is returned by OpenTUN on platforms without a
// TUNSETIFF-style ioctl.
var ErrUnsupportedPlatform = errors.New("adapter: TUN devices are only supported on linux")

// OpenTUN is unavailable on this platform; use a net.Conn-backed Datagram
// (e.g. UDP, a Unix socket, or net.Pipe in tests) instead.
func OpenTUN(name string) (*os.File, error) {
	return nil, ErrUnsupportedPlatform
}
