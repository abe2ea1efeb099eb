// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo provides native byte order selection.
//
// Implementation is architecture-specific via build tags where commonly known,
// and falls back to a portable runtime detection elsewhere. Used by
// code.hybscloud.com/mtcp/wire's local/loopback transport mode, which
// encodes segments in the machine's native order instead of network byte
// order.
package bo
