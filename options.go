// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

// DefaultMaxPayloadSize is the protocol constant bounding a segment's
// payload when no WithMaxPayloadSize option overrides it.
const DefaultMaxPayloadSize = 1000

// senderConfig holds the single source of truth for TCPSender's tunables;
// SenderOption funcs mutate it the way framer's Option funcs mutate
// Options.
type senderConfig struct {
	maxPayloadSize int
}

var defaultSenderConfig = senderConfig{
	maxPayloadSize: DefaultMaxPayloadSize,
}

// SenderOption configures a TCPSender at construction time.
type SenderOption func(*senderConfig)

// WithMaxPayloadSize overrides the per-segment payload cap.
func WithMaxPayloadSize(n int) SenderOption {
	return func(c *senderConfig) { c.maxPayloadSize = n }
}
