// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package connid mints short, sortable, collision-resistant identifiers for
// individual mtcp connections, for use as log fields and Prometheus labels.
package connid

import "github.com/rs/xid"

// ID identifies one connection for the lifetime of a process.
type ID string

// New returns a fresh connection identifier.
func New() ID {
	return ID(xid.New().String())
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }
