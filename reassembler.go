// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mtcp

import "sort"

// Reassembler collapses out-of-order, byte-indexed fragments into an
// in-order stream written to a downstream ByteStream.
//
// Pending (not-yet-assembled) fragments are kept in a slice sorted by
// start index, searched with sort.Search: the acceptance window is small
// relative to an interval tree's bookkeeping cost, and a sorted slice is
// the teacher's own choice whenever a generic container would do no
// better than a handful of comparisons.
type Reassembler struct {
	out Writer

	nextIdx uint64
	endIdx  uint64
	haveEnd bool
	pending []fragment
}

type fragment struct {
	start uint64
	data  []byte
}

func (f fragment) end() uint64 { return f.start + uint64(len(f.data)) }

// NewReassembler returns a Reassembler writing assembled bytes to out.
func NewReassembler(out *ByteStream) *Reassembler {
	return &Reassembler{out: out.Writer()}
}

// CountBytesPending returns the total length of fragments held in the
// pending map, not yet written to the downstream stream.
func (r *Reassembler) CountBytesPending() uint64 {
	var n uint64
	for _, f := range r.pending {
		n += uint64(len(f.data))
	}
	return n
}

// Insert delivers a substring of the overall stream, starting at
// firstIndex, to the Reassembler. If isLast is set, firstIndex+len(data)
// marks the end of the stream.
func (r *Reassembler) Insert(firstIndex uint64, data []byte, isLast bool) {
	if isLast {
		r.endIdx = firstIndex + uint64(len(data))
		r.haveEnd = true
		r.closeIfDone()
	}

	firstIndex, data = r.clip(firstIndex, data)
	if len(data) == 0 {
		return
	}

	if firstIndex == r.nextIdx {
		r.out.Push(data)
		r.nextIdx += uint64(len(data))
		r.drain()
		r.closeIfDone()
		return
	}

	r.mergeInsert(firstIndex, data)
}

// clip restricts [firstIndex, firstIndex+len(data)) to the current
// acceptance window [nextIdx, nextIdx+availableCapacity), dropping
// whatever falls outside it.
func (r *Reassembler) clip(firstIndex uint64, data []byte) (uint64, []byte) {
	if firstIndex+uint64(len(data)) <= r.nextIdx {
		return firstIndex, nil
	}
	if firstIndex < r.nextIdx {
		trim := r.nextIdx - firstIndex
		data = data[trim:]
		firstIndex = r.nextIdx
	}
	rightEdge := r.nextIdx + r.out.AvailableCapacity()
	if firstIndex >= rightEdge {
		return firstIndex, nil
	}
	if firstIndex+uint64(len(data)) > rightEdge {
		data = data[:rightEdge-firstIndex]
	}
	return firstIndex, data
}

// drain pushes every pending fragment that has become contiguous with
// nextIdx, trimming any overlap with already-written bytes, stopping at
// the first gap.
func (r *Reassembler) drain() {
	for len(r.pending) > 0 {
		f := r.pending[0]
		if f.start > r.nextIdx {
			break
		}
		if f.end() <= r.nextIdx {
			r.pending = r.pending[1:]
			continue
		}
		trim := r.nextIdx - f.start
		rest := f.data[trim:]
		r.out.Push(rest)
		r.nextIdx += uint64(len(rest))
		r.pending = r.pending[1:]
	}
}

// mergeInsert inserts [firstIndex, firstIndex+len(data)) into the pending
// map, trimming it against neighbors so that no two pending fragments
// overlap.
func (r *Reassembler) mergeInsert(firstIndex uint64, data []byte) {
	idx := sort.Search(len(r.pending), func(i int) bool {
		return r.pending[i].start >= firstIndex
	})

	// Trim against the immediately preceding fragment, if it reaches into
	// the new one.
	if idx > 0 {
		prev := r.pending[idx-1]
		if prev.end() > firstIndex {
			newEnd := firstIndex + uint64(len(data))
			if prev.end() >= newEnd {
				// Fully covered by the preceding fragment.
				return
			}
			trim := prev.end() - firstIndex
			data = data[trim:]
			firstIndex = prev.end()
		}
	}

	newEnd := firstIndex + uint64(len(data))

	// Delete every pending fragment fully covered by the new one.
	for idx < len(r.pending) && r.pending[idx].end() <= newEnd {
		r.pending = append(r.pending[:idx], r.pending[idx+1:]...)
	}

	// Trim the new fragment's right edge against the next survivor, if it
	// overlaps.
	if idx < len(r.pending) && r.pending[idx].start < newEnd {
		data = data[:uint64(len(data))-(newEnd-r.pending[idx].start)]
	}

	if len(data) == 0 {
		return
	}
	stored := append([]byte(nil), data...)
	r.pending = append(r.pending, fragment{})
	copy(r.pending[idx+1:], r.pending[idx:])
	r.pending[idx] = fragment{start: firstIndex, data: stored}
}

// closeIfDone closes the downstream writer once nextIdx has caught up to
// the recorded end index. Idempotent.
func (r *Reassembler) closeIfDone() {
	if r.haveEnd && r.nextIdx >= r.endIdx && !r.out.IsClosed() {
		r.out.Close()
	}
}
