// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryEnqueue: every block in the ring is full and growth is not allowed
// For TryDequeue and Pop: the queue is empty
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (with backoff or yield), or switch to [Queue.Enqueue] on the
// producer side.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrCapacityLimit reports that a block allocation was refused because it
// would push the ring past the configured capacity limit.
//
// Enqueue returns it when the ring is full and may not grow. Build returns
// it when the initial ring itself does not fit. In both cases nothing is
// linked into the ring and the queue state is unchanged.
var ErrCapacityLimit = errors.New("rwq: capacity limit reached")

// ErrReentrant is the panic value raised when a producer or consumer
// operation is entered again while already in progress on the same side,
// typically from inside a release hook.
//
// Reentrancy is a programming error. The call panics before touching the ring.
var ErrReentrant = errors.New("rwq: reentrant enqueue or dequeue")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
