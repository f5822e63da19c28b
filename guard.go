// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// guard marks one side of the queue as busy.
//
// Each side owns its guard exclusively, so a plain bool is enough: the
// only way to observe it set on entry is to re-enter from the same
// goroutine, which [ErrReentrant] reports.
type guard struct {
	busy bool
}

// enter marks the side busy. Panics with ErrReentrant if it already is.
func (g *guard) enter() {
	if g.busy {
		panic(ErrReentrant)
	}
	g.busy = true
}

// exit marks the side idle.
func (g *guard) exit() {
	g.busy = false
}
