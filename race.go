// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package rwq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip cross-goroutine tests: slot writes are ordered by
// atomix acquire-release operations, which the detector does not observe.
const RaceEnabled = true
