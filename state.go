// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool

// State describes a pool's lifecycle position. A pool starts Running,
// may move to Held and back any number of times, and from either
// Running or Held moves once, monotonically, through ShuttingDown to
// Destroyed.
type State int

const (
	Running State = iota
	Held
	ShuttingDown
	Destroyed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Held:
		return "held"
	case ShuttingDown:
		return "shutting down"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
