package app

import "landing-lights.klederson.com/internal/controller"

// SnapshotMsg carries the result of one controller tick.
type SnapshotMsg controller.Snapshot

// LoopDoneMsg reports that the controller loop has returned.
type LoopDoneMsg struct {
	Err error
}
