// Package state holds the change journal shared by tokens and pools. Every
// mutation made while a revision is open records how to undo itself, so a
// failing call can roll back everything it touched, including nested calls
// into other contracts that already returned successfully.
package state

import "sync"

type op struct {
	undo   func()
	commit func()
}

// Journal is an ordered log of undo steps. Revisions nest: Snapshot opens one,
// RevertToSnapshot or DiscardSnapshot closes it. Deferred commit actions run
// once the outermost revision is discarded and are dropped with any revert
// that covers them.
//
// A Journal serves one call stack at a time.
type Journal struct {
	mu   sync.Mutex
	ops  []op
	open int
}

func NewJournal() *Journal {
	return &Journal{}
}

// Snapshot opens a revision and returns its restore point.
func (j *Journal) Snapshot() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.open++
	return len(j.ops)
}

// Append records undo for a change just made. Outside any revision there is
// nothing to roll back to and the step is not kept.
func (j *Journal) Append(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.open == 0 {
		return
	}
	j.ops = append(j.ops, op{undo: undo})
}

// OnCommit defers fn until the outermost revision is discarded. Outside any
// revision fn runs immediately.
func (j *Journal) OnCommit(fn func()) {
	j.mu.Lock()
	if j.open == 0 {
		j.mu.Unlock()
		fn()
		return
	}
	j.ops = append(j.ops, op{commit: fn})
	j.mu.Unlock()
}

// RevertToSnapshot undoes every step recorded since id, newest first, and
// closes the revision.
func (j *Journal) RevertToSnapshot(id int) {
	j.mu.Lock()
	if id > len(j.ops) {
		id = len(j.ops)
	}
	reverted := append([]op(nil), j.ops[id:]...)
	j.ops = j.ops[:id]
	j.close()
	if j.open == 0 {
		j.ops = j.ops[:0]
	}
	j.mu.Unlock()

	for i := len(reverted) - 1; i >= 0; i-- {
		if reverted[i].undo != nil {
			reverted[i].undo()
		}
	}
}

// DiscardSnapshot closes the revision and keeps its changes. The steps stay
// revertible by any enclosing revision.
func (j *Journal) DiscardSnapshot(int) {
	j.mu.Lock()
	j.close()
	var commits []func()
	if j.open == 0 {
		for _, o := range j.ops {
			if o.commit != nil {
				commits = append(commits, o.commit)
			}
		}
		j.ops = j.ops[:0]
	}
	j.mu.Unlock()

	for _, fn := range commits {
		fn()
	}
}

// Depth returns the number of open revisions.
func (j *Journal) Depth() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.open
}

// Len returns the number of recorded steps.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.ops)
}

func (j *Journal) close() {
	if j.open > 0 {
		j.open--
	}
}
