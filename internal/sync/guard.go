package sync

import "sync/atomic"

// pullDepth counts open pull sessions across the process. It exists only so
// status surfaces can report that a pull is running; suppression itself is
// decided by the session value threaded through the store write path.
var pullDepth int32

// PullSession marks a pull operation in progress. Store writes performed
// under an active session do not fire change hooks, which is what prevents
// a pull-applied write from re-triggering a push back to the ERP.
//
// Callers must close the session with defer so it ends on every exit path:
//
//	sess := BeginPull()
//	defer sess.End()
type PullSession struct {
	ended uint32
}

// BeginPull opens a pull session.
func BeginPull() *PullSession {
	atomic.AddInt32(&pullDepth, 1)
	return &PullSession{}
}

// End closes the session. Safe to call more than once.
func (s *PullSession) End() {
	if s == nil {
		return
	}
	if atomic.CompareAndSwapUint32(&s.ended, 0, 1) {
		atomic.AddInt32(&pullDepth, -1)
	}
}

// Active reports whether writes under this session should suppress hooks.
// A nil session is not active, so ordinary writes pass nil.
func (s *PullSession) Active() bool {
	return s != nil && atomic.LoadUint32(&s.ended) == 0
}

// PullInProgress reports whether any pull session is currently open.
func PullInProgress() bool {
	return atomic.LoadInt32(&pullDepth) > 0
}
