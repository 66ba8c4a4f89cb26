package sync

import "testing"

func TestPullSessionLifecycle(t *testing.T) {
	if PullInProgress() {
		t.Fatal("no session open, PullInProgress should be false")
	}

	sess := BeginPull()
	if !sess.Active() {
		t.Error("fresh session should be active")
	}
	if !PullInProgress() {
		t.Error("PullInProgress should report the open session")
	}

	sess.End()
	if sess.Active() {
		t.Error("ended session should not be active")
	}
	if PullInProgress() {
		t.Error("PullInProgress should be false after End")
	}
}

func TestPullSessionEndIsIdempotent(t *testing.T) {
	sess := BeginPull()
	sess.End()
	sess.End()
	sess.End()

	if PullInProgress() {
		t.Error("repeated End must not drive the pull counter negative")
	}

	// A fresh session must still register after the repeated Ends above.
	sess2 := BeginPull()
	if !PullInProgress() {
		t.Error("new session not visible, counter corrupted by repeated End")
	}
	sess2.End()
}

func TestNilSessionIsInactive(t *testing.T) {
	var sess *PullSession
	if sess.Active() {
		t.Error("nil session must not suppress hooks")
	}
	sess.End() // must not panic
}

func TestPullSessionEndsOnPanicPath(t *testing.T) {
	func() {
		defer func() { recover() }()

		sess := BeginPull()
		defer sess.End()
		panic("sync blew up")
	}()

	if PullInProgress() {
		t.Error("session must close even when the pull panics")
	}
}
