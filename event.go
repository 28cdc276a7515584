// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

// An Event identifies a point in a plan execution where the transport
// Client runs the handlers installed for it.
type Event int

const (
	// BeforeExecutionStart fires before the execution starts. Only the
	// execution's Plan is set.
	BeforeExecutionStart Event = iota
	// BeforeAttempt fires before each attempt, with Request set to the
	// request about to be sent. Handlers may change the request, but
	// should clone URL and Header first since they are shared with the
	// plan.
	BeforeAttempt
	// BeforeReadBody fires when an attempt got a response, before its
	// body is read. It fires for every status code.
	BeforeReadBody
	// AfterAttemptTimeout fires after an attempt timed out. Err holds
	// the timeout error and AttemptTimeouts has been incremented.
	AfterAttemptTimeout
	// AfterAttempt fires after every attempt, before the retry policy
	// is consulted. At least one of Response and Err is set. Both are
	// set if reading the body failed.
	AfterAttempt
	// AfterPlanTimeout fires when the plan context deadline passed,
	// either during an attempt or during a retry wait. It always comes
	// after AfterAttempt.
	AfterPlanTimeout
	// AfterExecutionEnd fires once the execution is over and End is
	// set.
	AfterExecutionEnd

	eventSentinel
	numEvents = int(eventSentinel)
)

var eventNames = [numEvents]string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns every event in the order they occur.
func Events() []Event {
	evts := make([]Event, numEvents)
	for i := range evts {
		evts[i] = Event(i)
	}
	return evts
}

// Name returns the name of the event.
func (evt Event) Name() string {
	if evt < 0 || int(evt) >= numEvents {
		return "Event(?)"
	}
	return eventNames[evt]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
