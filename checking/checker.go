package checking

import "memgrade/state"

// The Checker verifies that properties hold for a recorded trace.
type Checker interface {
	// Verify that the configured properties hold for the provided trace
	Check(trace *state.Trace) CheckerResponse
}

// CheckerResponse is a response returned by a Checker
//
// Contains the result of checking the trace.
type CheckerResponse interface {
	// Create a response.
	//
	// Returns a boolean that is true if all properties hold, false otherwise.
	// Returns a string describing the response.
	// This should include which property is violated and the tick at which it was first violated.
	Response() (bool, string)
}
