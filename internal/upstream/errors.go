// Package upstream holds the HTTP clients for the three services the
// coordinator orchestrates: the scoring engine, the workout generator, and
// the persistence service that owns student records.
package upstream

import "fmt"

// Error describes a failed call to an upstream service. Status is zero when
// the request never completed (DNS, connect, timeout); otherwise it is the
// upstream HTTP status and Body carries a truncated copy of the response.
type Error struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the failure happened before any HTTP response
// arrived.
func (e *Error) Transport() bool { return e.Status == 0 }

// ServerFault reports whether the upstream answered with a 5xx.
func (e *Error) ServerFault() bool { return e.Status >= 500 }
