// Package submission orchestrates submit-time pass/fail dispatch and keeps
// the attempt bookkeeping.
package submission

import "sync"

// Result records how the most recent submission ended.
type Result string

const (
	// ResultNone means no submission has happened since construction or the
	// last reset.
	ResultNone Result = "none"
	// ResultPassed means the last submission cleared validation.
	ResultPassed Result = "validationPassed"
	// ResultFailed means the last submission was rejected by validation.
	ResultFailed Result = "validationFailed"
)

// Outcome reports one submission attempt.
type Outcome struct {
	Proceed  bool
	Attempts int
	Result   Result
}

// Coordinator counts attempts, records the last result, and invokes exactly
// one of the pass/fail callbacks per submission.
type Coordinator struct {
	mu       sync.Mutex
	attempts int
	last     Result
}

// NewCoordinator builds a coordinator with zero attempts.
func NewCoordinator() *Coordinator {
	return &Coordinator{last: ResultNone}
}

// Submit decides pass/fail from the supplied error map: empty errors
// proceed. onPass runs on success, onFail receives the errors otherwise.
func (c *Coordinator) Submit(errs map[string]string, onPass func(), onFail func(map[string]string)) Outcome {
	c.mu.Lock()
	c.attempts++
	passed := len(errs) == 0
	if passed {
		c.last = ResultPassed
	} else {
		c.last = ResultFailed
	}
	outcome := Outcome{Proceed: passed, Attempts: c.attempts, Result: c.last}
	c.mu.Unlock()

	if passed {
		if onPass != nil {
			onPass()
		}
	} else if onFail != nil {
		onFail(errs)
	}
	return outcome
}

// SubmitBypassingValidation always proceeds and always invokes onPass; the
// disabled strategy routes through here.
func (c *Coordinator) SubmitBypassingValidation(onPass func()) Outcome {
	c.mu.Lock()
	c.attempts++
	c.last = ResultPassed
	outcome := Outcome{Proceed: true, Attempts: c.attempts, Result: c.last}
	c.mu.Unlock()

	if onPass != nil {
		onPass()
	}
	return outcome
}

// Reset zeroes the attempt counter and clears the last result.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts = 0
	c.last = ResultNone
}

// Attempts returns how many submissions have been attempted.
func (c *Coordinator) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Last returns the most recent submission result.
func (c *Coordinator) Last() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
