package resilient

import (
	"context"
	"log"
	"time"
)

// Outcome is the state of one attempt.
type Outcome int

const (
	Succeeded Outcome = iota
	RetryPending
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case RetryPending:
		return "retry-pending"
	}
	return "failed"
}

// Attempt describes one invocation inside a pipeline run.
type Attempt struct {
	Operation string
	Number    int
	Outcome   Outcome
	Err       error
}

// Op is a single persistence call.
type Op func(ctx context.Context) error

// Pipeline executes operations under a retry policy.  Attempts are strictly
// sequential: the next one starts only after the previous failure has been
// classified.
type Pipeline struct {
	policy  Policy
	sleep   func(ctx context.Context, d time.Duration) error
	observe func(Attempt)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver registers a callback invoked after every attempt.
func WithObserver(fn func(Attempt)) Option {
	return func(p *Pipeline) { p.observe = fn }
}

// WithSleep replaces the wait between attempts; used by tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pipeline) { p.sleep = fn }
}

// New returns a pipeline running under policy.
func New(policy Policy, opts ...Option) *Pipeline {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Backoff == nil {
		policy.Backoff = NoBackoff
	}
	p := &Pipeline{policy: policy, sleep: sleepCtx}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes op until it succeeds, fails permanently or exhausts the
// policy.  operation names the action for logs and the fallback message
// ("create hall", "save seat map").  The returned error is always a *Failure.
func (p *Pipeline) Run(ctx context.Context, operation string, op Op) error {
	var err error
	for n := 1; ; n++ {
		err = op(ctx)
		if err == nil {
			p.report(Attempt{Operation: operation, Number: n, Outcome: Succeeded})
			return nil
		}
		class := Classify(err)
		if class == Permanent || n >= p.policy.MaxAttempts || ctx.Err() != nil {
			p.report(Attempt{Operation: operation, Number: n, Outcome: Failed, Err: err})
			log.Printf("save-pipeline: %s failed (%s) after %d/%d attempts: %v", operation, class, n, p.policy.MaxAttempts, err)
			return &Failure{
				Operation: operation,
				Attempts:  n,
				Class:     class,
				Message:   Message(err, operation),
				Err:       err,
			}
		}
		p.report(Attempt{Operation: operation, Number: n, Outcome: RetryPending, Err: err})
		wait := p.policy.Backoff(n)
		log.Printf("save-pipeline: %s attempt %d/%d failed: %v; retrying in %s", operation, n, p.policy.MaxAttempts, err, wait)
		if serr := p.sleep(ctx, wait); serr != nil {
			return &Failure{Operation: operation, Attempts: n, Class: Permanent, Message: Message(err, operation), Err: serr}
		}
	}
}

func (p *Pipeline) report(a Attempt) {
	if p.observe != nil {
		p.observe(a)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
