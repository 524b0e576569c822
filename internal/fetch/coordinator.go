package fetch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Admission is the immediate answer to RequestFetch.
type Admission int

const (
	Accepted Admission = iota
	Busy
)

func (a Admission) String() string {
	if a == Accepted {
		return "accepted"
	}
	return "busy"
}

// Coordinator runs at most one fetch at a time and reports each completed
// fetch to a single callback.
type Coordinator struct {
	gateway   Gateway
	onOutcome func(Outcome)
	log       logrus.FieldLogger
	ctx       context.Context
	newID     func() string

	busy atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for outcome and defect reporting.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithContext sets the context handed to the gateway. Accepted fetches are
// never cancelled by the coordinator itself.
func WithContext(ctx context.Context) Option {
	return func(c *Coordinator) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithIDGenerator overrides how request ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewCoordinator builds a Coordinator that fetches through gw and delivers
// outcomes to onOutcome. onOutcome runs on the fetch goroutine and should not
// block.
func NewCoordinator(gw Gateway, onOutcome func(Outcome), opts ...Option) *Coordinator {
	c := &Coordinator{
		gateway:   gw,
		onOutcome: onOutcome,
		log:       logrus.StandardLogger(),
		ctx:       context.Background(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Busy reports whether a fetch is in flight.
func (c *Coordinator) Busy() bool {
	return c.busy.Load()
}

// RequestFetch starts a fetch for date unless one is already running. It
// never blocks; a Busy request is discarded, not queued.
func (c *Coordinator) RequestFetch(date time.Time) Admission {
	if !c.busy.CompareAndSwap(false, true) {
		c.log.WithField("date", date.Format(apiDateLayout)).Debug("fetch rejected, request in flight")
		return Busy
	}
	go c.run(date)
	return Accepted
}

func (c *Coordinator) run(date time.Time) {
	defer c.busy.Store(false)

	id := c.requestID()
	outcome := c.resolve(date)
	outcome.RequestID = id
	c.report(outcome)
	c.deliver(outcome)
}

func (c *Coordinator) resolve(date time.Time) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = systemFailure(date, fmt.Sprintf("panic during fetch: %v\n%s", r, debug.Stack()))
		}
	}()

	res, err := c.gateway.Fetch(c.ctx, date)
	if err != nil {
		return systemFailure(date, err.Error())
	}
	return Classify(date, res)
}

func (c *Coordinator) deliver(o Outcome) {
	if c.onOutcome == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{
				"request_id": o.RequestID,
				"outcome":    o.Kind.String(),
			}).Errorf("outcome handler panicked: %v\n%s", r, debug.Stack())
		}
	}()
	c.onOutcome(o)
}

func (c *Coordinator) report(o Outcome) {
	entry := c.log.WithFields(logrus.Fields{
		"request_id": o.RequestID,
		"date":       o.Date.Format(apiDateLayout),
		"outcome":    o.Kind.String(),
	})
	switch o.Kind {
	case Displayable:
		entry.WithField("title", o.Presentation.Title).Info("fetch completed")
	case Rejected:
		entry.WithField("reason", o.Reason).Info("fetch rejected by gateway")
	case SystemFailure:
		entry.WithField("detail", o.Detail).Error("fetch failed unexpectedly")
	}
}

func (c *Coordinator) requestID() (id string) {
	defer func() {
		if r := recover(); r != nil {
			id = ""
		}
	}()
	return c.newID()
}
