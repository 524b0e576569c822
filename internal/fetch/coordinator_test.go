package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// blockingGateway returns res once release is closed.
func blockingGateway(release <-chan struct{}, res Result) Gateway {
	return GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		<-release
		return res, nil
	})
}

func newTestCoordinator(t *testing.T, gw Gateway) (*Coordinator, <-chan Outcome, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	outcomes := make(chan Outcome, 4)
	c := NewCoordinator(gw, func(o Outcome) { outcomes <- o },
		WithLogger(logger),
		WithIDGenerator(func() string { return "req-1" }),
	)
	return c, outcomes, hook
}

func awaitOutcome(t *testing.T, outcomes <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-outcomes:
		return o
	case <-time.After(waitFor):
		t.Fatal("no outcome delivered")
		return Outcome{}
	}
}

func awaitIdle(t *testing.T, c *Coordinator) {
	t.Helper()
	require.Eventually(t, func() bool { return !c.Busy() }, waitFor, time.Millisecond)
}

func TestRequestFetch_AcceptedSetsBusyBeforeReturn(t *testing.T) {
	release := make(chan struct{})
	c, outcomes, _ := newTestCoordinator(t, blockingGateway(release, Found(imageRecord())))

	require.False(t, c.Busy())
	require.Equal(t, Accepted, c.RequestFetch(july4))
	require.True(t, c.Busy())

	close(release)
	out := awaitOutcome(t, outcomes)
	assert.Equal(t, Displayable, out.Kind)
	assert.Equal(t, "req-1", out.RequestID)
	assert.Equal(t, july4, out.Date)
	awaitIdle(t, c)
}

func TestRequestFetch_BusyWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		calls.Add(1)
		<-release
		return Found(imageRecord()), nil
	})
	c, outcomes, hook := newTestCoordinator(t, gw)

	require.Equal(t, Accepted, c.RequestFetch(july4))
	require.Equal(t, Busy, c.RequestFetch(july4.AddDate(0, 0, 1)))
	require.True(t, c.Busy())

	close(release)
	first := awaitOutcome(t, outcomes)
	assert.Equal(t, Displayable, first.Kind)
	assert.Equal(t, july4, first.Date, "busy request must not replace the in-flight one")
	awaitIdle(t, c)

	assert.EqualValues(t, 1, calls.Load())
	select {
	case extra := <-outcomes:
		t.Fatalf("unexpected second outcome %#v", extra)
	case <-time.After(20 * time.Millisecond):
	}

	for _, e := range hook.AllEntries() {
		if e.Message == "fetch rejected, request in flight" {
			assert.Equal(t, logrus.DebugLevel, e.Level)
		}
	}
}

func TestRequestFetch_ScenarioOutcomes(t *testing.T) {
	video := imageRecord()
	video.Media = MediaOther
	video.MediaType = "video"

	tests := []struct {
		name   string
		res    Result
		err    error
		kind   Kind
		reason string
	}{
		{name: "image", res: Found(imageRecord()), kind: Displayable},
		{name: "rate limited", res: Refused("rate limited"), kind: Rejected, reason: "rate limited"},
		{name: "video", res: Found(video), kind: Rejected, reason: ReasonNotImage},
		{name: "gateway error", err: errors.New("disk full"), kind: SystemFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
				return tt.res, tt.err
			})
			c, outcomes, _ := newTestCoordinator(t, gw)

			require.Equal(t, Accepted, c.RequestFetch(july4))
			out := awaitOutcome(t, outcomes)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.reason, out.Reason)
			awaitIdle(t, c)
		})
	}
}

func TestRequestFetch_GatewayErrorIsLoggedAsFailure(t *testing.T) {
	gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		return Result{}, errors.New("write cache: no space left on device")
	})
	c, outcomes, hook := newTestCoordinator(t, gw)

	require.Equal(t, Accepted, c.RequestFetch(july4))
	out := awaitOutcome(t, outcomes)
	require.Equal(t, SystemFailure, out.Kind)
	assert.Contains(t, out.Detail, "no space left")
	assert.NotContains(t, out.Message(), "no space left")
	awaitIdle(t, c)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Contains(t, entry.Data["detail"], "no space left")
}

func TestRequestFetch_GatewayPanicBecomesFailure(t *testing.T) {
	gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		panic("network stack exploded")
	})
	c, outcomes, _ := newTestCoordinator(t, gw)

	require.Equal(t, Accepted, c.RequestFetch(july4))
	out := awaitOutcome(t, outcomes)
	require.Equal(t, SystemFailure, out.Kind)
	assert.Contains(t, out.Detail, "network stack exploded")
	awaitIdle(t, c)

	require.Equal(t, Accepted, c.RequestFetch(july4))
	awaitOutcome(t, outcomes)
	awaitIdle(t, c)
}

func TestRequestFetch_CallbackPanicStillClearsBusy(t *testing.T) {
	var deliveries atomic.Int32
	logger, hook := logtest.NewNullLogger()
	gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		return Found(imageRecord()), nil
	})
	c := NewCoordinator(gw, func(o Outcome) {
		deliveries.Add(1)
		panic("renderer failed")
	}, WithLogger(logger))

	require.Equal(t, Accepted, c.RequestFetch(july4))
	awaitIdle(t, c)
	assert.EqualValues(t, 1, deliveries.Load())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "renderer failed")

	require.Equal(t, Accepted, c.RequestFetch(july4))
	awaitIdle(t, c)
	assert.EqualValues(t, 2, deliveries.Load())
}

func TestRequestFetch_PassesConfiguredContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")
	seen := make(chan any, 1)
	gw := GatewayFunc(func(ctx context.Context, date time.Time) (Result, error) {
		seen <- ctx.Value(key{})
		return Refused("nope"), nil
	})
	c := NewCoordinator(gw, nil, WithContext(ctx), WithLogger(logrus.New()))

	require.Equal(t, Accepted, c.RequestFetch(july4))
	select {
	case v := <-seen:
		assert.Equal(t, "marker", v)
	case <-time.After(waitFor):
		t.Fatal("gateway not called")
	}
	awaitIdle(t, c)
}

func TestRequestFetch_IDGeneratorPanicDoesNotWedge(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	outcomes := make(chan Outcome, 1)
	c := NewCoordinator(blockingGateway(closedChan(), Refused("x")), func(o Outcome) { outcomes <- o },
		WithLogger(logger),
		WithIDGenerator(func() string { panic("entropy") }),
	)

	require.Equal(t, Accepted, c.RequestFetch(july4))
	out := awaitOutcome(t, outcomes)
	assert.Equal(t, Rejected, out.Kind)
	assert.Empty(t, out.RequestID)
	awaitIdle(t, c)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
