package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
)

// QueryOptions carries per-statement driver settings. The zero value, and a
// nil *QueryOptions, leave the session defaults untouched. Setters overwrite
// any earlier value.
type QueryOptions struct {
	consistency       *gocql.Consistency
	serialConsistency string
	retryPolicy       gocql.RetryPolicy
	fetchSize         int
	tracing           bool
	readTimeout       time.Duration
	idempotent        *bool

	tracer *captureTracer
}

// NewQueryOptions returns empty options.
func NewQueryOptions() *QueryOptions {
	return &QueryOptions{}
}

// WithConsistency overrides the session consistency for each statement.
func (o *QueryOptions) WithConsistency(c gocql.Consistency) *QueryOptions {
	o.consistency = &c
	return o
}

// WithSerialConsistency sets the consistency of the Paxos phase of
// conditional statements: SERIAL or LOCAL_SERIAL.
func (o *QueryOptions) WithSerialConsistency(level string) *QueryOptions {
	o.serialConsistency = strings.ToUpper(strings.TrimSpace(level))
	return o
}

// WithRetryPolicy sets the driver retry policy. nil keeps the cluster default.
func (o *QueryOptions) WithRetryPolicy(p gocql.RetryPolicy) *QueryOptions {
	o.retryPolicy = p
	return o
}

// WithRetries retries failed statements up to n times. n <= 0 clears the policy.
func (o *QueryOptions) WithRetries(n int) *QueryOptions {
	if n <= 0 {
		return o.WithRetryPolicy(nil)
	}
	return o.WithRetryPolicy(&gocql.SimpleRetryPolicy{NumRetries: n})
}

// WithBackoffRetries retries up to n times, waiting between minDelay and
// 10*minDelay with exponential backoff. n <= 0 clears the policy.
func (o *QueryOptions) WithBackoffRetries(n int, minDelay time.Duration) *QueryOptions {
	if n <= 0 {
		return o.WithRetryPolicy(nil)
	}
	return o.WithRetryPolicy(&gocql.ExponentialBackoffRetryPolicy{
		NumRetries: n,
		Min:        minDelay,
		Max:        10 * minDelay,
	})
}

func (o *QueryOptions) WithFetchSize(n int) *QueryOptions {
	o.fetchSize = n
	return o
}

func (o *QueryOptions) WithTracing(enabled bool) *QueryOptions {
	o.tracing = enabled
	return o
}

func (o *QueryOptions) WithReadTimeout(d time.Duration) *QueryOptions {
	o.readTimeout = d
	return o
}

func (o *QueryOptions) WithIdempotent(idempotent bool) *QueryOptions {
	o.idempotent = &idempotent
	return o
}

// Consistency returns the consistency override, if any.
func (o *QueryOptions) Consistency() (gocql.Consistency, bool) {
	if o == nil || o.consistency == nil {
		return 0, false
	}
	return *o.consistency, true
}

func (o *QueryOptions) SerialConsistency() string {
	if o == nil {
		return ""
	}
	return o.serialConsistency
}

func (o *QueryOptions) RetryPolicy() gocql.RetryPolicy {
	if o == nil {
		return nil
	}
	return o.retryPolicy
}

func (o *QueryOptions) FetchSize() int {
	if o == nil {
		return 0
	}
	return o.fetchSize
}

func (o *QueryOptions) Tracing() bool {
	return o != nil && o.tracing
}

func (o *QueryOptions) ReadTimeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.readTimeout
}

// Idempotent returns the idempotence override, if any.
func (o *QueryOptions) Idempotent() (idempotent, set bool) {
	if o == nil || o.idempotent == nil {
		return false, false
	}
	return *o.idempotent, true
}

// Validate reports options the driver would reject or misread.
func (o *QueryOptions) Validate() error {
	if o == nil {
		return nil
	}
	switch o.serialConsistency {
	case "", "SERIAL", "LOCAL_SERIAL":
	default:
		return fmt.Errorf("invalid serial consistency level: %s", o.serialConsistency)
	}
	if o.fetchSize < 0 {
		return fmt.Errorf("invalid fetch size: %d", o.fetchSize)
	}
	if o.readTimeout < 0 {
		return fmt.Errorf("invalid read timeout: %s", o.readTimeout)
	}
	return nil
}

// Apply passes the options to q and returns it.
func (o *QueryOptions) Apply(q *gocql.Query) *gocql.Query {
	if o == nil {
		return q
	}
	if o.consistency != nil {
		q = q.Consistency(*o.consistency)
	}
	switch o.serialConsistency {
	case "SERIAL":
		q = q.SerialConsistency(gocql.Serial)
	case "LOCAL_SERIAL":
		q = q.SerialConsistency(gocql.LocalSerial)
	}
	if o.retryPolicy != nil {
		q = q.RetryPolicy(o.retryPolicy)
	}
	// 0 means use the server default
	if o.fetchSize > 0 {
		q = q.PageSize(o.fetchSize)
	}
	if o.idempotent != nil {
		q = q.Idempotent(*o.idempotent)
	}
	if o.tracing {
		o.tracer = &captureTracer{}
		q = q.Trace(o.tracer)
	}
	return q
}

// Context derives a context bounded by the read timeout, if one is set.
func (o *QueryOptions) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if o == nil || o.readTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.readTimeout)
}

// LastTraceID returns the trace session ID of the last traced statement as a
// hex string, or "" when tracing was off.
func (o *QueryOptions) LastTraceID() string {
	if o == nil || o.tracer == nil || o.tracer.traceID == nil {
		return ""
	}
	return fmt.Sprintf("%x", o.tracer.traceID)
}

// captureTracer implements gocql.Tracer to capture trace IDs
type captureTracer struct {
	traceID []byte
}

func (t *captureTracer) Trace(traceID []byte) {
	t.traceID = traceID
}

// ParseConsistency converts a consistency level name such as "LOCAL_QUORUM"
// into the driver value. Matching is case-insensitive.
func ParseConsistency(level string) (gocql.Consistency, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ANY":
		return gocql.Any, nil
	case "ONE":
		return gocql.One, nil
	case "TWO":
		return gocql.Two, nil
	case "THREE":
		return gocql.Three, nil
	case "QUORUM":
		return gocql.Quorum, nil
	case "ALL":
		return gocql.All, nil
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum, nil
	case "EACH_QUORUM":
		return gocql.EachQuorum, nil
	case "LOCAL_ONE":
		return gocql.LocalOne, nil
	default:
		return 0, fmt.Errorf("invalid consistency level: %s", level)
	}
}

// ConsistencyName is the inverse of ParseConsistency.
func ConsistencyName(c gocql.Consistency) string {
	switch c {
	case gocql.Any:
		return "ANY"
	case gocql.One:
		return "ONE"
	case gocql.Two:
		return "TWO"
	case gocql.Three:
		return "THREE"
	case gocql.Quorum:
		return "QUORUM"
	case gocql.All:
		return "ALL"
	case gocql.LocalQuorum:
		return "LOCAL_QUORUM"
	case gocql.EachQuorum:
		return "EACH_QUORUM"
	case gocql.LocalOne:
		return "LOCAL_ONE"
	default:
		return "UNKNOWN"
	}
}
