package polygon

import "fmt"

// DataKind identifies one of the independent gateway calls.
type DataKind string

const (
	KindDetails      DataKind = "ticker details"
	KindPrice        DataKind = "price data"
	KindNews         DataKind = "news"
	KindAggregates   DataKind = "aggregates"
	KindMarketStatus DataKind = "market status"
)

// FailureKind categorizes how a gateway call failed.
type FailureKind string

const (
	FailureTransport  FailureKind = "transport"
	FailureHTTPStatus FailureKind = "http_status"
	FailureTimeout    FailureKind = "timeout"
)

// Failure is the error half of a FetchResult.
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// FetchResult is the outcome of a single gateway call. Exactly one of
// Payload and Failure is set. The payload is the raw decoded response
// body; field presence is the consumer's problem, not the gateway's.
type FetchResult struct {
	Kind    DataKind
	Payload map[string]any
	Failure *Failure
}

func (r FetchResult) OK() bool {
	return r.Failure == nil
}

// Results returns the payload "results" field, which Polygon uses for
// the useful part of every response. The second return value is false
// when the field is absent or the result failed.
func (r FetchResult) Results() (any, bool) {
	if !r.OK() || r.Payload == nil {
		return nil, false
	}
	v, ok := r.Payload["results"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func success(kind DataKind, payload map[string]any) FetchResult {
	return FetchResult{Kind: kind, Payload: payload}
}

func failure(kind DataKind, fk FailureKind, detail string) FetchResult {
	return FetchResult{Kind: kind, Failure: &Failure{Kind: fk, Detail: detail}}
}
