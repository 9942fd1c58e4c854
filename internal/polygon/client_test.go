package polygon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kaljuvee/polygon-mcp/internal/config"
	"github.com/kaljuvee/polygon-mcp/pkg/logger"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		PolygonAPIKey:  "test-key",
		PolygonBaseURL: srv.URL,
		RequestTimeout: 2,
		PriceSource:    config.PriceSourcePrevClose,
		NewsLimit:      10,
	}
	return NewClient(cfg, logger.Nop()), srv
}

func TestTickerDetailsSuccess(t *testing.T) {
	var gotPath, gotKey string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`{"status":"OK","results":{"name":"Apple Inc.","market":"stocks"}}`))
	}))

	res := client.TickerDetails(context.Background(), "AAPL")
	if !res.OK() {
		t.Fatalf("expected success, got failure: %v", res.Failure)
	}
	if gotPath != "/v3/reference/tickers/AAPL" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key not sent, got %q", gotKey)
	}

	results, ok := res.Results()
	if !ok {
		t.Fatal("expected results field")
	}
	details := results.(map[string]any)
	if details["name"] != "Apple Inc." {
		t.Errorf("payload not passed through raw: %v", details)
	}
}

func TestHTTPStatusFailure(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown ticker", http.StatusNotFound)
	}))

	res := client.TickerDetails(context.Background(), "ZZZZZ")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Kind != FailureHTTPStatus {
		t.Errorf("expected http_status failure, got %s", res.Failure.Kind)
	}
	if res.Failure.Detail == "" {
		t.Error("expected human-readable detail")
	}
}

func TestMalformedResponseFailure(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))

	res := client.PriceSnapshot(context.Background(), "AAPL")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Kind != FailureTransport {
		t.Errorf("expected transport failure, got %s", res.Failure.Kind)
	}
}

func TestTimeoutFailure(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		PolygonAPIKey:  "test-key",
		PolygonBaseURL: srv.URL,
		RequestTimeout: 10,
		PriceSource:    config.PriceSourcePrevClose,
		NewsLimit:      10,
	}
	client := NewClient(cfg, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := client.News(ctx, "AAPL", 3)
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Failure.Kind != FailureTimeout {
		t.Errorf("expected timeout failure, got %s (%s)", res.Failure.Kind, res.Failure.Detail)
	}
}

func TestNewsLimitClamped(t *testing.T) {
	var gotLimit string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"results":[]}`))
	}))

	client.News(context.Background(), "AAPL", 500)
	if gotLimit != "10" {
		t.Errorf("limit not clamped to gateway maximum, got %s", gotLimit)
	}

	client.News(context.Background(), "AAPL", 3)
	if gotLimit != "3" {
		t.Errorf("in-range limit not passed through, got %s", gotLimit)
	}
}

func TestPriceSourceSelectsEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"results":{}}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		PolygonAPIKey:  "k",
		PolygonBaseURL: srv.URL,
		RequestTimeout: 2,
		PriceSource:    config.PriceSourceLastTrade,
		NewsLimit:      10,
	}
	NewClient(cfg, logger.Nop()).PriceSnapshot(context.Background(), "MSFT")
	if gotPath != "/v2/last/trade/MSFT" {
		t.Errorf("expected last-trade endpoint, got %s", gotPath)
	}

	cfg.PriceSource = config.PriceSourcePrevClose
	NewClient(cfg, logger.Nop()).PriceSnapshot(context.Background(), "MSFT")
	if gotPath != "/v2/aggs/ticker/MSFT/prev" {
		t.Errorf("expected previous-close endpoint, got %s", gotPath)
	}
}

func TestAggregatesDefaultsRange(t *testing.T) {
	var gotPath string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"results":[]}`))
	}))

	res := client.Aggregates(context.Background(), "AAPL", AggregatesRange{})
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Failure)
	}

	from := time.Now().Add(-defaultAggregatesWindow).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	want := "/v2/aggs/ticker/AAPL/range/1/day/" + from + "/" + to
	if gotPath != want {
		t.Errorf("path = %s, want %s", gotPath, want)
	}
}
