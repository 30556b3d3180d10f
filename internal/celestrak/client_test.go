package celestrak

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

const issBody = "ISS (ZARYA)\n" +
	"1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927\n" +
	"2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537\n"

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, testLogger)
}

// TestQueryURLEncodesOnlySpaces verifies that spaces become %20 and every
// other character — including parentheses — passes through unaltered.
func TestQueryURLEncodesOnlySpaces(t *testing.T) {
	c := newTestClient("https://example.org/NORAD/elements/gp.php")
	got := c.QueryURL("ISS (ZARYA)")
	want := "https://example.org/NORAD/elements/gp.php?NAME=ISS%20(ZARYA)&FORMAT=TLE"
	if got != want {
		t.Errorf("QueryURL = %q, want %q", got, want)
	}
}

func TestFetchByNameSuccess(t *testing.T) {
	var gotURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(issBody))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	data, err := c.FetchByName(context.Background(), "ISS (ZARYA)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != issBody {
		t.Errorf("body mismatch: got %d bytes, want %d", len(data), len(issBody))
	}
	if !strings.Contains(gotURI, "NAME=ISS%20(ZARYA)") || !strings.Contains(gotURI, "FORMAT=TLE") {
		t.Errorf("unexpected request URI %q", gotURI)
	}
}

func TestFetchByNameNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("No GP data found\r\n"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchByName(context.Background(), "NO SUCH SAT")
	if !errors.Is(err, ErrNoGPData) {
		t.Fatalf("expected ErrNoGPData, got %v", err)
	}
}

func TestFetchByNameHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchByName(context.Background(), "ISS (ZARYA)")
	if err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
	if errors.Is(err, ErrNoGPData) {
		t.Error("HTTP errors must not be classified as no-data")
	}
}

func TestFetchByNameEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.FetchByName(context.Background(), "ISS (ZARYA)")
	if err == nil {
		t.Fatal("expected error for empty body, got nil")
	}
}

func TestFetchByNameContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := newTestClient(server.URL)
	_, err := c.FetchByName(ctx, "ISS (ZARYA)")
	if err == nil {
		t.Fatal("expected error after context timeout, got nil")
	}
}
