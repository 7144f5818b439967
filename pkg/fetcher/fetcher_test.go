package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/nyc-open-data/arrest-ingress/pkg/config"
	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// pagedServer serves totalRecords synthetic arrest records through the
// $limit/$offset protocol and counts the requests it receives.
type pagedServer struct {
	totalRecords int
	requests     int
	failAt       int // fail the nth request (1-based) with failStatus; 0 disables
	failStatus   int
	lastToken    string
}

func (s *pagedServer) handler(w http.ResponseWriter, r *http.Request) {
	s.requests++
	s.lastToken = r.Header.Get("X-App-Token")

	if s.failAt > 0 && s.requests == s.failAt {
		w.WriteHeader(s.failStatus)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("$limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("$offset"))

	var page []model.Record
	for i := offset; i < offset+limit && i < s.totalRecords; i++ {
		page = append(page, model.Record{
			"arrest_key": fmt.Sprintf("key-%d", i),
			"pd_cd":      "101",
		})
	}
	if page == nil {
		page = []model.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func newTestClient(endpoint string, pageSize int) *Client {
	return NewClient(&config.APIConfig{
		Endpoint: endpoint,
		AppToken: "test-token",
		PageSize: pageSize,
	}, zap.NewNop())
}

func TestFetchPagination(t *testing.T) {
	tests := []struct {
		name         string
		totalRecords int
		pageSize     int
		wantRows     int
		wantRequests int
	}{
		// 5 records at page size 2 arrive as pages of [2,2,1]; the short
		// final page ends the loop without an extra request.
		{name: "short_final_page", totalRecords: 5, pageSize: 2, wantRows: 5, wantRequests: 3},
		// An exact multiple of the page size needs one trailing empty
		// page to confirm termination: ceil(N/P)+1 requests.
		{name: "exact_multiple", totalRecords: 4, pageSize: 2, wantRows: 4, wantRequests: 3},
		{name: "single_partial_page", totalRecords: 3, pageSize: 10, wantRows: 3, wantRequests: 1},
		{name: "empty_resource", totalRecords: 0, pageSize: 10, wantRows: 0, wantRequests: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := &pagedServer{totalRecords: tc.totalRecords}
			ts := httptest.NewServer(http.HandlerFunc(server.handler))
			defer ts.Close()

			client := newTestClient(ts.URL, tc.pageSize)
			table, err := client.Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch() returned error: %v", err)
			}

			if table.RowCount() != tc.wantRows {
				t.Errorf("RowCount() = %d; expected %d", table.RowCount(), tc.wantRows)
			}
			if server.requests != tc.wantRequests {
				t.Errorf("requests = %d; expected %d", server.requests, tc.wantRequests)
			}
			if server.lastToken != "test-token" {
				t.Errorf("X-App-Token = %q; expected %q", server.lastToken, "test-token")
			}
		})
	}
}

func TestFetchKeepsPartialResultOnHTTPError(t *testing.T) {
	server := &pagedServer{totalRecords: 5, failAt: 2, failStatus: http.StatusInternalServerError}
	ts := httptest.NewServer(http.HandlerFunc(server.handler))
	defer ts.Close()

	client := newTestClient(ts.URL, 2)
	table, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned error on handled HTTP status: %v", err)
	}

	// Only the first page made it; pagination stopped at the 500.
	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d; expected 2 (first page only)", table.RowCount())
	}
	if server.requests != 2 {
		t.Errorf("requests = %d; expected 2", server.requests)
	}
}

func TestFetchPropagatesNetworkFault(t *testing.T) {
	server := &pagedServer{totalRecords: 5}
	ts := httptest.NewServer(http.HandlerFunc(server.handler))
	ts.Close() // connection refused from the first request

	client := newTestClient(ts.URL, 2)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() succeeded against a closed server")
	}
}

func TestFetchFailsOnMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, 2)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() succeeded on a malformed body")
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(ts.URL, 2)
	if _, err := client.Fetch(ctx); err == nil {
		t.Fatal("Fetch() ignored a cancelled context")
	}
}
