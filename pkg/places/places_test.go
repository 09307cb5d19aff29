package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voyagekit/tripmcp/pkg/geo"
	"github.com/voyagekit/tripmcp/pkg/testutil"
)

var mumbai = geo.Location{Latitude: 19.0760, Longitude: 72.8777}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient("test-key")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	c.SetLogger(testutil.DiscardLogger())
	return c
}

func placesHandler(t *testing.T, tipsStatus map[string]int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing Authorization header on %s", r.URL.Path)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/places/search"):
			q := r.URL.Query()
			if q.Get("sort") != "RELEVANCE" || q.Get("limit") != "10" || q.Get("radius") != "100000" {
				t.Errorf("unexpected search params: %v", q)
			}
			w.Write([]byte(`{"results":[
				{"name":"Gateway of India","fsq_id":"gw1"},
				{"name":"Marine Drive","fsq_id":"md2"}
			]}`))
		case strings.Contains(r.URL.Path, "/tips"):
			q := r.URL.Query()
			if q.Get("sort") != "POPULAR" || q.Get("limit") != "2" {
				t.Errorf("unexpected tips params: %v", q)
			}
			id := strings.Split(strings.TrimPrefix(r.URL.Path, "/places/"), "/")[0]
			if status, ok := tipsStatus[id]; ok {
				w.WriteHeader(status)
				return
			}
			switch id {
			case "gw1":
				w.Write([]byte(`[{"text":"Iconic arch monument."},{"text":"Best at sunrise."}]`))
			case "md2":
				w.Write([]byte(`[{"text":"Lovely seaside promenade."}]`))
			default:
				w.Write([]byte(`[]`))
			}
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestDescribeNearby(t *testing.T) {
	srv := httptest.NewServer(placesHandler(t, nil))
	defer srv.Close()

	c := newTestClient(srv)
	out, err := c.DescribeNearby(context.Background(), mumbai)
	if err != nil {
		t.Fatalf("DescribeNearby() error = %v", err)
	}

	want := "Gateway of India: Iconic arch monument. Best at sunrise.\n" +
		"Marine Drive: Lovely seaside promenade."
	if out != want {
		t.Errorf("DescribeNearby() = %q, want %q", out, want)
	}
}

func TestDescribeNearbyDropsFailedEnrichment(t *testing.T) {
	srv := httptest.NewServer(placesHandler(t, map[string]int{"gw1": http.StatusInternalServerError}))
	defer srv.Close()

	c := newTestClient(srv)
	out, err := c.DescribeNearby(context.Background(), mumbai)
	if err != nil {
		t.Fatalf("DescribeNearby() error = %v", err)
	}

	// The failed place is omitted, the remaining one still described
	if strings.Contains(out, "Gateway of India") {
		t.Errorf("output contains place whose enrichment failed: %q", out)
	}
	if !strings.Contains(out, "Marine Drive: Lovely seaside promenade.") {
		t.Errorf("output missing surviving place: %q", out)
	}
}

func TestMissingCredentialMakesNoCalls(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient("")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()

	_, err := c.DescribeNearby(context.Background(), mumbai)
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("DescribeNearby() error = %v, want ErrMissingCredential", err)
	}
	if calls != 0 {
		t.Errorf("provider received %d calls with missing credential, want 0", calls)
	}
}

func TestSearchFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Search(context.Background(), mumbai)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Search() error = %v, want *FetchError", err)
	}
	if fe.StatusCode != http.StatusTooManyRequests {
		t.Errorf("FetchError status = %d, want %d", fe.StatusCode, http.StatusTooManyRequests)
	}
}
