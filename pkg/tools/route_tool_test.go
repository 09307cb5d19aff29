package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voyagekit/tripmcp/pkg/geocode"
	"github.com/voyagekit/tripmcp/pkg/places"
	"github.com/voyagekit/tripmcp/pkg/routing"
	"github.com/voyagekit/tripmcp/pkg/testutil"
)

const routeResponse = `{
	"resourceSets": [{
		"resources": [{
			"routeLegs": [{
				"itineraryItems": [
					{"instruction": {"text": "Depart from Mumbai"}, "maneuverPoint": {"coordinates": [19.0760, 72.8777]}},
					{"instruction": {"text": "Take the expressway"}, "maneuverPoint": {"coordinates": [18.7557, 73.4091]}},
					{"instruction": {"text": "Arrive at Pune"}, "maneuverPoint": {"coordinates": [18.5204, 73.8567]}}
				]
			}]
		}]
	}]
}`

func newRouteRegistry(t *testing.T, handler http.HandlerFunc) (*Registry, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	routes := routing.NewClient("test-key")
	routes.BaseURL = srv.URL
	routes.HTTPClient = srv.Client()
	return NewRegistry(testutil.DiscardLogger(), geocode.New(), places.NewClient("unused"), routes), srv
}

func TestParseRouteInput(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		want      routeInput
		malformed bool
	}{
		{
			name: "structured arguments",
			args: map[string]any{
				"locations":           []any{"Mumbai", "Pune"},
				"transportation_mode": "cycle",
			},
			want: routeInput{Locations: []string{"Mumbai", "Pune"}, TransportationMode: "cycle"},
		},
		{
			name: "structured arguments default mode",
			args: map[string]any{"locations": []any{"Mumbai", "Pune"}},
			want: routeInput{Locations: []string{"Mumbai", "Pune"}, TransportationMode: "car"},
		},
		{
			name: "serialized json",
			args: map[string]any{
				"input_data": `{"locations": ["Mumbai", "Pune"], "transportation_mode": "walking"}`,
			},
			want: routeInput{Locations: []string{"Mumbai", "Pune"}, TransportationMode: "walking"},
		},
		{
			name: "serialized single-quoted",
			args: map[string]any{
				"input_data": `{'locations': ['Mumbai', 'Pune'], 'transportation_mode': 'cycle'}`,
			},
			want: routeInput{Locations: []string{"Mumbai", "Pune"}, TransportationMode: "cycle"},
		},
		{
			name:      "serialized garbage",
			args:      map[string]any{"input_data": "take me to Pune"},
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			got, err := parseRouteInput(req)
			if tt.malformed {
				var malformed *MalformedInputError
				if !errors.As(err, &malformed) {
					t.Fatalf("expected MalformedInputError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRouteInput: %v", err)
			}
			if got.TransportationMode != tt.want.TransportationMode {
				t.Errorf("mode: got %q, want %q", got.TransportationMode, tt.want.TransportationMode)
			}
			if len(got.Locations) != len(tt.want.Locations) {
				t.Fatalf("locations: got %v, want %v", got.Locations, tt.want.Locations)
			}
			for i := range got.Locations {
				if got.Locations[i] != tt.want.Locations[i] {
					t.Errorf("locations[%d]: got %q, want %q", i, got.Locations[i], tt.want.Locations[i])
				}
			}
		})
	}
}

func TestHandleGetRoute(t *testing.T) {
	var gotPath, gotQuery string
	reg, _ := newRouteRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(routeResponse))
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"input_data": `{'locations': ['Mumbai', 'Pune'], 'transportation_mode': 'cycle'}`,
	}

	res, err := reg.HandleGetRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleGetRoute: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool failure: %s", ResultText(res))
	}

	if gotPath != "/bicycle" {
		t.Errorf("request path: got %q, want %q", gotPath, "/bicycle")
	}
	if !strings.Contains(gotQuery, "wp.0=Mumbai&wp.1=Pune") {
		t.Errorf("waypoints out of order or missing: %q", gotQuery)
	}

	env, ok := ParseEnvelope(res)
	if !ok {
		t.Fatal("expected an envelope result")
	}
	lines := strings.Split(env.Output, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 instruction lines, got %d: %q", len(lines), env.Output)
	}
	if lines[0] != "- Depart from Mumbai" {
		t.Errorf("first instruction: got %q", lines[0])
	}
	if len(env.GeocodePoints) != 3 {
		t.Fatalf("expected 3 geocode points, got %d", len(env.GeocodePoints))
	}
	if env.GeocodePoints[2].Latitude != 18.5204 || env.GeocodePoints[2].Longitude != 73.8567 {
		t.Errorf("unexpected final point: %+v", env.GeocodePoints[2])
	}
}

func TestHandleGetRouteTooFewLocations(t *testing.T) {
	reg, _ := newRouteRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made")
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"locations": []any{"Mumbai"}}

	res, err := reg.HandleGetRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleGetRoute: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool failure")
	}
	if !strings.Contains(ResultText(res), "At least two locations") {
		t.Errorf("unexpected message: %s", ResultText(res))
	}
}

func TestHandleGetRouteMalformedInput(t *testing.T) {
	reg, _ := newRouteRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made")
	})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"input_data": "ride a bicycle to Pune"}

	res, err := reg.HandleGetRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleGetRoute: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool failure")
	}
	if !strings.Contains(ResultText(res), "Malformed route input") {
		t.Errorf("unexpected message: %s", ResultText(res))
	}
}

func TestHandleGetRouteMissingCredential(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	routes := routing.NewClient("")
	routes.BaseURL = srv.URL
	routes.HTTPClient = srv.Client()
	reg := NewRegistry(testutil.DiscardLogger(), geocode.New(), places.NewClient("unused"), routes)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"locations": []any{"Mumbai", "Pune"}}

	res, err := reg.HandleGetRoute(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleGetRoute: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool failure")
	}
	if !strings.Contains(ResultText(res), "credential") {
		t.Errorf("unexpected message: %s", ResultText(res))
	}
	if calls != 0 {
		t.Errorf("expected no outbound requests, got %d", calls)
	}
}
