package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voyagekit/tripmcp/pkg/geo"
)

// RouteResourceURI identifies the most recently diverted route geometry.
const RouteResourceURI = "trip://route/latest"

// routePayload is the render-ready form of a diverted route: the stable
// render key, the raw point sequence and derived display metadata.
type routePayload struct {
	RenderKey     string           `json:"render_key"`
	GeocodePoints []geo.Location   `json:"geocode_points"`
	Bounds        *geo.BoundingBox `json:"bounds,omitempty"`
	PathLengthM   float64          `json:"path_length_m"`
}

// registerRouteResource exposes the latest side-channel route geometry to
// presentation clients. Reading it assigns the record's render key on first
// access; repeat reads return the same key.
func (s *Server) registerRouteResource(logger *slog.Logger) {
	res := mcp.NewResource(RouteResourceURI, "latest-route",
		mcp.WithResourceDescription("Geometry of the most recently retrieved route, for map rendering"),
		mcp.WithMIMEType("application/json"),
	)

	s.srv.AddResource(res, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		rec, idx, ok := s.log.LastSideChannel()
		if !ok {
			return nil, fmt.Errorf("no route has been retrieved in this session")
		}

		key, err := s.log.EnsureRenderKey(idx)
		if err != nil {
			return nil, fmt.Errorf("assign render key: %w", err)
		}

		payload := routePayload{
			RenderKey:     key,
			GeocodePoints: rec.GeocodePoints,
			Bounds:        geo.BoundsOf(rec.GeocodePoints),
			PathLengthM:   geo.PathLength(rec.GeocodePoints),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal route payload: %w", err)
		}

		logger.Debug("serving route resource", "points", len(rec.GeocodePoints), "render_key", key)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RouteResourceURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
