package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the URI scheme for noteqa resources.
const uriScheme = "noteqa://"

// statusInfo is the JSON shape of the status resource.
type statusInfo struct {
	Documents int            `json:"documents"`
	Tracked   int            `json:"tracked"`
	PerSource map[string]int `json:"per_source"`
}

// registerResources registers resource handlers. The status resource needs an indexer.
func (s *Server) registerResources() {
	if s.ports.Indexer == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Number of indexed notes, per source",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleStatusResource returns the index status.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Indexer.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	data, err := json.MarshalIndent(statusInfo{
		Documents: status.Documents,
		Tracked:   status.Tracked,
		PerSource: status.PerSource,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
