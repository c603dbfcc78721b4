package mcp

import (
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Query answers questions and runs retrieval.
	Query driving.QueryService

	// Indexer reports index status. Optional.
	Indexer driving.Indexer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
