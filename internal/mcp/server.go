package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/catalog"
	"github.com/dshills/azdo-mcp/internal/config"
	"github.com/dshills/azdo-mcp/internal/importer"
)

const (
	// ServerName is the MCP server name
	ServerName = "azdo-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	catalog  *catalog.Catalog
	importer *importer.Importer
	cfg      *config.Config
}

// NewServer creates a new MCP server instance from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := azdo.NewClient(cfg.OrganizationURL, cfg.PersonalAccessToken,
		azdo.WithTimeout(cfg.HTTPTimeout),
		azdo.WithMaxRetries(cfg.MaxRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure DevOps client: %w", err)
	}

	cat := catalog.New(client, cfg.CatalogTTL)
	imp := importer.New(client, cat)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		catalog:  cat,
		importer: imp,
		cfg:      cfg,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(importTestCasesTool(), s.handleImportTestCases)
	s.mcp.AddTool(suggestFieldMappingTool(), s.handleSuggestFieldMapping)
	s.mcp.AddTool(invalidateFieldCacheTool(), s.handleInvalidateFieldCache)
}
