package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/queries"
	introQueries "github.com/felixgeelhaar/hireflow/internal/introductions/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose the configured
// actor's interviews and introductions.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	t := newToolset(deps)

	srv.Resource("hireflow://interviews").
		Name("Interviews").
		Description("Interviews visible to the configured actor").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			dtos, err := t.app.ListInterviewsHandler.Handle(ctx, queries.ListInterviewsQuery{Actor: t.app.Actor})
			if err != nil {
				return nil, toolError(err)
			}
			return jsonResource(uri, dtos)
		})

	srv.Resource("hireflow://interviews/upcoming").
		Name("Upcoming Interviews").
		Description("Scheduled interviews that have not happened yet").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			dtos, err := t.app.ListInterviewsHandler.Handle(ctx, queries.ListInterviewsQuery{Actor: t.app.Actor, Stage: "upcoming"})
			if err != nil {
				return nil, toolError(err)
			}
			return jsonResource(uri, dtos)
		})

	srv.Resource("hireflow://introductions").
		Name("Introductions").
		Description("Introductions for the configured employer").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			dtos, err := t.app.IntroductionsHandler.List(ctx, introQueries.ListIntroductionsQuery{Actor: t.app.Actor})
			if err != nil {
				return nil, toolError(err)
			}
			return jsonResource(uri, dtos)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
