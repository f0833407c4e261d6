package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common hiring workflows.
func RegisterPrompts(srv *mcp.Server) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("schedule_interview").
		Description("Walk an employer through proposing availability and confirming an interview.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Interview Scheduling", fmt.Sprintf(`Help me schedule interview %s.

1. Read it with interview.show and check its status.
2. If it is PENDING_AVAILABILITY, call interview.suggest for free slots from
   my team's calendars, then propose the ones I pick with interview.propose.
3. If it is AWAITING_CONFIRMATION, list the candidate's selected slots and
   ask which interviewer from team.list should take it.
4. Confirm with interview.confirm and report the meeting link. If the link
   failed, offer interview.retry_link.

Pass expected_version from the last read so concurrent edits are caught.`, argOr(args, "interview_id", "<interview id>"))), nil
		})

	srv.Prompt("introduction_pipeline").
		Description("Review an employer's introductions and suggest the next step for each.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Introduction Pipeline Review", `Review my introductions.

1. Read the hireflow://introductions resource.
2. Group them by stage: pending, connected, hiring, hired, closed.
3. For connected candidates without an interview, suggest creating one
   with interview.create.
4. For requests still pending near their expiry, remind me they lapse
   automatically.

Keep the summary short and list concrete tool calls I can approve.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

func argOr(args map[string]string, key, fallback string) string {
	if v := args[key]; v != "" {
		return v
	}
	return fallback
}
