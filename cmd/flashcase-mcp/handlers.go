package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flashcase/flashcase/internal/service"
)

// toolHandler adapts service operations to MCP tool calls for one local user.
type toolHandler struct {
	svc    *service.Service
	userID string
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(`{"error": %q}`, fmt.Sprintf(format, args...)))
}

func (h *toolHandler) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decks, err := h.svc.ListDecks(ctx, h.userID)
	if err != nil {
		return errorResult("failed to list decks: %v", err), nil
	}
	return jsonResult(map[string]any{"decks": decks})
}

func (h *toolHandler) handleCreateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, ok := request.Params.Arguments["name"].(string)
	if !ok || name == "" {
		return errorResult("missing required parameter: name"), nil
	}
	description, _ := request.Params.Arguments["description"].(string)

	deck, err := h.svc.CreateDeck(ctx, h.userID, service.NewDeck{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return errorResult("failed to create deck: %v", err), nil
	}
	return jsonResult(deck)
}

func (h *toolHandler) handleCreateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID, ok := request.Params.Arguments["deck_id"].(string)
	if !ok || deckID == "" {
		return errorResult("missing required parameter: deck_id"), nil
	}
	front, ok := request.Params.Arguments["front"].(string)
	if !ok || front == "" {
		return errorResult("missing required parameter: front"), nil
	}
	back, ok := request.Params.Arguments["back"].(string)
	if !ok || back == "" {
		return errorResult("missing required parameter: back"), nil
	}

	card, err := h.svc.CreateCard(ctx, h.userID, deckID, front, back)
	if err != nil {
		return errorResult("failed to create card: %v", err), nil
	}
	return jsonResult(card)
}

func (h *toolHandler) handleGetDueCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID, ok := request.Params.Arguments["deck_id"].(string)
	if !ok || deckID == "" {
		return errorResult("missing required parameter: deck_id"), nil
	}
	limit := 20
	if limitFloat, ok := request.Params.Arguments["limit"].(float64); ok {
		limit = int(limitFloat)
	}

	session, err := h.svc.StudySession(ctx, h.userID, deckID, limit, time.Now().UTC())
	if err != nil {
		return errorResult("failed to build study session: %v", err), nil
	}
	if len(session) == 0 {
		return jsonResult(map[string]any{
			"cards":   session,
			"message": "No cards due for review",
		})
	}
	return jsonResult(map[string]any{"cards": session, "count": len(session)})
}

func (h *toolHandler) handleSubmitReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, ok := request.Params.Arguments["card_id"].(string)
	if !ok || cardID == "" {
		return errorResult("missing required parameter: card_id"), nil
	}
	qualityFloat, ok := request.Params.Arguments["quality"].(float64)
	if !ok {
		return errorResult("missing required parameter: quality"), nil
	}

	log, err := h.svc.SubmitReview(ctx, h.userID, cardID, int(qualityFloat), time.Now().UTC())
	if err != nil {
		return errorResult("failed to record review: %v", err), nil
	}
	return jsonResult(map[string]any{
		"review":   log,
		"next_due": log.DueDate.Format("2006-01-02"),
	})
}
