// Command flashcase-mcp exposes the FlashCase study workflow as MCP tools
// over stdio, for use from an MCP-capable assistant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/moderation"
	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/service"
	"github.com/flashcase/flashcase/internal/storage"
)

const serverInstructions = `
FlashCase is a spaced repetition flashcard system. Study workflow:

1. Call get_due_cards to fetch the cards due in a deck. Show the student only
   the front of one card at a time and ask for their answer.
2. After the student answers, reveal the back and compare.
3. Rate the recall with submit_review using the 0-5 scale:
   0-2 means the answer was wrong (0 = blackout, 2 = close but wrong),
   3 = correct with serious difficulty, 4 = correct after hesitation,
   5 = perfect recall. Ratings below 3 bring the card back tomorrow.
4. Continue until no cards are due, then offer to create new cards with
   create_card for anything the student struggled with.
`

func main() {
	dbPath := flag.String("db", "data/flashcase.db", "Path to the SQLite database")
	username := flag.String("user", "local", "Username to study as; created on first run")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.Open(*dbPath)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.Close()

	svc := service.New(store, scheduler.NewSM2(), moderation.NewFilter(), logger)
	userID, err := ensureUser(svc, *username)
	if err != nil {
		logger.Fatal("failed to resolve study user", zap.Error(err))
	}

	h := &toolHandler{svc: svc, userID: userID}

	s := server.NewMCPServer(
		"FlashCase MCP",
		"1.0.0",
		server.WithInstructions(serverInstructions),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	s.AddTool(mcp.NewTool("list_decks",
		mcp.WithDescription("List the decks available to study, with their IDs."),
	), h.handleListDecks)

	s.AddTool(mcp.NewTool("create_deck",
		mcp.WithDescription("Create a new deck to hold flashcards."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Deck name"),
		),
		mcp.WithString("description",
			mcp.Description("Optional deck description"),
		),
	), h.handleCreateDeck)

	s.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Add a flashcard to a deck. Propose the front and back "+
			"to the student and get their approval before calling this."),
		mcp.WithString("deck_id",
			mcp.Required(),
			mcp.Description("ID of the deck to add the card to"),
		),
		mcp.WithString("front",
			mcp.Required(),
			mcp.Description("Front (question) side of the card"),
		),
		mcp.WithString("back",
			mcp.Required(),
			mcp.Description("Back (answer) side of the card"),
		),
	), h.handleCreateCard)

	s.AddTool(mcp.NewTool("get_due_cards",
		mcp.WithDescription("Get the cards due for review in a deck, new cards first. "+
			"Show only the front of one card at a time."),
		mcp.WithString("deck_id",
			mcp.Required(),
			mcp.Description("ID of the deck to study"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of cards to return (default 20)"),
		),
	), h.handleGetDueCards)

	s.AddTool(mcp.NewTool("submit_review",
		mcp.WithDescription("Record how well the student recalled a card. "+
			"Quality 0-2 = wrong, 3-5 = correct (5 = perfect recall)."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("ID of the card that was reviewed"),
		),
		mcp.WithNumber("quality",
			mcp.Required(),
			mcp.Description("Recall quality from 0 to 5"),
		),
	), h.handleSubmitReview)

	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// ensureUser looks up the study user, registering it on first run. The MCP
// surface runs locally and never logs in over HTTP.
func ensureUser(svc *service.Service, username string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := svc.LookupOrRegisterLocalUser(ctx, username)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
