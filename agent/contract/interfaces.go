package contract

import "context"

// Assistant is the dispatch boundary: it turns one user message into a
// natural-language reply, invoking domain tools along the way.
type Assistant interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

// IdeaGenerator produces gift suggestions from the model collaborator.
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, req IdeaRequest) (string, error)
}

// ProductSearcher finds purchase options via the web search collaborator.
type ProductSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}
