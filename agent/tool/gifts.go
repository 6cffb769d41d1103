package tool

import (
	"context"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

const degradedMessage = "no external suggestions available"

type GiftIdeasOutput struct {
	Available     bool   `json:"available"`
	RecipientName string `json:"recipient_name,omitempty"`
	Ideas         string `json:"ideas,omitempty"`
	Message       string `json:"message,omitempty"`
}

type PurchaseOptionsOutput struct {
	Available bool                     `json:"available"`
	Product   string                   `json:"product"`
	Options   []contractx.SearchResult `json:"options,omitempty"`
	Message   string                   `json:"message,omitempty"`
}

const maxPurchaseOptions = 5

// executeGenerateGiftIdeas delegates to the model collaborator, enriched
// with the stored profile and budget headroom. Collaborator failures yield
// a degraded result, never an error.
func executeGenerateGiftIdeas(ctx context.Context, st *statex.SessionState, tool string, args map[string]any, ideas contractx.IdeaGenerator) (contractx.ToolResult, error) {
	request, err := stringArg(args, "request")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if request == "" {
		return toolFailure(tool, "request is required"), nil
	}

	recipientName, err := stringArg(args, "recipient_name")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	maxPrice, _, err := floatArg(args, "max_price")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if maxPrice < 0 {
		return toolFailure(tool, "max_price must be non-negative"), nil
	}

	if ideas == nil {
		return toolSuccess(tool, GiftIdeasOutput{
			RecipientName: recipientName,
			Message:       degradedMessage,
		}), nil
	}

	req := contractx.IdeaRequest{
		Request:       request,
		RecipientName: recipientName,
		MaxPrice:      maxPrice,
	}
	if r, ok := st.FindRecipient(recipientName); ok {
		req.Age = r.Age
		req.Relationship = r.Relationship
		req.Interests = r.Interests
		req.Style = r.PreferredStyle
		for _, g := range r.GiftHistory {
			req.PastGifts = append(req.PastGifts, g.Description)
		}
	}
	if remaining, ok := st.RemainingFor(recipientName); ok {
		req.Remaining = remaining
		req.HasRemaining = true
	}

	text, err := ideas.GenerateIdeas(ctx, req)
	if err != nil {
		return toolSuccess(tool, GiftIdeasOutput{
			RecipientName: recipientName,
			Message:       degradedMessage,
		}), nil
	}

	return toolSuccess(tool, GiftIdeasOutput{
		Available:     true,
		RecipientName: recipientName,
		Ideas:         text,
	}), nil
}

// executeFindPurchase delegates to the web search collaborator with the
// same partial-failure contract as gift ideas.
func executeFindPurchase(ctx context.Context, tool string, args map[string]any, search contractx.ProductSearcher) (contractx.ToolResult, error) {
	product, err := stringArg(args, "product_description")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if product == "" {
		return toolFailure(tool, "product_description is required"), nil
	}

	if search == nil {
		return toolSuccess(tool, PurchaseOptionsOutput{
			Product: product,
			Message: degradedMessage,
		}), nil
	}

	options, err := search.Search(ctx, product, maxPurchaseOptions)
	if err != nil {
		return toolSuccess(tool, PurchaseOptionsOutput{
			Product: product,
			Message: degradedMessage,
		}), nil
	}

	return toolSuccess(tool, PurchaseOptionsOutput{
		Available: true,
		Product:   product,
		Options:   options,
	}), nil
}
