package contract

// ToolRequest is one tool invocation selected by the dispatcher.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the structured payload returned to the dispatcher.
// Error carries tool-input failures conversationally; it is never a crash.
type ToolResult struct {
	Tool    string `json:"tool"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// IdeaRequest parameterizes gift brainstorming with everything the model
// collaborator needs from session state.
type IdeaRequest struct {
	Request       string   `json:"request"`
	RecipientName string   `json:"recipient_name,omitempty"`
	Age           int      `json:"age,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Style         string   `json:"style,omitempty"`
	PastGifts     []string `json:"past_gifts,omitempty"`
	MaxPrice      float64  `json:"max_price,omitempty"`
	Remaining     float64  `json:"remaining_budget,omitempty"`
	HasRemaining  bool     `json:"has_remaining_budget,omitempty"`
}

// SearchResult is one purchase option returned by the web search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}
