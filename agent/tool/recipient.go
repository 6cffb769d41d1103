package tool

import (
	"strings"
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

type RecipientOutput struct {
	Name           string   `json:"name"`
	Age            int      `json:"age,omitempty"`
	Relationship   string   `json:"relationship,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	PreferredStyle string   `json:"preferred_style,omitempty"`
	MinBudget      float64  `json:"min_budget,omitempty"`
	MaxBudget      float64  `json:"max_budget,omitempty"`
	PastGifts      []string `json:"past_gifts,omitempty"`
	Created        bool     `json:"created"`
}

type ListRecipientsOutput struct {
	Count      int               `json:"count"`
	Recipients []RecipientOutput `json:"recipients"`
}

func executeAddRecipient(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if name == "" {
		return toolFailure(tool, "name is required"), nil
	}

	age, hasAge, err := intArg(args, "age")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if hasAge && age < 0 {
		return toolFailure(tool, "age must be non-negative"), nil
	}

	relationship, err := stringArg(args, "relationship")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	style, err := stringArg(args, "preferred_style")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	interests, err := stringSliceArg(args, "interests")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	minBudget, _, err := floatArg(args, "min_budget")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	maxBudget, _, err := floatArg(args, "max_budget")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if minBudget < 0 || maxBudget < 0 {
		return toolFailure(tool, "budget range must be non-negative"), nil
	}
	if maxBudget > 0 && minBudget > maxBudget {
		return toolFailure(tool, "min_budget must not exceed max_budget"), nil
	}

	stored, created := st.UpsertRecipient(statex.Recipient{
		Name:           name,
		Age:            age,
		Relationship:   relationship,
		Interests:      interests,
		PreferredStyle: style,
		MinBudget:      minBudget,
		MaxBudget:      maxBudget,
	}, now)

	return toolSuccess(tool, toRecipientOutput(stored, created)), nil
}

func executeListRecipients(st *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	filter, err := stringArg(args, "name_filter")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	filter = strings.ToLower(filter)

	out := ListRecipientsOutput{Recipients: []RecipientOutput{}}
	for _, r := range st.Recipients {
		if filter != "" && !strings.Contains(strings.ToLower(r.Name), filter) {
			continue
		}
		out.Recipients = append(out.Recipients, toRecipientOutput(r, false))
	}
	out.Count = len(out.Recipients)

	return toolSuccess(tool, out), nil
}

func toRecipientOutput(r *statex.Recipient, created bool) RecipientOutput {
	pastGifts := make([]string, 0, len(r.GiftHistory))
	for _, g := range r.GiftHistory {
		pastGifts = append(pastGifts, g.Description)
	}
	return RecipientOutput{
		Name:           r.Name,
		Age:            r.Age,
		Relationship:   r.Relationship,
		Interests:      r.Interests,
		PreferredStyle: r.PreferredStyle,
		MinBudget:      r.MinBudget,
		MaxBudget:      r.MaxBudget,
		PastGifts:      pastGifts,
		Created:        created,
	}
}
