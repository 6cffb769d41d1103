package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

// Tool names form the wire contract with the LLM dispatcher. Renaming or
// retyping them breaks the dispatcher's tool-selection behavior.
const (
	ToolAddRecipient       = "add_recipient_profile"
	ToolListRecipients     = "list_recipients"
	ToolAddOccasion        = "add_occasion_for_recipient"
	ToolListUpcoming       = "list_upcoming_occasions"
	ToolCompleteOccasion   = "mark_occasion_complete"
	ToolDaysUntil          = "calculate_days_until_event"
	ToolSetBudget          = "set_total_budget"
	ToolRecordExpense      = "record_gift_expense"
	ToolBudgetStatus       = "get_budget_status"
	ToolGenerateGiftIdeas  = "generate_gift_ideas"
	ToolFindPurchase       = "find_purchase_options"
	ToolPlanningStatistics = "get_planning_statistics"
)

// Deps are the collaborators a tool run may reach beyond session state.
// Ideas and Search may be nil; the affected tools then degrade gracefully.
type Deps struct {
	Ideas  contractx.IdeaGenerator
	Search contractx.ProductSearcher
	Now    func() time.Time
}

// Executor runs one named tool against a single session's state. The state
// must already be locked by the caller for the duration of the sequence.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

func NewExecutor(st *statex.SessionState, deps Deps) Executor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolAddRecipient:
			return executeAddRecipient(st, tool, args, deps.Now())
		case ToolListRecipients:
			return executeListRecipients(st, tool, args)
		case ToolAddOccasion:
			return executeAddOccasion(st, tool, args, deps.Now())
		case ToolListUpcoming:
			return executeListUpcoming(st, tool, args, deps.Now())
		case ToolCompleteOccasion:
			return executeCompleteOccasion(st, tool, args, deps.Now())
		case ToolDaysUntil:
			return executeDaysUntil(tool, args, deps.Now())
		case ToolSetBudget:
			return executeSetBudget(st, tool, args, deps.Now())
		case ToolRecordExpense:
			return executeRecordExpense(st, tool, args, deps.Now())
		case ToolBudgetStatus:
			return executeBudgetStatus(st, tool)
		case ToolGenerateGiftIdeas:
			return executeGenerateGiftIdeas(ctx, st, tool, args, deps.Ideas)
		case ToolFindPurchase:
			return executeFindPurchase(ctx, tool, args, deps.Search)
		case ToolPlanningStatistics:
			return executeStatistics(st, tool, deps.Now())
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is not available", tool),
			}, nil
		}
	}
}

// Definitions declares the full catalog exposed to the dispatcher.
func Definitions() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolAddRecipient,
			Description: openai.String("Create or update a gift recipient profile. Matching is case-insensitive by name; re-adding merges fields instead of duplicating."),
			Parameters: objectSchema(map[string]any{
				"name":            stringProperty("Recipient name (required, unique per session)"),
				"age":             integerProperty("Recipient age, non-negative"),
				"relationship":    stringProperty("Relationship to the user, e.g. friend, sister, colleague"),
				"interests":       arrayProperty("Interest tags, e.g. yoga, reading", stringProperty("interest tag")),
				"preferred_style": stringProperty("Gift style preference, e.g. practical, luxury"),
				"min_budget":      numberProperty("Lower bound of a per-recipient budget range"),
				"max_budget":      numberProperty("Upper bound of a per-recipient budget range"),
			}, "name"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolListRecipients,
			Description: openai.String("List stored recipient profiles in insertion order. Optionally filter by a name substring."),
			Parameters: objectSchema(map[string]any{
				"name_filter": stringProperty("Optional case-insensitive name substring"),
			}),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolAddOccasion,
			Description: openai.String("Attach a dated occasion (birthday, anniversary, holiday, custom) to a recipient by name. Recurring occasions repeat annually."),
			Parameters: objectSchema(map[string]any{
				"recipient_name":       stringProperty("Name of the recipient the occasion belongs to"),
				"occasion_type":        stringProperty("Occasion type: birthday, anniversary, holiday, or custom"),
				"month":                integerProperty("Calendar month, 1-12"),
				"day":                  integerProperty("Day of month"),
				"year":                 integerProperty("Optional year for one-time occasions"),
				"recurring":            booleanProperty("Whether the occasion repeats annually (default true)"),
				"reminder_days_before": integerProperty("How many days before the date to remind (default 14)"),
			}, "recipient_name", "occasion_type", "month", "day"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolListUpcoming,
			Description: openai.String("List occasions falling within the next N days, soonest first."),
			Parameters: objectSchema(map[string]any{
				"days_ahead": integerProperty("Horizon in days (default 30)"),
			}),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolCompleteOccasion,
			Description: openai.String("Mark an occasion complete (gift handled); it stops appearing in upcoming occasion lists. Use the occasion_id from earlier tool results."),
			Parameters: objectSchema(map[string]any{
				"occasion_id": stringProperty("Identifier of the occasion to complete"),
			}, "occasion_id"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolDaysUntil,
			Description: openai.String("Count calendar days until a month/day date. Recurring dates roll to the next future occurrence; dated one-time events in the past yield a negative count."),
			Parameters: objectSchema(map[string]any{
				"month":     integerProperty("Calendar month, 1-12"),
				"day":       integerProperty("Day of month"),
				"year":      integerProperty("Optional year for one-time events"),
				"recurring": booleanProperty("Whether the event repeats annually (default true)"),
			}, "month", "day"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolSetBudget,
			Description: openai.String("Set the overall gift budget. Overwrites any previous total."),
			Parameters: objectSchema(map[string]any{
				"amount": numberProperty("Total budget amount, non-negative"),
			}, "amount"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolRecordExpense,
			Description: openai.String("Record a gift purchase against the budget. Always records; flags over_budget when cumulative spend exceeds the total."),
			Parameters: objectSchema(map[string]any{
				"recipient_name": stringProperty("Who the gift was for"),
				"amount":         numberProperty("Amount spent, non-negative"),
				"description":    stringProperty("What was purchased"),
			}, "recipient_name", "amount"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolBudgetStatus,
			Description: openai.String("Summarize budget health: total, spent, remaining, and a per-recipient breakdown."),
			Parameters:  objectSchema(map[string]any{}),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolGenerateGiftIdeas,
			Description: openai.String("Brainstorm tailored gift suggestions using the stored profile, past gifts, and remaining budget headroom."),
			Parameters: objectSchema(map[string]any{
				"request":        stringProperty("Free-form description of what kind of gift is wanted"),
				"recipient_name": stringProperty("Optional recipient to personalize for"),
				"max_price":      numberProperty("Optional price ceiling"),
			}, "request"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolFindPurchase,
			Description: openai.String("Search the web for retailers, prices, and links for a chosen gift."),
			Parameters: objectSchema(map[string]any{
				"product_description": stringProperty("Product to look up, e.g. 'yoga mat premium'"),
			}, "product_description"),
		}},
		{Function: openai.FunctionDefinitionParam{
			Name:        ToolPlanningStatistics,
			Description: openai.String("Aggregate counters: recipients, occasions, upcoming occasions, budget totals."),
			Parameters:  objectSchema(map[string]any{}),
		}},
	}
}

/* ------------------------- JSON schema helpers -------------------------- */

func objectSchema(properties map[string]any, required ...string) openai.FunctionParameters {
	schema := openai.FunctionParameters{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integerProperty(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func numberProperty(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func booleanProperty(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func arrayProperty(description string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "description": description, "items": items}
}
