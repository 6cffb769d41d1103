package tool

import (
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

type SetBudgetOutput struct {
	Total float64 `json:"total"`
}

type RecordExpenseOutput struct {
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
	TotalSpent    float64 `json:"total_spent"`
	Remaining     float64 `json:"remaining"`
	OverBudget    bool    `json:"over_budget"`
}

type BudgetStatusOutput struct {
	Total          float64            `json:"total"`
	Spent          float64            `json:"spent"`
	Remaining      float64            `json:"remaining"`
	PercentageUsed float64            `json:"percentage_used,omitempty"`
	Status         string             `json:"status"`
	ByRecipient    map[string]float64 `json:"by_recipient"`
	ExpenseCount   int                `json:"expense_count"`
	RecentExpenses []ExpenseOutput    `json:"recent_expenses,omitempty"`
}

type ExpenseOutput struct {
	RecipientName string  `json:"recipient_name"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
}

const maxRecentExpenses = 5

func executeSetBudget(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	amount, has, err := floatArg(args, "amount")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if !has {
		return toolFailure(tool, "amount is required"), nil
	}
	if amount < 0 {
		return toolFailure(tool, "amount must be non-negative"), nil
	}

	st.SetTotalBudget(amount, now)
	return toolSuccess(tool, SetBudgetOutput{Total: amount}), nil
}

func executeRecordExpense(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	recipientName, err := stringArg(args, "recipient_name")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if recipientName == "" {
		return toolFailure(tool, "recipient_name is required"), nil
	}

	amount, has, err := floatArg(args, "amount")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if !has {
		return toolFailure(tool, "amount is required"), nil
	}
	if amount < 0 {
		return toolFailure(tool, "amount must be non-negative"), nil
	}

	description, err := stringArg(args, "description")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}

	overBudget := st.RecordExpense(recipientName, amount, description, now)

	result := toolSuccess(tool, RecordExpenseOutput{
		RecipientName: recipientName,
		Amount:        amount,
		Description:   description,
		TotalSpent:    st.TotalSpent(),
		Remaining:     st.Budget.Total - st.TotalSpent(),
		OverBudget:    overBudget,
	})
	if overBudget {
		result.Warning = "cumulative spend now exceeds the total budget"
	}
	return result, nil
}

func executeBudgetStatus(st *statex.SessionState, tool string) (contractx.ToolResult, error) {
	spent := st.TotalSpent()
	total := st.Budget.Total

	out := BudgetStatusOutput{
		Total:        total,
		Spent:        spent,
		Remaining:    total - spent,
		ByRecipient:  map[string]float64{},
		ExpenseCount: len(st.Budget.Expenses),
	}
	for key, amount := range st.Budget.SpentBy {
		out.ByRecipient[st.RecipientDisplayName(key)] = amount
	}
	if total > 0 {
		out.PercentageUsed = spent / total * 100
	}
	out.Status = budgetStatusLabel(out.PercentageUsed, total, spent)

	start := len(st.Budget.Expenses) - maxRecentExpenses
	if start < 0 {
		start = 0
	}
	for _, e := range st.Budget.Expenses[start:] {
		out.RecentExpenses = append(out.RecentExpenses, ExpenseOutput{
			RecipientName: e.RecipientName,
			Amount:        e.Amount,
			Description:   e.Description,
		})
	}

	return toolSuccess(tool, out), nil
}

func budgetStatusLabel(percentageUsed, total, spent float64) string {
	switch {
	case total == 0 && spent == 0:
		return "no budget set"
	case total == 0:
		return "untracked"
	case spent > total:
		return "over budget"
	case percentageUsed >= 80:
		return "nearly exhausted"
	default:
		return "on track"
	}
}
