package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	toolx "github.com/tanakrit-w/giftwise/agent/tool"
)

// menuSessionID is the single implicit session the menu operates on.
const menuSessionID = "cli-session"

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive gift planning menu",
	RunE:  runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	m := &menu{
		app: a,
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return m.run(cmd.Context())
}

type menu struct {
	app *app
	in  *bufio.Reader
	out io.Writer

	readErr error // sticky; set once stdin is exhausted or broken
}

func (m *menu) run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Gift Planning Assistant")

	for {
		m.printMenu()
		choice := m.readLine("Your choice (1-8): ")
		if choice == "" && m.readErr != nil {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}

		switch choice {
		case "1":
			m.addRecipient(ctx)
		case "2":
			m.addOccasion(ctx)
		case "3":
			m.giftSuggestions(ctx)
		case "4":
			m.budgetSummary(ctx)
		case "5":
			m.upcomingOccasions(ctx)
		case "6":
			m.chat(ctx)
		case "7":
			m.statistics(ctx)
		case "8":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please select 1-8.")
		}
	}
}

func (m *menu) printMenu() {
	fmt.Fprint(m.out, "\n"+strings.Repeat("=", 40)+"\n"+
		"  1. Add Recipient\n"+
		"  2. Add Occasion\n"+
		"  3. Get Gift Suggestions\n"+
		"  4. View Budget Summary\n"+
		"  5. View Upcoming Occasions\n"+
		"  6. Chat with Assistant\n"+
		"  7. View Statistics\n"+
		"  8. Exit\n"+
		strings.Repeat("-", 40)+"\n")
}

// runTool executes one domain tool against the implicit session, holding
// its lock only for the duration of the call.
func (m *menu) runTool(ctx context.Context, tool string, args map[string]any) {
	st, release, err := m.app.store.Acquire(menuSessionID)
	if err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
		return
	}
	defer release()

	executor := toolx.NewExecutor(st, toolx.Deps{
		Ideas:  m.app.agent,
		Search: m.app.search,
	})

	result, err := executor(ctx, tool, args)
	if err != nil {
		fmt.Fprintf(m.out, "error: %v\n", err)
		return
	}
	m.printResult(result)
}

func (m *menu) printResult(result contractx.ToolResult) {
	if result.Error != "" {
		fmt.Fprintf(m.out, "error: %s\n", result.Error)
		return
	}
	if result.Warning != "" {
		fmt.Fprintf(m.out, "warning: %s\n", result.Warning)
	}
	fmt.Fprintln(m.out, formatResult(result.Result))
}

func (m *menu) addRecipient(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Add New Recipient ---")

	name := m.readLine("Recipient name: ")
	if name == "" {
		fmt.Fprintln(m.out, "Name is required.")
		return
	}

	args := map[string]any{"name": name}
	if age, ok := m.readInt("Age (press Enter to skip): "); ok {
		args["age"] = float64(age)
	}
	if interests := m.readLine("Interests (comma-separated): "); interests != "" {
		var list []any
		for _, item := range strings.Split(interests, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		args["interests"] = list
	}
	if rel := m.readLine("Relationship (friend, family, ...): "); rel != "" {
		args["relationship"] = rel
	}
	if style := m.readLine("Gift style preference (practical, luxury, ...): "); style != "" {
		args["preferred_style"] = style
	}
	if min, ok := m.readFloat("Min budget (press Enter to skip): "); ok {
		args["min_budget"] = min
	}
	if max, ok := m.readFloat("Max budget (press Enter to skip): "); ok {
		args["max_budget"] = max
	}

	m.runTool(ctx, toolx.ToolAddRecipient, args)
}

func (m *menu) addOccasion(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Add New Occasion ---")

	args := map[string]any{}
	args["recipient_name"] = m.readLine("Recipient name: ")
	args["occasion_type"] = m.readLine("Occasion type (birthday, anniversary, holiday, custom): ")

	month, _ := m.readInt("Month (1-12): ")
	day, _ := m.readInt("Day: ")
	args["month"] = float64(month)
	args["day"] = float64(day)

	if year, ok := m.readInt("Year (press Enter for annual): "); ok {
		args["year"] = float64(year)
		args["recurring"] = false
	}
	if days, ok := m.readInt("Reminder days before (default 14): "); ok {
		args["reminder_days_before"] = float64(days)
	}

	m.runTool(ctx, toolx.ToolAddOccasion, args)
}

func (m *menu) giftSuggestions(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Get Gift Suggestions ---")

	request := m.readLine("Describe what kind of gift you're looking for: ")
	if request == "" {
		request = "gift ideas"
	}
	args := map[string]any{"request": request}
	if name := m.readLine("Recipient name (press Enter for general ideas): "); name != "" {
		args["recipient_name"] = name
	}
	if max, ok := m.readFloat("Max price (press Enter to skip): "); ok {
		args["max_price"] = max
	}

	fmt.Fprintln(m.out, "Searching for gift ideas...")
	m.runTool(ctx, toolx.ToolGenerateGiftIdeas, args)
}

func (m *menu) budgetSummary(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Budget Summary ---")
	m.runTool(ctx, toolx.ToolBudgetStatus, nil)

	if answer := m.readLine("Set a new total budget? (y/n): "); strings.EqualFold(answer, "y") {
		if amount, ok := m.readFloat("Total budget amount: "); ok {
			m.runTool(ctx, toolx.ToolSetBudget, map[string]any{"amount": amount})
		}
	}
}

func (m *menu) upcomingOccasions(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Upcoming Occasions ---")

	args := map[string]any{}
	if days, ok := m.readInt("Show occasions in next how many days? (default 30): "); ok {
		args["days_ahead"] = float64(days)
	}
	m.runTool(ctx, toolx.ToolListUpcoming, args)
}

func (m *menu) statistics(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Statistics ---")
	m.runTool(ctx, toolx.ToolPlanningStatistics, nil)
}

func (m *menu) chat(ctx context.Context) {
	fmt.Fprintln(m.out, "\n--- Chat Mode ---")
	fmt.Fprintln(m.out, "Type a message, or 'menu' to return.")

	for {
		text := m.readLine("You: ")
		if text == "" {
			if m.readErr != nil {
				return
			}
			continue
		}
		switch strings.ToLower(text) {
		case "menu", "exit", "quit", "back":
			return
		}

		reply, err := m.app.agent.HandleMessage(ctx, menuSessionID, text)
		if err != nil {
			fmt.Fprintf(m.out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(m.out, "Assistant: %s\n\n", reply)
	}
}

/* ------------------------------ input ----------------------------------- */

// readLine prompts and reads one line. A read error (stdin closed or
// exhausted) is recorded on m.readErr; the trailing partial line, if any, is
// still returned so a final un-terminated command is not dropped.
func (m *menu) readLine(prompt string) string {
	fmt.Fprint(m.out, prompt)
	line, err := m.in.ReadString('\n')
	if err != nil {
		m.readErr = err
	}
	return strings.TrimSpace(line)
}

func (m *menu) readInt(prompt string) (int, bool) {
	raw := m.readLine(prompt)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid number, skipping.")
		return 0, false
	}
	return v, true
}

func (m *menu) readFloat(prompt string) (float64, bool) {
	raw := m.readLine(prompt)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid amount, skipping.")
		return 0, false
	}
	return v, true
}

func formatResult(result any) string {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", result)
	}
	return string(payload)
}
