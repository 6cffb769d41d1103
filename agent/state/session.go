package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionState is the per-session source-of-truth for gift planning:
// recipient profiles, tracked occasions, the shared budget, and a bounded
// chat history. All entities live only as long as the host process.
type SessionState struct {
	SessionID string `json:"session_id"`

	Recipients []*Recipient `json:"recipients,omitempty"` // insertion order
	Occasions  []*Occasion  `json:"occasions,omitempty"`  // insertion order
	Budget     Budget       `json:"budget"`

	History []ChatTurn `json:"history,omitempty"` // last maxHistoryTurns turns

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const maxHistoryTurns = 20

type Recipient struct {
	Name           string       `json:"name"`
	Age            int          `json:"age,omitempty"` // 0 = unknown
	Relationship   string       `json:"relationship,omitempty"`
	Interests      []string     `json:"interests,omitempty"`
	PreferredStyle string       `json:"preferred_style,omitempty"`
	MinBudget      float64      `json:"min_budget,omitempty"`
	MaxBudget      float64      `json:"max_budget,omitempty"`
	GiftHistory    []GiftRecord `json:"gift_history,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type GiftRecord struct {
	Description string    `json:"description"`
	Amount      float64   `json:"amount,omitempty"`
	Date        time.Time `json:"date,omitempty"`
}

type OccasionType string

const (
	OccasionBirthday    OccasionType = "birthday"
	OccasionAnniversary OccasionType = "anniversary"
	OccasionHoliday     OccasionType = "holiday"
	OccasionCustom      OccasionType = "custom"
)

type OccasionStatus string

const (
	OccasionUpcoming OccasionStatus = "upcoming"
	OccasionComplete OccasionStatus = "complete"
)

// Occasion references a recipient by name. The reference is non-owning: an
// occasion may name a recipient that has no stored profile.
type Occasion struct {
	ID                 string         `json:"id"`
	Status             OccasionStatus `json:"status"`
	RecipientName      string         `json:"recipient_name"`
	Type               OccasionType   `json:"type"`
	Month              int            `json:"month"`
	Day                int            `json:"day"`
	Year               int            `json:"year,omitempty"` // 0 = unspecified
	Recurring          bool           `json:"recurring"`
	ReminderDaysBefore int            `json:"reminder_days_before"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Budget tracks a single total with a per-recipient spend ledger. Overspend
// is advisory: expenses are always recorded, never blocked.
type Budget struct {
	Total    float64            `json:"total"`
	SpentBy  map[string]float64 `json:"spent_by,omitempty"` // recipient key -> cumulative
	Expenses []Expense          `json:"expenses,omitempty"` // insertion order
}

type Expense struct {
	RecipientName string    `json:"recipient_name"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description,omitempty"`
	At            time.Time `json:"at"`
}

type ChatTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Stats is the aggregate view behind the statistics tool and CLI menu.
type Stats struct {
	TotalRecipients   int     `json:"total_recipients"`
	TotalOccasions    int     `json:"total_occasions"`
	UpcomingOccasions int     `json:"upcoming_occasions"`
	TotalBudget       float64 `json:"total_budget"`
	TotalSpent        float64 `json:"total_spent"`
	Remaining         float64 `json:"remaining"`
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Budget:    Budget{SpentBy: make(map[string]float64, 4)},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// recipientKey is the case-insensitive identity of a recipient name.
func recipientKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindRecipient looks a recipient up by case-insensitive name.
func (s *SessionState) FindRecipient(name string) (*Recipient, bool) {
	key := recipientKey(name)
	if key == "" {
		return nil, false
	}
	for _, r := range s.Recipients {
		if recipientKey(r.Name) == key {
			return r, true
		}
	}
	return nil, false
}

// UpsertRecipient merges non-zero fields into an existing profile matched
// case-insensitively by name, or appends a new one. It never duplicates.
func (s *SessionState) UpsertRecipient(in Recipient, now time.Time) (*Recipient, bool) {
	if existing, ok := s.FindRecipient(in.Name); ok {
		if in.Age > 0 {
			existing.Age = in.Age
		}
		if in.Relationship != "" {
			existing.Relationship = in.Relationship
		}
		if len(in.Interests) > 0 {
			existing.Interests = in.Interests
		}
		if in.PreferredStyle != "" {
			existing.PreferredStyle = in.PreferredStyle
		}
		if in.MinBudget > 0 || in.MaxBudget > 0 {
			existing.MinBudget = in.MinBudget
			existing.MaxBudget = in.MaxBudget
		}
		existing.UpdatedAt = now.UTC()
		s.Touch(now)
		return existing, false
	}

	r := in
	r.Name = strings.TrimSpace(in.Name)
	r.CreatedAt = now.UTC()
	r.UpdatedAt = now.UTC()
	s.Recipients = append(s.Recipients, &r)
	s.Touch(now)
	return &r, true
}

// AddOccasion appends an occasion, assigning its id and upcoming status.
// The recipient reference is not checked here; the tool layer decides the
// warn-and-store policy.
func (s *SessionState) AddOccasion(o Occasion, now time.Time) *Occasion {
	o.ID = uuid.NewString()
	o.Status = OccasionUpcoming
	o.CreatedAt = now.UTC()
	s.Occasions = append(s.Occasions, &o)
	s.Touch(now)
	return s.Occasions[len(s.Occasions)-1]
}

// FindOccasion looks an occasion up by id.
func (s *SessionState) FindOccasion(id string) (*Occasion, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for _, o := range s.Occasions {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// CompleteOccasion marks an occasion complete so it stops surfacing in
// upcoming views. Completed occasions stay in the session record.
func (s *SessionState) CompleteOccasion(id string, now time.Time) (*Occasion, bool) {
	o, ok := s.FindOccasion(id)
	if !ok {
		return nil, false
	}
	o.Status = OccasionComplete
	s.Touch(now)
	return o, true
}

// SetTotalBudget overwrites the total. It does not accumulate.
func (s *SessionState) SetTotalBudget(amount float64, now time.Time) {
	s.Budget.Total = amount
	s.Touch(now)
}

// RecordExpense appends to the ledger and bumps the per-recipient spend.
// The returned flag reports whether cumulative spend now exceeds the total;
// the expense is recorded either way. When a profile exists for the
// recipient, the purchase is also appended to its gift history.
func (s *SessionState) RecordExpense(recipientName string, amount float64, description string, now time.Time) bool {
	if s.Budget.SpentBy == nil {
		s.Budget.SpentBy = make(map[string]float64, 4)
	}
	key := recipientKey(recipientName)
	s.Budget.SpentBy[key] += amount
	s.Budget.Expenses = append(s.Budget.Expenses, Expense{
		RecipientName: strings.TrimSpace(recipientName),
		Amount:        amount,
		Description:   description,
		At:            now.UTC(),
	})

	if r, ok := s.FindRecipient(recipientName); ok {
		r.GiftHistory = append(r.GiftHistory, GiftRecord{
			Description: description,
			Amount:      amount,
			Date:        now.UTC(),
		})
		r.UpdatedAt = now.UTC()
	}

	s.Touch(now)
	return s.TotalSpent() > s.Budget.Total
}

// TotalSpent sums the per-recipient ledger.
func (s *SessionState) TotalSpent() float64 {
	var total float64
	for _, v := range s.Budget.SpentBy {
		total += v
	}
	return total
}

// SpentFor returns the cumulative spend for one recipient name.
func (s *SessionState) SpentFor(recipientName string) float64 {
	return s.Budget.SpentBy[recipientKey(recipientName)]
}

// RecipientDisplayName resolves a ledger key back to a display form: the
// stored profile name when one exists, otherwise the name as first recorded
// on an expense.
func (s *SessionState) RecipientDisplayName(key string) string {
	if r, ok := s.FindRecipient(key); ok {
		return r.Name
	}
	for _, e := range s.Budget.Expenses {
		if recipientKey(e.RecipientName) == key {
			return e.RecipientName
		}
	}
	return key
}

// RemainingFor is the advisory per-recipient headroom: the recipient's max
// budget when set, otherwise whatever is left of the shared total.
func (s *SessionState) RemainingFor(recipientName string) (float64, bool) {
	if r, ok := s.FindRecipient(recipientName); ok && r.MaxBudget > 0 {
		return r.MaxBudget - s.SpentFor(recipientName), true
	}
	if s.Budget.Total > 0 {
		return s.Budget.Total - s.TotalSpent(), true
	}
	return 0, false
}

// AppendTurn adds a chat turn and drops the oldest beyond the history bound.
func (s *SessionState) AppendTurn(role, content string, now time.Time) {
	s.History = append(s.History, ChatTurn{Role: role, Content: content})
	if len(s.History) > maxHistoryTurns {
		s.History = s.History[len(s.History)-maxHistoryTurns:]
	}
	s.Touch(now)
}

// StatsAt aggregates counters relative to today (upcoming window is 30 days).
func (s *SessionState) StatsAt(today time.Time, daysUntil func(o *Occasion) (int, bool)) Stats {
	upcoming := 0
	for _, o := range s.Occasions {
		if o.Status == OccasionComplete {
			continue
		}
		if d, ok := daysUntil(o); ok && d >= 0 && d <= 30 {
			upcoming++
		}
	}
	return Stats{
		TotalRecipients:   len(s.Recipients),
		TotalOccasions:    len(s.Occasions),
		UpcomingOccasions: upcoming,
		TotalBudget:       s.Budget.Total,
		TotalSpent:        s.TotalSpent(),
		Remaining:         s.Budget.Total - s.TotalSpent(),
	}
}

func (s *SessionState) Validate() error {
	for _, r := range s.Recipients {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("recipient with empty name")
		}
		if r.Age < 0 {
			return fmt.Errorf("recipient %s has negative age", r.Name)
		}
	}
	for _, o := range s.Occasions {
		if !ValidMonthDay(o.Month, o.Day) {
			return fmt.Errorf("occasion for %s has invalid date %d-%d", o.RecipientName, o.Month, o.Day)
		}
	}
	if s.Budget.Total < 0 {
		return fmt.Errorf("total budget is negative")
	}
	return nil
}

// ValidMonthDay reports whether month/day is a valid calendar pair.
// February 29 is accepted; recurring occurrences in non-leap years resolve
// to March 1 via time.Date normalization.
func ValidMonthDay(month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	switch time.Month(month) {
	case time.April, time.June, time.September, time.November:
		return day <= 30
	case time.February:
		return day <= 29
	default:
		return day <= 31
	}
}
