package tool

import (
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

func executeStatistics(st *statex.SessionState, tool string, now time.Time) (contractx.ToolResult, error) {
	stats := st.StatsAt(now, func(o *statex.Occasion) (int, bool) {
		days, err := DaysUntilEvent(now, o.Month, o.Day, o.Year, o.Recurring)
		if err != nil {
			return 0, false
		}
		return days, true
	})
	return toolSuccess(tool, stats), nil
}
