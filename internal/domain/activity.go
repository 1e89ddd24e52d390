package domain

import "time"

const activityDateLayout = "2006-01-02"

// ActivityDay is one cell of the review activity graph.
type ActivityDay struct {
	Date    string `json:"date"`
	Reviews int    `json:"reviews"`
	Level   int    `json:"level"`
}

// ActivityLevel buckets a daily review count into the graph's five levels.
func ActivityLevel(reviews int) int {
	switch {
	case reviews <= 0:
		return 0
	case reviews <= 5:
		return 1
	case reviews <= 10:
		return 2
	case reviews <= 15:
		return 3
	default:
		return 4
	}
}

// BuildActivity counts each card's last review per calendar day in loc and
// returns one entry per day from a year before now up to and including today.
func BuildActivity(cards []*Card, now time.Time, loc *time.Location) []ActivityDay {
	if loc == nil {
		loc = time.UTC
	}

	counts := make(map[string]int)
	for _, c := range cards {
		if c.Stats.LastReview == nil {
			continue
		}
		counts[c.Stats.LastReview.In(loc).Format(activityDateLayout)]++
	}

	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	start := today.AddDate(-1, 0, 0)

	days := make([]ActivityDay, 0, 367)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format(activityDateLayout)
		days = append(days, ActivityDay{
			Date:    key,
			Reviews: counts[key],
			Level:   ActivityLevel(counts[key]),
		})
	}
	return days
}
