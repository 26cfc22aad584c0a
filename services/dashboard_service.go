package services

import (
	"math"
	"sort"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/models"
)

// NutrientTotals holds display-rounded values for the four tracked metrics.
type NutrientTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

type DailySummary struct {
	Date      string             `json:"date"`
	Consumed  NutrientTotals     `json:"consumed"`
	Remaining NutrientTotals     `json:"remaining"`
	Entries   []models.FoodEntry `json:"entries"` // newest first
}

// DashboardService recomputes "today" from the ledger on every call; there
// is no cached running total to fall out of sync.
type DashboardService struct {
	entries *EntryService
}

func NewDashboardService(entries *EntryService) *DashboardService {
	return &DashboardService{entries: entries}
}

// DailySummary aggregates one local calendar day of the user's ledger
// against their goals.
func (s *DashboardService) DailySummary(userID uint, day time.Time, goals models.NutritionGoals) (*DailySummary, error) {
	entries, err := s.entries.ListRange(userID, dayStart(day), dayEnd(day))
	if err != nil {
		return nil, err
	}
	return buildDailySummary(day, goals, entries), nil
}

// buildDailySummary is the pure aggregation step: order-independent sums,
// remaining floored at zero (overage is not flagged at this layer).
func buildDailySummary(day time.Time, goals models.NutritionGoals, entries []models.FoodEntry) *DailySummary {
	var cals, protein, carbs, fat float64
	for _, e := range entries {
		cals += e.TotalCalories
		protein += e.ProteinG
		carbs += e.CarbsG
		fat += e.FatG
	}

	// store order is not guaranteed; newest first for presentation
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})

	consumed := NutrientTotals{
		Calories: roundInt(cals),
		Protein:  roundInt(protein),
		Carbs:    roundInt(carbs),
		Fat:      roundInt(fat),
	}
	return &DailySummary{
		Date:     day.Format("2006-01-02"),
		Consumed: consumed,
		Remaining: NutrientTotals{
			Calories: remaining(goals.DailyCalorieGoal, consumed.Calories),
			Protein:  remaining(goals.DailyProteinGoal, consumed.Protein),
			Carbs:    remaining(goals.DailyCarbGoal, consumed.Carbs),
			Fat:      remaining(goals.DailyFatGoal, consumed.Fat),
		},
		Entries: entries,
	}
}

func remaining(goal, consumed int) int {
	if r := goal - consumed; r > 0 {
		return r
	}
	return 0
}

func roundInt(v float64) int { return int(math.Round(v)) }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
