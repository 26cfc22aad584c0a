package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/models"
)

// SupportedPeriods are the only trailing-window lengths the product exposes.
var SupportedPeriods = map[int]bool{7: true, 30: true}

type DayBreakdown struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Calories   int    `json:"calories"`
	Protein    int    `json:"protein"`
	Carbs      int    `json:"carbs"`
	Fat        int    `json:"fat"`
	EntryCount int    `json:"entry_count"`
}

type PeriodSummary struct {
	PeriodDays           int                `json:"period_days"`
	TotalDaysWithEntries int                `json:"total_days_with_entries"`
	DailyAverages        NutrientTotals     `json:"daily_averages"`
	Adherence            map[string]string  `json:"adherence"`
	PerDayBreakdown      []DayBreakdown     `json:"per_day_breakdown"` // ascending by date, for charting
	Entries              []models.FoodEntry `json:"entries"`
}

// AnalyticsService computes trailing-window averages and goal adherence.
// Like the dashboard, every call is a fresh read-then-compute pass over the
// ledger.
type AnalyticsService struct {
	entries *EntryService
}

func NewAnalyticsService(entries *EntryService) *AnalyticsService {
	return &AnalyticsService{entries: entries}
}

// PeriodSummary aggregates the trailing window ending at end (defaulting to
// now when zero). periodDays must be one of SupportedPeriods.
func (s *AnalyticsService) PeriodSummary(userID uint, periodDays int, end time.Time, goals models.NutritionGoals) (*PeriodSummary, error) {
	if !SupportedPeriods[periodDays] {
		return nil, fmt.Errorf("unsupported period: %d days", periodDays)
	}
	if end.IsZero() {
		end = time.Now()
	}

	// [end-(periodDays-1) days at 00:00:00, end at 23:59:59]
	from := dayStart(end.AddDate(0, 0, -(periodDays - 1)))
	entries, err := s.entries.ListRange(userID, from, dayEnd(end))
	if err != nil {
		return nil, err
	}
	return buildPeriodSummary(periodDays, goals, entries), nil
}

type dayAccumulator struct {
	calories, protein, carbs, fat float64
	entryCount                    int
}

// buildPeriodSummary groups entries by local calendar date; the date-key
// space, not raw timestamps, defines a "day with entries". Averages divide by
// the count of distinct day-groups, never by the window length.
func buildPeriodSummary(periodDays int, goals models.NutritionGoals, entries []models.FoodEntry) *PeriodSummary {
	groups := map[string]*dayAccumulator{}
	for _, e := range entries {
		key := e.LoggedAt.Format("2006-01-02")
		g := groups[key]
		if g == nil {
			g = &dayAccumulator{}
			groups[key] = g
		}
		g.calories += e.TotalCalories
		g.protein += e.ProteinG
		g.carbs += e.CarbsG
		g.fat += e.FatG
		g.entryCount++
	}

	out := &PeriodSummary{
		PeriodDays:           periodDays,
		TotalDaysWithEntries: len(groups),
		PerDayBreakdown:      make([]DayBreakdown, 0, len(groups)),
	}

	dates := make([]string, 0, len(groups))
	for key := range groups {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	var totalCals, totalProtein, totalCarbs, totalFat float64
	for _, key := range dates {
		g := groups[key]
		totalCals += g.calories
		totalProtein += g.protein
		totalCarbs += g.carbs
		totalFat += g.fat
		out.PerDayBreakdown = append(out.PerDayBreakdown, DayBreakdown{
			Date:       key,
			Calories:   roundInt(g.calories),
			Protein:    roundInt(g.protein),
			Carbs:      roundInt(g.carbs),
			Fat:        roundInt(g.fat),
			EntryCount: g.entryCount,
		})
	}

	if n := len(groups); n > 0 {
		out.DailyAverages = NutrientTotals{
			Calories: roundInt(totalCals / float64(n)),
			Protein:  roundInt(totalProtein / float64(n)),
			Carbs:    roundInt(totalCarbs / float64(n)),
			Fat:      roundInt(totalFat / float64(n)),
		}
	}

	out.Adherence = map[string]string{
		"calories": classifyAdherence(out.DailyAverages.Calories, goals.DailyCalorieGoal),
		"protein":  classifyAdherence(out.DailyAverages.Protein, goals.DailyProteinGoal),
		"carbs":    classifyAdherence(out.DailyAverages.Carbs, goals.DailyCarbGoal),
		"fat":      classifyAdherence(out.DailyAverages.Fat, goals.DailyFatGoal),
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.Before(entries[j].LoggedAt)
	})
	out.Entries = entries

	return out
}

// classifyAdherence is a three-way classification, not a continuous score:
// within 10% of the goal is "Good", otherwise the side of the goal decides.
func classifyAdherence(average, goal int) string {
	if goal == 0 {
		return "N/A (goal not set)"
	}
	diff := math.Abs(float64(average-goal)) / float64(goal)
	if diff <= 0.10 {
		return fmt.Sprintf("Good (%.0f%% close)", 100-diff*100)
	}
	if average < goal {
		return "Below Target"
	}
	return "Above Target"
}
