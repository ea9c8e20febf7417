package services

import (
	"fmt"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/cache"
	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
)

// StatsService answers the read-only dashboard queries. All date math is on
// UTC calendar days; invalid inputs are clamped by the controllers, never
// rejected here.
type StatsService struct {
	problems *repositories.ProblemRepository
}

func NewStatsService(problems *repositories.ProblemRepository) *StatsService {
	return &StatsService{problems: problems}
}

type PracticeStats struct {
	FullyPracticed     int `json:"fully_practiced"`     // practice_count >= 3
	PartiallyPracticed int `json:"partially_practiced"` // practice_count == 2
	SolvedOnce         int `json:"solved_once"`         // practice_count == 1
	NotPracticed       int `json:"not_practiced"`       // practice_count == 0
	PracticedToday     int `json:"practiced_today"`
	PracticedYesterday int `json:"practiced_yesterday"`
	Total              int `json:"total"`
}

// GetPracticeStats buckets problems by practice level and counts distinct
// problems with activity today and yesterday. A problem's signals
// (last_practiced, solved_date, history entries) are unioned per id, so one
// problem never counts twice for the same day.
func (s *StatsService) GetPracticeStats(userID uint, now time.Time) (*PracticeStats, error) {
	cacheKey := fmt.Sprintf("practice_stats:%d", userID)
	var cached PracticeStats
	if err := cache.Get(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	problems, err := s.problems.GetAllForUserWithHistory(userID)
	if err != nil {
		return nil, err
	}

	today := dayStartUTC(now)
	yesterday := today.AddDate(0, 0, -1)

	stats := &PracticeStats{Total: len(problems)}
	todaySet := make(map[uint]bool)
	yesterdaySet := make(map[uint]bool)

	for _, p := range problems {
		switch {
		case p.PracticeCount >= 3:
			stats.FullyPracticed++
		case p.PracticeCount == 2:
			stats.PartiallyPracticed++
		case p.PracticeCount == 1:
			stats.SolvedOnce++
		default:
			stats.NotPracticed++
		}

		if p.LastPracticed != nil {
			switch dayStartUTC(*p.LastPracticed) {
			case today:
				todaySet[p.ID] = true
			case yesterday:
				yesterdaySet[p.ID] = true
			}
		}

		switch dayStartUTC(p.SolvedDate) {
		case today:
			todaySet[p.ID] = true
		case yesterday:
			yesterdaySet[p.ID] = true
		}

		for _, entry := range p.History {
			switch dayStartUTC(entry.PracticedAt) {
			case today:
				todaySet[p.ID] = true
			case yesterday:
				yesterdaySet[p.ID] = true
			}
		}
	}

	stats.PracticedToday = len(todaySet)
	stats.PracticedYesterday = len(yesterdaySet)

	cache.Set(cacheKey, stats, 5*time.Minute)
	return stats, nil
}

type MonthlyPracticeData struct {
	Days   []int `json:"days"`
	Counts []int `json:"counts"`
	Year   int   `json:"year"`
	Month  int   `json:"month"`
}

// GetMonthlyPracticeData counts history entries per calendar day of the given
// month. Output length always equals the number of days in that month.
func (s *StatsService) GetMonthlyPracticeData(userID uint, year int, month time.Month) (*MonthlyPracticeData, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	numDays := daysInMonth(year, month)
	end := time.Date(year, month, numDays, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	entries, err := s.problems.GetHistoryInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	perDay := make(map[int]int)
	for _, e := range entries {
		perDay[e.PracticedAt.UTC().Day()]++
	}

	data := &MonthlyPracticeData{Year: year, Month: int(month)}
	for day := 1; day <= numDays; day++ {
		data.Days = append(data.Days, day)
		data.Counts = append(data.Counts, perDay[day])
	}
	return data, nil
}

type DifficultyStats struct {
	Period string `json:"period"`
	Easy   int    `json:"easy"`
	Medium int    `json:"medium"`
	Hard   int    `json:"hard"`
	Total  int    `json:"total"`
}

// GetDifficultyStats counts problems by difficulty whose solved_date falls in
// the selected period. Practice history does not affect the filter.
func (s *StatsService) GetDifficultyStats(userID uint, period string, now time.Time) (*DifficultyStats, error) {
	start, filtered := periodStart(period, now)

	var problems []models.Problem
	var err error
	if filtered {
		problems, err = s.problems.GetBySolvedDateRange(userID, start, farFuture)
	} else {
		problems, err = s.problems.GetAllForUser(userID)
	}
	if err != nil {
		return nil, err
	}

	stats := &DifficultyStats{Period: normalizePeriod(period)}
	for _, p := range problems {
		switch p.Difficulty {
		case "easy":
			stats.Easy++
		case "medium":
			stats.Medium++
		case "hard":
			stats.Hard++
		}
		stats.Total++
	}
	return stats, nil
}

type HeatmapData struct {
	Year       int            `json:"year"`
	Data       map[string]int `json:"data"` // ISO date -> activity count
	Total      int            `json:"total"`
	ActiveDays int            `json:"active_days"`
	MaxCount   int            `json:"max_count"`
}

// GetHeatmapData sums activity per day for a year: one for each problem
// solved that day plus one for every history entry that day.
func (s *StatsService) GetHeatmapData(userID uint, year int) (*HeatmapData, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	solved, err := s.problems.GetBySolvedDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	entries, err := s.problems.GetHistoryInRange(userID, start, end.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	data := make(map[string]int)
	for _, p := range solved {
		data[p.SolvedDate.UTC().Format("2006-01-02")]++
	}
	for _, e := range entries {
		data[e.PracticedAt.UTC().Format("2006-01-02")]++
	}

	out := &HeatmapData{Year: year, Data: data, Total: len(solved) + len(entries)}
	out.ActiveDays = len(data)
	for _, c := range data {
		if c > out.MaxCount {
			out.MaxCount = c
		}
	}
	return out, nil
}

var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// periodStart returns the UTC lower bound for a period selector. The second
// return is false for "lifetime" (and anything unrecognized), meaning no
// filter applies.
func periodStart(period string, now time.Time) (time.Time, bool) {
	today := dayStartUTC(now)
	switch period {
	case "today":
		return today, true
	case "week":
		// Most recent Monday.
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset), true
	case "month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case "year":
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

func normalizePeriod(period string) string {
	switch period {
	case "today", "week", "month", "year":
		return period
	default:
		return "lifetime"
	}
}

func daysInMonth(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
