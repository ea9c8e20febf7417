package services

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
)

// PracticeIntervals are the spaced-repetition lookback offsets in days.
// A problem solved exactly N days before the reference date is due again.
var PracticeIntervals = []int{2, 5, 10, 30}

const (
	// RecentPracticeWindow is how far back from the current instant a
	// practice event still counts as "done today" on the dashboard.
	RecentPracticeWindow = 12 * time.Hour

	weekendRandomCount = 2
	randomCategory     = "Random Practice"
	seedDateLayout     = "01-02-2006"
)

type PracticeItem struct {
	Problem        models.Problem `json:"problem"`
	SolvedRecently bool           `json:"solved_recently"`
}

// PracticeGroup is one named schedule category. Groups keep the order in
// which they were first populated: interval order, weekend bonus last.
type PracticeGroup struct {
	Category string         `json:"category"`
	Items    []PracticeItem `json:"items"`
}

// PracticeEmailItem is the flat per-problem payload used in the daily email.
type PracticeEmailItem struct {
	Title       string `json:"title"`
	LeetcodeURL string `json:"leetcode_url"`
	Difficulty  string `json:"difficulty"`
}

// PracticeService implements the spaced-repetition schedule. The dashboard
// variant works on UTC calendar dates; the email variant works on the user's
// local calendar date. Both are deterministic for a fixed date and user.
type PracticeService struct {
	problems *repositories.ProblemRepository
}

func NewPracticeService(problems *repositories.ProblemRepository) *PracticeService {
	return &PracticeService{problems: problems}
}

// GetProblemsToPractice returns today's schedule grouped by category, for the
// UTC calendar date of now. No problem appears twice across categories.
func (s *PracticeService) GetProblemsToPractice(userID uint, now time.Time) ([]PracticeGroup, error) {
	today := dayStartUTC(now)

	groups := make([]PracticeGroup, 0, len(PracticeIntervals)+1)
	index := make(map[string]int)
	seen := make(map[uint]bool)

	appendItem := func(category string, p models.Problem) {
		i, ok := index[category]
		if !ok {
			groups = append(groups, PracticeGroup{Category: category})
			i = len(groups) - 1
			index[category] = i
		}
		groups[i].Items = append(groups[i].Items, PracticeItem{
			Problem:        p,
			SolvedRecently: solvedRecently(p, now),
		})
	}

	for _, daysAgo := range PracticeIntervals {
		target := today.AddDate(0, 0, -daysAgo)
		due, err := s.problems.GetBySolvedDateRange(userID, target, target.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		category := fmt.Sprintf("Solved %d days ago", daysAgo)
		for _, p := range due {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			appendItem(category, p)
		}
	}

	if isWeekend(today) {
		picks, err := s.weekendPicks(userID, seen, today.Format(seedDateLayout))
		if err != nil {
			return nil, err
		}
		for _, p := range picks {
			seen[p.ID] = true
			appendItem(randomCategory, p)
		}
	}

	return groups, nil
}

// GetPracticeItemsForEmail builds the schedule on the user's local calendar
// date. The weekend seed also mixes in the user id so two users get
// independent but reproducible picks on the same day.
func (s *PracticeService) GetPracticeItemsForEmail(user *models.User, utcNow time.Time) ([]PracticeEmailItem, error) {
	loc := UserLocation(user.Timezone)
	localToday := dayStartIn(utcNow, loc)

	var items []PracticeEmailItem
	seen := make(map[uint]bool)

	for _, daysAgo := range PracticeIntervals {
		targetLocal := localToday.AddDate(0, 0, -daysAgo)
		startUTC := targetLocal.UTC()
		endUTC := targetLocal.AddDate(0, 0, 1).UTC()

		due, err := s.problems.GetBySolvedDateRange(user.ID, startUTC, endUTC)
		if err != nil {
			return nil, err
		}
		for _, p := range due {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			items = append(items, emailItem(p))
		}
	}

	if isWeekend(localToday) {
		seed := fmt.Sprintf("%d-%s", user.ID, localToday.Format(seedDateLayout))
		picks, err := s.weekendPicks(user.ID, seen, seed)
		if err != nil {
			return nil, err
		}
		for _, p := range picks {
			seen[p.ID] = true
			items = append(items, emailItem(p))
		}
	}

	return items, nil
}

// weekendPicks shuffles the user's not-yet-scheduled problems with a seed
// derived only from the given string and takes at most two.
func (s *PracticeService) weekendPicks(userID uint, seen map[uint]bool, seed string) ([]models.Problem, error) {
	exclude := make([]uint, 0, len(seen))
	for id := range seen {
		exclude = append(exclude, id)
	}

	remaining, err := s.problems.GetExcludingIDs(userID, exclude)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return nil, nil
	}

	// Query order is driver-dependent; sort by id before shuffling so the
	// seeded permutation is reproducible across calls.
	for i := 1; i < len(remaining); i++ {
		for j := i; j > 0 && remaining[j-1].ID > remaining[j].ID; j-- {
			remaining[j-1], remaining[j] = remaining[j], remaining[j-1]
		}
	}

	rng := seededRand(seed)
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	n := weekendRandomCount
	if len(remaining) < n {
		n = len(remaining)
	}
	return remaining[:n], nil
}

func emailItem(p models.Problem) PracticeEmailItem {
	return PracticeEmailItem{
		Title:       p.Title,
		LeetcodeURL: p.LeetcodeURL,
		Difficulty:  p.Difficulty,
	}
}

func solvedRecently(p models.Problem, now time.Time) bool {
	cutoff := now.Add(-RecentPracticeWindow)
	if p.LastPracticed != nil {
		return !p.LastPracticed.Before(cutoff)
	}
	return !p.SolvedDate.Before(cutoff)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// seededRand builds a generator local to the call, seeded only from the key
// string, so repeated calls on the same date select the same problems.
func seededRand(key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// UserLocation resolves an IANA zone name, falling back to UTC on anything
// unknown or empty.
func UserLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func dayStartUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dayStartIn(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}
