package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/cache"
	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrInvalidURL      = errors.New("could not determine problem details from URL")
)

// ProblemMetadata is what the external fetcher extracts from a problem page.
type ProblemMetadata struct {
	Title      string
	Difficulty string
}

// MetadataFetcher pulls title/difficulty for a problem URL. Best-effort: a
// failure falls back to deriving both from the URL slug.
type MetadataFetcher interface {
	Fetch(rawURL string) (*ProblemMetadata, error)
}

type ProblemService struct {
	problems *repositories.ProblemRepository
	goals    *DailyGoalService
	fetcher  MetadataFetcher
	logger   *zap.Logger
}

func NewProblemService(
	problems *repositories.ProblemRepository,
	goals *DailyGoalService,
	fetcher MetadataFetcher,
	logger *zap.Logger,
) *ProblemService {
	return &ProblemService{problems: problems, goals: goals, fetcher: fetcher, logger: logger}
}

// AddProblem registers a solved problem. Re-adding a URL the user already
// tracks collapses into a history append instead of a new row.
func (s *ProblemService) AddProblem(userID uint, rawURL, formDifficulty string, now time.Time) (*models.Problem, string, error) {
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if rawURL == "" {
		return nil, "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	existing, err := s.problems.GetByURL(userID, rawURL)
	if err == nil {
		if err := s.problems.AddHistoryEntry(existing, now); err != nil {
			return nil, "", err
		}
		s.invalidateStats(userID)
		return existing, "Problem already exists. Added to history!", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	meta := s.resolveMetadata(rawURL, formDifficulty)
	if meta == nil {
		return nil, "", ErrInvalidURL
	}

	difficulty := normalizeDifficulty(formDifficulty)
	if difficulty == "" {
		difficulty = normalizeDifficulty(meta.Difficulty)
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	problem := &models.Problem{
		UserID:        userID,
		Title:         meta.Title,
		LeetcodeURL:   rawURL,
		Difficulty:    difficulty,
		SolvedDate:    now,
		LastPracticed: &now,
	}
	if err := s.problems.Create(problem); err != nil {
		return nil, "", err
	}
	s.invalidateStats(userID)
	return problem, "Problem added successfully!", nil
}

// MarkDone records one completion event and then recomputes today's goal.
// The recompute is best-effort: its failure never undoes the practice write.
func (s *ProblemService) MarkDone(userID, problemID uint, now time.Time) (*models.Problem, error) {
	problem, err := s.problems.GetByID(userID, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	if err := s.problems.MarkPracticed(problem, now); err != nil {
		return nil, err
	}
	s.invalidateStats(userID)

	if _, err := s.goals.Recompute(userID, now); err != nil {
		s.logger.Warn("daily_goal_recompute_failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}

	return problem, nil
}

func (s *ProblemService) DeleteProblem(userID, problemID uint) error {
	problem, err := s.problems.GetByID(userID, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProblemNotFound
		}
		return err
	}
	if err := s.problems.Delete(problem); err != nil {
		return err
	}
	s.invalidateStats(userID)
	return nil
}

type HistoryEntryView struct {
	PracticedAt string `json:"practiced_at"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type ProblemHistoryView struct {
	Title         string             `json:"title"`
	CreatedAt     string             `json:"created_at"`
	PracticeCount int                `json:"practice_count"`
	TotalSessions int                `json:"total_sessions"`
	History       []HistoryEntryView `json:"history"`
}

// GetProblemHistory returns the descending practice log for display.
func (s *ProblemService) GetProblemHistory(userID, problemID uint) (*ProblemHistoryView, error) {
	problem, err := s.problems.GetByID(userID, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}

	entries, err := s.problems.GetHistoryForProblem(problem.ID)
	if err != nil {
		return nil, err
	}

	view := &ProblemHistoryView{
		Title:         problem.Title,
		CreatedAt:     problem.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		PracticeCount: problem.PracticeCount,
		TotalSessions: len(entries),
		History:       make([]HistoryEntryView, 0, len(entries)),
	}
	for _, e := range entries {
		at := e.PracticedAt.UTC()
		view.History = append(view.History, HistoryEntryView{
			PracticedAt: at.Format("2006-01-02 15:04:05"),
			Date:        at.Format("2006-01-02"),
			Time:        at.Format("15:04:05"),
		})
	}
	return view, nil
}

func (s *ProblemService) ListProblems(userID uint, page int, search string, now time.Time) ([]PracticeItem, int64, error) {
	problems, total, err := s.problems.GetPaginated(userID, page, 10, search)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PracticeItem, 0, len(problems))
	for _, p := range problems {
		items = append(items, PracticeItem{Problem: p, SolvedRecently: solvedRecently(p, now)})
	}
	return items, total, nil
}

// resolveMetadata tries the external fetcher first and falls back to the URL
// slug, so an unreachable site never blocks adding a problem.
func (s *ProblemService) resolveMetadata(rawURL, formDifficulty string) *ProblemMetadata {
	if s.fetcher != nil {
		meta, err := s.fetcher.Fetch(rawURL)
		if err == nil && meta != nil && meta.Title != "" {
			return meta
		}
		if err != nil {
			s.logger.Warn("metadata_fetch_failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return metadataFromSlug(rawURL, formDifficulty)
}

// metadataFromSlug derives a title from the /problems/<slug>/ path segment,
// e.g. "two-sum" becomes "Two Sum".
func metadataFromSlug(rawURL, formDifficulty string) *ProblemMetadata {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, part := range parts {
		if part != "problems" || i+1 >= len(parts) {
			continue
		}
		slug := parts[i+1]
		if slug == "" {
			return nil
		}
		words := strings.Split(slug, "-")
		for j, w := range words {
			if w != "" {
				words[j] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		difficulty := normalizeDifficulty(formDifficulty)
		if difficulty == "" {
			difficulty = "medium"
		}
		return &ProblemMetadata{Title: strings.Join(words, " "), Difficulty: difficulty}
	}
	return nil
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy":
		return "easy"
	case "medium":
		return "medium"
	case "hard":
		return "hard"
	default:
		return ""
	}
}

func (s *ProblemService) invalidateStats(userID uint) {
	cache.Delete(fmt.Sprintf("practice_stats:%d", userID))
}
