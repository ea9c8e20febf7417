package services

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// LeetcodeService fetches problem metadata from the public problem page.
// Pages behind bot protection come back empty or scripted; callers fall back
// to the URL slug in that case.
type LeetcodeService struct {
	client *http.Client
}

func NewLeetcodeService() *LeetcodeService {
	return &LeetcodeService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

var (
	titleTagRe   = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	difficultyRe = regexp.MustCompile(`(?i)text-difficulty-(easy|medium|hard)`)
)

func (s *LeetcodeService) Fetch(rawURL string) (*ProblemMetadata, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build problem page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch problem page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("problem page returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read problem page: %w", err)
	}
	page := string(body)

	title := extractTitle(page)
	if title == "" {
		return nil, fmt.Errorf("no title found on problem page")
	}

	meta := &ProblemMetadata{Title: title}
	if m := difficultyRe.FindStringSubmatch(page); m != nil {
		meta.Difficulty = strings.ToLower(m[1])
	}
	return meta, nil
}

func extractTitle(page string) string {
	m := titleTagRe.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(m[1])
	for _, suffix := range []string{" - LeetCode", " | LeetCode"} {
		title = strings.TrimSuffix(title, suffix)
	}
	title = strings.TrimSpace(title)
	// Bot-check interstitials have titles like "Just a moment...".
	if title == "" || strings.Contains(strings.ToLower(title), "just a moment") {
		return ""
	}
	return title
}
