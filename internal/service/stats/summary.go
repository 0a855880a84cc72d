package stats

import (
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/janisto/repo-summary/internal/service/github"
)

// Summary aggregates a user's repositories.
type Summary struct {
	RepositoryCount       int       `json:"repository_count"`
	ForksCount            int       `json:"forks_count"`
	StargazerCount        int       `json:"stargazer_count"`
	AverageRepositorySize string    `json:"average_repository_size"`
	Languages             Languages `json:"languages"`
}

type tally struct {
	count     int
	forks     int
	stars     int
	sizes     []float64
	languages Languages
	index     map[string]int
}

func (t *tally) add(r github.Repo) {
	t.count++
	t.forks += r.Forks
	t.stars += r.Stars
	t.sizes = append(t.sizes, float64(r.Size))
	if r.Language == "" {
		return
	}
	if i, ok := t.index[r.Language]; ok {
		t.languages[i].Count++
		return
	}
	t.index[r.Language] = len(t.languages)
	t.languages = append(t.languages, LanguageCount{Name: r.Language, Count: 1})
}

// Reduce folds repos into a Summary. Repositories with a positive fork count are skipped
// unless includeForks is set.
func Reduce(repos []github.Repo, includeForks bool) Summary {
	t := &tally{index: make(map[string]int), languages: Languages{}}
	for _, r := range repos {
		if !includeForks && r.Forks > 0 {
			continue
		}
		t.add(r)
	}
	return t.finalize()
}

func (t *tally) finalize() Summary {
	// Stable: equal counts keep first-seen order.
	slices.SortStableFunc(t.languages, func(a, b LanguageCount) int {
		return b.Count - a.Count
	})
	return Summary{
		RepositoryCount:       t.count,
		ForksCount:            t.forks,
		StargazerCount:        t.stars,
		AverageRepositorySize: averageSize(t.sizes),
		Languages:             t.languages,
	}
}

func averageSize(sizes []float64) string {
	if len(sizes) == 0 {
		return "0 KB"
	}
	mean, err := stats.Mean(sizes)
	if err != nil {
		return "0 KB"
	}
	return FormatSize(mean)
}

// FormatSize renders a size in kilobytes with two decimals, scaled to MB or GB by powers of
// 1000.
func FormatSize(kb float64) string {
	switch {
	case kb >= 1_000_000:
		return fmt.Sprintf("%.2f GB", kb/1_000_000)
	case kb >= 1_000:
		return fmt.Sprintf("%.2f MB", kb/1_000)
	default:
		return fmt.Sprintf("%.2f KB", kb)
	}
}
