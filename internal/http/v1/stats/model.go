package stats

import (
	"github.com/danielgtaylor/huma/v2"

	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// Summary is the aggregated view of a user's repositories.
type Summary struct {
	RepositoryCount       int            `json:"repository_count"        doc:"Repositories counted"                              example:"3"`
	ForksCount            int            `json:"forks_count"             doc:"Total forks of the counted repositories"           example:"0"`
	StargazerCount        int            `json:"stargazer_count"         doc:"Total stars of the counted repositories"           example:"16"`
	AverageRepositorySize string         `json:"average_repository_size" doc:"Mean repository size scaled to KB, MB or GB"       example:"1.00 MB"`
	Languages             LanguageCounts `json:"languages"               doc:"Repositories per primary language, most used first"`
}

// LanguageCounts is an ordered language tally rendered as a JSON object.
type LanguageCounts struct {
	statssvc.Languages
}

// Schema describes the tally as an object of integer counts.
func (LanguageCounts) Schema(_ huma.Registry) *huma.Schema {
	minimum := 1.0
	return &huma.Schema{
		Type:        huma.TypeObject,
		Description: "Language name to repository count, ordered by descending count",
		AdditionalProperties: &huma.Schema{
			Type:    huma.TypeInteger,
			Minimum: &minimum,
		},
		Examples: []any{map[string]any{"Go": 2, "HTML": 1}},
	}
}

func toHTTPSummary(s *statssvc.Summary) Summary {
	return Summary{
		RepositoryCount:       s.RepositoryCount,
		ForksCount:            s.ForksCount,
		StargazerCount:        s.StargazerCount,
		AverageRepositorySize: s.AverageRepositorySize,
		Languages:             LanguageCounts{Languages: s.Languages},
	}
}
