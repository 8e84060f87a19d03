package session

import (
	"fmt"
	"strings"

	"github.com/csheth/paperlens/internal/bridge"
)

// MaxListedPapers is how many titles are listed per top author.
const MaxListedPapers = 3

var rankBadges = []string{"🥇", "🥈", "🥉"}

// AuthorRow is one ranked entry of the top-authors list.
type AuthorRow struct {
	Rank        int
	Badge       string
	Name        string
	Affiliation string
	PaperCount  int
	Papers      []string
	More        int
}

// MoreLabel returns the "and N more" suffix, or "" when every title is listed.
func (r AuthorRow) MoreLabel() string {
	if r.More <= 0 {
		return ""
	}
	return fmt.Sprintf("and %d more", r.More)
}

// StatsView is the statistics summary shown on the export step.
type StatsView struct {
	TotalPapers  int
	TotalAuthors int
	YearRange    string
	DataSources  string
	TopAuthors   []AuthorRow
}

// BuildStats maps the bridge statistics onto display rows.
func BuildStats(s bridge.Statistics) StatsView {
	view := StatsView{
		TotalPapers:  s.TotalPapers,
		TotalAuthors: s.TotalAuthors,
		YearRange:    s.YearRange,
		DataSources:  strings.Join(s.DataSources, ", "),
	}
	if view.YearRange == "" {
		view.YearRange = "N/A"
	}
	if view.DataSources == "" {
		view.DataSources = "N/A"
	}
	for i, a := range s.TopAuthors {
		row := AuthorRow{
			Rank:        i + 1,
			Badge:       badgeFor(i + 1),
			Name:        a.Name,
			Affiliation: a.Affiliation,
			PaperCount:  a.PaperCount,
			Papers:      a.Papers,
		}
		if len(row.Papers) > MaxListedPapers {
			row.More = len(row.Papers) - MaxListedPapers
			row.Papers = row.Papers[:MaxListedPapers]
		}
		view.TopAuthors = append(view.TopAuthors, row)
	}
	return view
}

func badgeFor(rank int) string {
	if rank >= 1 && rank <= len(rankBadges) {
		return rankBadges[rank-1]
	}
	return fmt.Sprintf("#%d", rank)
}
