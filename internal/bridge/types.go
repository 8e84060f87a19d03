package bridge

import "strings"

// Operation names exposed by the host process.
const (
	OpSearchPapers           = "search_papers"
	OpGenerateVisualizations = "generate_visualizations"
	OpExportData             = "export_data"
	OpGetPaperStatistics     = "get_paper_statistics"
	OpGetAppInfo             = "get_app_info"
	OpOpenFile               = "open_file"
	OpOpenFileManager        = "open_file_manager"
)

// Sources accepted by search_papers.
var Sources = []string{"all", "crossref", "arxiv", "scholar"}

// SearchTypes narrows which paper fields the query is matched against.
var SearchTypes = []string{"all", "title", "author", "journal", "keywords"}

// ExportFormats lists the formats export_data understands.
var ExportFormats = []string{"csv", "excel", "json", "pdf"}

// Paper is one search hit. Values are never mutated after they arrive.
type Paper struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Journal         string   `json:"journal,omitempty"`
	Citations       *int     `json:"citations,omitempty"`
	Source          string   `json:"source"`
	DOI             string   `json:"doi,omitempty"`
	URL             string   `json:"url,omitempty"`
}

// CitationCount treats a missing count as zero.
func (p Paper) CitationCount() int {
	if p.Citations == nil || *p.Citations < 0 {
		return 0
	}
	return *p.Citations
}

// AuthorLine lists the first three authors, adding "et al." when more exist.
func (p Paper) AuthorLine() string {
	if len(p.Authors) == 0 {
		return ""
	}
	if len(p.Authors) <= 3 {
		return strings.Join(p.Authors, ", ")
	}
	return strings.Join(p.Authors[:3], ", ") + " et al."
}

// SearchRequest is the validated payload for search_papers.
type SearchRequest struct {
	Query      string `json:"query"`
	Source     string `json:"source"`
	SearchType string `json:"search_type"`
	MaxResults int    `json:"max_results"`
	FromYear   *int   `json:"from_year"`
}

// SearchResult is the success payload of search_papers.
type SearchResult struct {
	Papers []Paper `json:"papers"`
	Count  int     `json:"count"`
}

// VisualizationBundle maps a chart slot key to a raw HTML fragment. A
// missing key means the host produced nothing for that slot.
type VisualizationBundle map[string]string

// VisualizationResult is the success payload of generate_visualizations.
type VisualizationResult struct {
	Visualizations VisualizationBundle `json:"visualizations"`
}

// ExportResult is the success payload of export_data.
type ExportResult struct {
	Filepath string `json:"filepath"`
}

// TopAuthor is one row of the statistics ranking.
type TopAuthor struct {
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation,omitempty"`
	PaperCount  int      `json:"paper_count"`
	Papers      []string `json:"papers"`
}

// Statistics is the success payload of get_paper_statistics.
type Statistics struct {
	TotalPapers  int         `json:"total_papers"`
	TotalAuthors int         `json:"total_authors"`
	YearRange    string      `json:"year_range"`
	DataSources  []string    `json:"data_sources"`
	TopAuthors   []TopAuthor `json:"top_authors"`
}

// AppInfo is the success payload of get_app_info.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Empty is the payload of calls that only report success or failure.
type Empty struct{}
