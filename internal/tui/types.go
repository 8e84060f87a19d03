package tui

import (
	"time"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/gateway"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

type statusLine struct {
	kind statusKind
	text string
	seq  int
}

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayAbout
	overlayHistory
)

type formField int

const (
	fieldQuery formField = iota
	fieldSource
	fieldSearchType
	fieldMaxResults
	fieldFromYear
	fieldCount
)

var fieldLabels = map[formField]string{
	fieldQuery:      "Keywords",
	fieldSource:     "Source",
	fieldSearchType: "Search in",
	fieldMaxResults: "Max results",
	fieldFromYear:   "From year",
}

const heroTagline = "Search, chart and export the literature in three steps."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	abstractPreviewLimit      = 300
	loadingDelay              = 500 * time.Millisecond
)

type searchResultMsg struct {
	req     bridge.SearchRequest
	outcome bridge.Outcome[bridge.SearchResult]
}

// generation on result messages is the paper set the call was made for.
type vizResultMsg struct {
	generation int
	outcome    bridge.Outcome[bridge.VisualizationResult]
}

type dashboardWrittenMsg struct {
	generation int
	path       string
	err        error
}

type exportResultMsg struct {
	format  string
	outcome bridge.Outcome[bridge.ExportResult]
}

type statsResultMsg struct {
	generation int
	outcome    bridge.Outcome[bridge.Statistics]
}

type appInfoMsg struct {
	outcome bridge.Outcome[bridge.AppInfo]
}

type fileActionMsg struct {
	control gateway.Control
	path    string
	outcome bridge.Outcome[bridge.Empty]
}

type readyMsg struct{}

type statusExpiredMsg struct {
	seq int
}
