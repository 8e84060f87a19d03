// Package viz renders chart fragments returned by the bridge into a page.
//
// Every fragment is markup plus embedded script. Rendering happens in two
// phases: all markup is inserted first, then each slot's scripts run in
// source order. Slots fail independently.
package viz

// Slot keys as sent by the bridge.
const (
	SlotWordcloud = "wordcloud"
	SlotNetwork   = "network"
	SlotYears     = "years"
	SlotCitations = "citations"
	SlotTimeline  = "timeline"
	SlotSources   = "sources"
)

// SlotSpec binds a bundle key to the container that displays it.
type SlotSpec struct {
	Slot        string
	ContainerID string
	Title       string
	Fallback    string
}

// ClassicSlots is the five-chart layout.
var ClassicSlots = []SlotSpec{
	{Slot: SlotNetwork, ContainerID: "network-viz", Title: "Keyword Network", Fallback: "Keyword network not available"},
	{Slot: SlotYears, ContainerID: "years-viz", Title: "Publications by Year", Fallback: "No year data available"},
	{Slot: SlotCitations, ContainerID: "citations-viz", Title: "Citation Distribution", Fallback: "No citation data available"},
	{Slot: SlotTimeline, ContainerID: "timeline-viz", Title: "Research Timeline", Fallback: "No timeline data available"},
	{Slot: SlotSources, ContainerID: "sources-viz", Title: "Data Sources", Fallback: "No source data available"},
}

// DefaultSlots adds the word cloud ahead of the classic layout.
var DefaultSlots = append([]SlotSpec{
	{Slot: SlotWordcloud, ContainerID: "wordcloud-viz", Title: "Keyword Cloud", Fallback: "Word cloud not available"},
}, ClassicSlots...)

// SlotByKey finds the spec for a bundle key.
func SlotByKey(specs []SlotSpec, key string) (SlotSpec, bool) {
	for _, s := range specs {
		if s.Slot == key {
			return s, true
		}
	}
	return SlotSpec{}, false
}
