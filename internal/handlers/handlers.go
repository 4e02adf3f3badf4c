package handlers

// Dashboard tab identifiers, used in the ?tab= query parameter.
const (
	TabSummary  = "summary"
	TabFields   = "fields"
	TabControls = "controls"
	TabRaw      = "raw"
)

// tabLink is one entry of the dashboard tab bar.
type tabLink struct {
	ID     string
	Label  string
	Active bool
}

var tabOrder = []tabLink{
	{ID: TabSummary, Label: "Resumen"},
	{ID: TabFields, Label: "Campos (metadata)"},
	{ID: TabControls, Label: "Controles"},
	{ID: TabRaw, Label: "JSON completo"},
}

// normalizeTab returns tab if it names a known tab, otherwise the summary.
func normalizeTab(tab string) string {
	for _, t := range tabOrder {
		if t.ID == tab {
			return tab
		}
	}
	return TabSummary
}

func tabLinks(active string) []tabLink {
	links := make([]tabLink, len(tabOrder))
	for i, t := range tabOrder {
		t.Active = t.ID == active
		links[i] = t
	}
	return links
}
