package export

// Document is the renderer-agnostic payload shared by the slide deck
// and PDF exporters: report text fields plus the rendered chart PNGs in
// reading order (revenue YoY, EPS YoY, pre-tax margin, price bands).
type Document struct {
	Ticker      string
	PeriodLabel string
	Decision    string
	Comments    string
	Author      string
	Charts      [][]byte
}

// Title renders the report heading.
func (d Document) Title() string {
	return d.Ticker + " " + d.PeriodLabel + " Financial Report"
}
