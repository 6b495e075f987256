package server

import (
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// dashboardView is everything the page template needs.
type dashboardView struct {
	Tickers       []string
	AllowFreeText bool
	Form          formValues
	Error         string

	HasReport     bool
	NoData        bool
	Warning       string
	Ticker        string
	PeriodLabel   string
	PriceKnown    bool
	LastClose     string
	LastCloseAsOf string
	ChartKinds    []string
	Misses        []missView
}

type formValues struct {
	Ticker        string
	Decision      string
	Comments      string
	Author        string
	TargetRevenue string
	TargetEPS     string
	TargetMargin  string
	BuyLower      string
	BuyUpper      string
	HoldUpper     string
	SellUpper     string
}

type missView struct {
	Metric string
	Value  string
	Target string
}

// templateRenderer adapts html/template to echo's Renderer interface.
type templateRenderer struct {
	tmpl *template.Template
}

func (t *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}

func (s *Server) render(c echo.Context, view dashboardView) error {
	return c.Render(http.StatusOK, "dashboard", view)
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Stock Report Builder</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 72rem; color: #222; }
fieldset { border: 1px solid #ccc; margin-bottom: 1rem; }
label { display: inline-block; min-width: 9rem; margin: 0.2rem 0; }
input, select, textarea { margin: 0.2rem 0.8rem 0.2rem 0; }
.warning { background: #fff3cd; border: 1px solid #ffeeba; padding: 0.6rem; margin: 1rem 0; }
.error { background: #f8d7da; border: 1px solid #f5c6cb; padding: 0.6rem; margin: 1rem 0; }
.nodata { background: #e2e3e5; border: 1px solid #d6d8db; padding: 0.6rem; margin: 1rem 0; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.charts img { width: 100%; border: 1px solid #eee; }
.misses li { color: #a11; }
.exports a { margin-right: 1rem; }
</style>
</head>
<body>
<h1>Stock Report Builder</h1>

{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

<form method="get" action="/">
<fieldset>
<legend>Ticker</legend>
{{if .AllowFreeText}}
<label for="ticker">Ticker</label>
<input type="text" id="ticker" name="ticker" value="{{.Form.Ticker}}" placeholder="AAPL">
{{else}}
<label for="ticker">Ticker</label>
<select id="ticker" name="ticker">
{{range .Tickers}}<option value="{{.}}" {{if eq . $.Form.Ticker}}selected{{end}}>{{.}}</option>{{end}}
</select>
{{end}}
</fieldset>

<fieldset>
<legend>Targets (%)</legend>
<label for="target_revenue">Revenue YoY</label>
<input type="number" step="0.1" id="target_revenue" name="target_revenue" value="{{.Form.TargetRevenue}}">
<label for="target_eps">EPS YoY</label>
<input type="number" step="0.1" id="target_eps" name="target_eps" value="{{.Form.TargetEPS}}">
<label for="target_margin">Pre-tax margin</label>
<input type="number" step="0.1" id="target_margin" name="target_margin" value="{{.Form.TargetMargin}}">
</fieldset>

<fieldset>
<legend>Price ranges ($)</legend>
<label for="buy_lower">Buy from</label>
<input type="number" step="0.01" id="buy_lower" name="buy_lower" value="{{.Form.BuyLower}}">
<label for="buy_upper">Buy up to</label>
<input type="number" step="0.01" id="buy_upper" name="buy_upper" value="{{.Form.BuyUpper}}">
<br>
<label for="hold_upper">Hold up to</label>
<input type="number" step="0.01" id="hold_upper" name="hold_upper" value="{{.Form.HoldUpper}}">
<label for="sell_upper">Sell up to</label>
<input type="number" step="0.01" id="sell_upper" name="sell_upper" value="{{.Form.SellUpper}}">
</fieldset>

<fieldset>
<legend>Report</legend>
<label for="decision">Recommendation</label>
<select id="decision" name="decision">
<option value="Buy" {{if eq .Form.Decision "Buy"}}selected{{end}}>Buy</option>
<option value="Hold" {{if eq .Form.Decision "Hold"}}selected{{end}}>Hold</option>
<option value="Sell" {{if eq .Form.Decision "Sell"}}selected{{end}}>Sell</option>
</select>
<label for="author">Author</label>
<input type="text" id="author" name="author" value="{{.Form.Author}}">
<br>
<label for="comments">Comments</label>
<textarea id="comments" name="comments" rows="3" cols="60">{{.Form.Comments}}</textarea>
</fieldset>

<button type="submit">Build report</button>
</form>

{{if .HasReport}}
{{if .Warning}}<div class="warning">{{.Warning}}</div>{{end}}
{{if .NoData}}
<div class="nodata">No quarterly data found for {{.Ticker}}.</div>
{{else}}
<h2>{{.Ticker}} {{.PeriodLabel}}</h2>
{{if .PriceKnown}}<p>Last close: ${{.LastClose}} ({{.LastCloseAsOf}})</p>{{end}}

{{if .Misses}}
<h3>Below target</h3>
<ul class="misses">
{{range .Misses}}<li>{{.Metric}}: {{.Value}} (target {{.Target}}%)</li>{{end}}
</ul>
{{end}}

<div class="charts">
{{range .ChartKinds}}<img src="/chart/{{.}}" alt="{{.}} chart">{{end}}
</div>

<p class="exports">
<a href="/export/pptx">Download PPTX</a>
<a href="/export/pdf">Download PDF</a>
<a href="/export/csv">Download CSV</a>
</p>
{{end}}
{{end}}

</body>
</html>
`))
