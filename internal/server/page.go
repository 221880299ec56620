package server

import (
	"html/template"
)

const pageTitle = "Stock Trading Strategy Simulation"

type pageStock struct {
	ID   string
	Name string
}

type pageCrossover struct {
	Date      string
	Title     string
	Direction string
	Value     string
	Message   string
}

type pageData struct {
	Title      string
	Stocks     []pageStock
	Stock      string
	Start      string
	End        string
	Running    bool
	Error      string
	Warnings   []string
	Chart      template.HTML
	Crossovers []pageCrossover
}

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
form { display: flex; gap: 1rem; align-items: end; flex-wrap: wrap; margin-bottom: 1rem; }
label { display: flex; flex-direction: column; font-size: 0.9rem; }
.error { color: #b00020; font-weight: bold; }
.warning { color: #8a6d00; }
table { border-collapse: collapse; margin-top: 1rem; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
.upward_cross { color: #2ca02c; }
.downward_cross { color: #d62728; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
<label>Enter the start date: <input type="date" name="start" value="{{.Start}}"></label>
<label>Enter the end date: <input type="date" name="end" value="{{.End}}"></label>
<label>Select a stock:
<select name="stock">
{{- range .Stocks}}
<option value="{{.ID}}"{{if eq .ID $.Stock}} selected{{end}}>{{.ID}}</option>
{{- end}}
</select>
</label>
<button type="submit">Run Strategy</button>
</form>
{{- if .Running}}
<p class="running">Running strategy on {{.Stock}} from {{.Start}} to {{.End}}...</p>
{{- end}}
{{- with .Error}}
<p class="error">{{.}}</p>
{{- end}}
{{- range .Warnings}}
<p class="warning">{{.}}</p>
{{- end}}
{{- if .Chart}}
<figure>{{.Chart}}</figure>
<table>
<thead><tr><th>Date</th><th>Crossover</th><th>Short SMA</th><th>Detail</th></tr></thead>
<tbody>
{{- range .Crossovers}}
<tr class="{{.Direction}}"><td>{{.Date}}</td><td>{{.Title}}</td><td>{{.Value}}</td><td>{{.Message}}</td></tr>
{{- else}}
<tr><td colspan="4">No crossovers in range</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
</body>
</html>
`))
