package display

import (
	"html/template"
	"io"
)

const documentSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>TODOs: {{.Query}}</title>
<style>
body { font-family: sans-serif; margin: 1.5em; }
h2 { font-size: 1em; font-family: monospace; margin-bottom: 0.2em; }
ul { list-style: none; padding-left: 1em; margin-top: 0; }
.heading { font-weight: bold; }
.status { color: #666; font-style: italic; }
.warning { color: #b60; }
.error { color: #c00; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Query}}</h1>
{{- range .Warnings}}
<p class="warning">{{.}}</p>
{{- end}}
{{- if .Error}}
<p class="error">{{.Status}}: {{.Error}}</p>
{{- else}}
{{- range .Groups}}
<h2>{{.DisplayPath}}</h2>
<ul>
{{- range .Matches}}
<li data-target="{{.Target}}"><span class="heading">{{.Heading}}</span> <span class="line">line {{line .}}</span>: {{.Message}}</li>
{{- end}}
</ul>
{{- end}}
<p class="status">{{.Status}}</p>
{{- end}}
</body>
</html>
`

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"line": func(m ReportMatch) int { return m.Position.Row + 1 },
}).Parse(documentSource))

// renderHTML writes a standalone document listing every group. Each match
// carries its navigation target in data-target.
func renderHTML(w io.Writer, rep Report) error {
	return documentTemplate.Execute(w, rep)
}
