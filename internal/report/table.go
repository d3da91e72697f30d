// Package report renders warehouse query results into email-ready HTML.
package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// alertTemplate is a self-contained HTML document: inline styles only, since
// mail clients strip external stylesheets.
var alertTemplate = template.Must(template.New("alert").Parse(`<html>
<head>
<style>
  .container { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
  .header { background-color: #1a73e8; color: #ffffff; padding: 16px; border-radius: 4px 4px 0 0; }
  .header h2 { margin: 0; }
  .message { padding: 16px 0; color: #333333; }
  table { border-collapse: collapse; width: 100%; }
  th { background-color: #f2f2f2; text-align: left; padding: 8px; border: 1px solid #dddddd; }
  td { padding: 8px; border: 1px solid #dddddd; }
  tr:nth-child(even) { background-color: #f9f9f9; }
  .footer { padding: 16px 0; color: #888888; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h2>Snowflake Query Alert</h2></div>
  {{if .Message}}<div class="message">{{.Message}}</div>{{end}}
  <table>
    <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
  </table>
  <div class="footer">This alert was generated automatically by {{.Company}}.</div>
</div>
</body>
</html>
`))

type alertData struct {
	Message string
	Company string
	Columns []string
	Rows    [][]string
}

// RenderAlert formats query records as a styled HTML table. Columns come from
// the first record and are sorted so the layout is stable across runs; a
// missing key in a later record renders as an empty cell.
func RenderAlert(message, company string, records []map[string]any) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("render alert: no records")
	}

	columns := make([]string, 0, len(records[0]))
	for col := range records[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := record[col]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	err := alertTemplate.Execute(&b, alertData{
		Message: message,
		Company: company,
		Columns: columns,
		Rows:    rows,
	})
	if err != nil {
		return "", fmt.Errorf("render alert: %w", err)
	}
	return b.String(), nil
}
