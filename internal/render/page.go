package render

import (
	"context"
	"io"
	"strings"

	"dogmeet/internal/models"

	"github.com/a-h/templ"
)

type PageOptions struct {
	// EscapeHTML escapes cell values. Off means values are written as-is,
	// so a cell containing markup becomes markup in the page.
	EscapeHTML bool
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Pending Appointments</title>
  <link rel="stylesheet" href="/styles.css">
</head>
<body class="admin">
  <h1>Pending Appointments</h1>
  <table>
    <thead>
      <tr>
`

const pageFoot = `</tbody>
  </table>
  <p><a href="/index.html">Back to schedule form</a></p>
</body>
</html>`

// AppointmentsPage renders rows as an HTML table, one <tr> per row with
// exactly models.RowWidth cells.
func AppointmentsPage(rows [][]string, opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(pageHead)
		for _, h := range models.AppointmentColumns {
			b.WriteString("        <th>")
			b.WriteString(h)
			b.WriteString("</th>\n")
		}
		b.WriteString("      </tr>\n    </thead>\n    <tbody>")

		for _, row := range rows {
			b.WriteString("<tr>")
			for _, cell := range models.PadRow(row) {
				b.WriteString("<td>")
				b.WriteString(cellValue(cell, opts))
				b.WriteString("</td>")
			}
			b.WriteString("</tr>")
		}

		b.WriteString(pageFoot)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func cellValue(v string, opts PageOptions) string {
	if opts.EscapeHTML {
		return templ.EscapeString(v)
	}
	return v
}
