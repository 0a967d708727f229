package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, rows [][]string, opts PageOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, AppointmentsPage(rows, opts).Render(context.Background(), &buf))
	return buf.String()
}

func tbody(t *testing.T, html string) string {
	t.Helper()
	start := strings.Index(html, "<tbody>")
	end := strings.Index(html, "</tbody>")
	require.True(t, start >= 0 && end > start, "tbody not found")
	return html[start+len("<tbody>") : end]
}

func TestAppointmentsPage_OneRow(t *testing.T) {
	rows := [][]string{{"2024-01-01", "10:00", "Rex", "1 Main St", "Yes", "cash", "friendly"}}
	html := renderPage(t, rows, PageOptions{})

	assert.Contains(t, html, "<title>Pending Appointments</title>")
	assert.Contains(t, html, `<link rel="stylesheet" href="/styles.css">`)
	assert.Contains(t, html, `<a href="/index.html">Back to schedule form</a>`)

	body := tbody(t, html)
	assert.Equal(t,
		"<tr><td>2024-01-01</td><td>10:00</td><td>Rex</td><td>1 Main St</td><td>Yes</td><td>cash</td><td>friendly</td></tr>",
		body,
	)
}

func TestAppointmentsPage_Headers(t *testing.T) {
	html := renderPage(t, nil, PageOptions{})

	headers := []string{"Date", "Time", "Dog Name", "Address", "First Time", "Payment", "Notes"}
	last := -1
	for _, h := range headers {
		idx := strings.Index(html, "<th>"+h+"</th>")
		require.Greater(t, idx, last, "header %q out of order", h)
		last = idx
	}
}

func TestAppointmentsPage_Empty(t *testing.T) {
	html := renderPage(t, [][]string{}, PageOptions{})
	assert.Equal(t, "", tbody(t, html))
	assert.Equal(t, 7, strings.Count(html, "<th>"))
}

func TestAppointmentsPage_ShortRowsPadded(t *testing.T) {
	rows := [][]string{
		{"2024-01-02", "11:30", "Bella"},
		{},
	}
	body := tbody(t, renderPage(t, rows, PageOptions{}))

	assert.Equal(t, 2, strings.Count(body, "<tr>"))
	assert.Equal(t, 14, strings.Count(body, "<td>"))
	assert.Contains(t, body, "<tr><td>2024-01-02</td><td>11:30</td><td>Bella</td><td></td><td></td><td></td><td></td></tr>")
}

func TestAppointmentsPage_ExtraCellsDropped(t *testing.T) {
	rows := [][]string{{"1", "2", "3", "4", "5", "6", "7", "8"}}
	body := tbody(t, renderPage(t, rows, PageOptions{}))
	assert.Equal(t, 7, strings.Count(body, "<td>"))
	assert.NotContains(t, body, "<td>8</td>")
}

func TestAppointmentsPage_Escaping(t *testing.T) {
	rows := [][]string{{"<b>bold</b>", "", "Rex & Co"}}

	t.Run("VerbatimByDefault", func(t *testing.T) {
		body := tbody(t, renderPage(t, rows, PageOptions{}))
		assert.Contains(t, body, "<td><b>bold</b></td>")
		assert.Contains(t, body, "<td>Rex & Co</td>")
	})

	t.Run("Escaped", func(t *testing.T) {
		body := tbody(t, renderPage(t, rows, PageOptions{EscapeHTML: true}))
		assert.Contains(t, body, "<td>&lt;b&gt;bold&lt;/b&gt;</td>")
		assert.Contains(t, body, "<td>Rex &amp; Co</td>")
	})
}
