// Package table converts apodserver values into rows for CLI tables.
package table

import (
	"strings"
	"unicode/utf8"

	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/internal/route"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RoutesToTableData converts the route table to table format.
func RoutesToTableData(routes []route.Registration) Data {
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		module := r.Module
		if module == "" {
			module = "-"
		}
		rows = append(rows, []string{r.Method, r.Path, module})
	}

	return Data{
		Headers:         []string{"Method", "Path", "Module"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft},
	}
}

// PicturesToTableData converts APOD entries to table format. The
// explanation is only included when showDetails is set.
func PicturesToTableData(pictures []apod.Picture, showDetails bool) Data {
	headers := []string{"Date", "Title", "Copyright", "HD URL"}
	if showDetails {
		headers = append(headers, "Explanation")
	}

	rows := make([][]string, 0, len(pictures))
	for _, p := range pictures {
		row := []string{
			dash(p.Date),
			Truncate(p.Title, 48),
			dash(strings.TrimSpace(p.Copyright)),
			dash(p.HDURL),
		}
		if showDetails {
			row = append(row, Truncate(p.Explanation, 80))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
