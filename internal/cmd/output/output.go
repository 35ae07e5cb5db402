package output

import (
	"io"

	"github.com/agentstation/apodserver/internal/apod"
	"github.com/agentstation/apodserver/internal/cmd/table"
	"github.com/agentstation/apodserver/internal/route"
)

// FormatRoutes writes the route table in format.
func FormatRoutes(w io.Writer, routes []route.Registration, format Format) error {
	var data any = routes
	if format.IsTable() {
		data = table.RoutesToTableData(routes)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatPictures writes APOD entries in format. The wide table includes
// each explanation.
func FormatPictures(w io.Writer, pictures []apod.Picture, format Format) error {
	var data any = pictures
	if format.IsTable() {
		data = table.PicturesToTableData(pictures, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatAny writes data in format.
func FormatAny(w io.Writer, data any, format Format) error {
	return NewFormatter(format).Format(w, data)
}
