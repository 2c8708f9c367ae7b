// Package export writes computed results as a terminal table, markdown, CSV,
// JSON or Parquet.
package export

import (
	"fmt"
	"io"
	"strings"

	"critspeed/internal/service"
)

// Format is an output format
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatParquet  Format = "parquet"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatTable, FormatMarkdown, FormatCSV, FormatJSON, FormatParquet}
}

// ParseFormat parses a format name, defaulting to table
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range Formats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(names, ", "))
}

// Options tunes human-readable output
type Options struct {
	Render bool // render markdown with glamour
	Width  int  // word wrap for rendered markdown
}

// Write encodes data to w in the given format
func Write(w io.Writer, format Format, data *service.ResultsData, opts Options) error {
	if data == nil {
		return fmt.Errorf("nothing to export")
	}

	switch format {
	case FormatTable, "":
		_, err := io.WriteString(w, Table(data))
		return err
	case FormatMarkdown:
		md := Markdown(data)
		if opts.Render {
			rendered, err := RenderMarkdown(md, opts.Width)
			if err != nil {
				return err
			}
			md = rendered
		}
		_, err := io.WriteString(w, md)
		return err
	case FormatCSV:
		return WriteCSV(w, data)
	case FormatJSON:
		return WriteJSON(w, data)
	case FormatParquet:
		return WriteParquet(w, data)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
