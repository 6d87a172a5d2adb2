// Package render prints reports as aligned tables, JSON or CSV
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	perr "tripstats/internal/platform/errors"
	"tripstats/internal/services/report/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format names an output encoding
type Format string

// supported formats
const (
	Table Format = "table"
	JSON  Format = "json"
	CSV   Format = "csv"
)

// Formats lists the accepted format names
var Formats = []string{string(Table), string(JSON), string(CSV)}

// ParseFormat maps a flag value to a Format, case insensitive
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Table, JSON, CSV:
		return f, nil
	case "":
		return Table, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unknown format %q, want one of %s", s, strings.Join(Formats, ", ")), "format")
}

// Render writes rep to w in format f
func Render(w io.Writer, f Format, rep domain.Report) error {
	switch f {
	case Table, "":
		return renderTable(w, rep)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case CSV:
		return renderCSV(w, rep)
	}
	return perr.InvalidArgf("unknown format %q", f)
}

func renderTable(w io.Writer, rep domain.Report) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Top %d zones\n", len(rep.Zones))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tzone\ttrips")
	for _, z := range rep.Zones {
		p.Fprintf(tw, "%d\t%s\t%d\n", z.Rank, z.Zone, z.Trips)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p.Fprintf(w, "\nTop %d slots\n", len(rep.Slots))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tzone\thour\ttrips")
	for _, s := range rep.Slots {
		p.Fprintf(tw, "%d\t%s\t%s\t%d\n", s.Rank, s.Zone, fmt.Sprintf("%02d", s.Hour), s.Trips)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := rep.Summary
	p.Fprintf(w, "\n%d trips across %d zones and %d slots\n", sum.Trips, sum.Zones, sum.Slots)
	if run := sum.Run; run != nil {
		p.Fprintf(w, "run %s: %d lines, %d recorded, %d skipped (%d faults), %d bytes in %s\n",
			run.ID, run.Lines, run.Recorded, run.Skipped, run.Faults, run.Bytes, run.Elapsed.Round(time.Millisecond).String())
	}
	return nil
}

// renderCSV writes one row per entry with a leading report column
func renderCSV(w io.Writer, rep domain.Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"report", "rank", "zone", "hour", "trips"}}
	for _, z := range rep.Zones {
		rows = append(rows, []string{"zones", strconv.Itoa(z.Rank), z.Zone, "", strconv.FormatInt(z.Trips, 10)})
	}
	for _, s := range rep.Slots {
		rows = append(rows, []string{"slots", strconv.Itoa(s.Rank), s.Zone, strconv.Itoa(s.Hour), strconv.FormatInt(s.Trips, 10)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write csv")
	}
	return nil
}
