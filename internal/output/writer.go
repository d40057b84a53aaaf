package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/August26/proxytaster/internal/model"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

var (
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrAppendUnsupported is returned when appending to a file in a format
	// that cannot be concatenated.
	ErrAppendUnsupported = errors.New("format cannot be appended to")
)

// ParseFormat parses a format name; the empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write renders results to w. The table format is followed by the summary;
// json embeds it.
func Write(w io.Writer, format Format, results []*model.WorkedProxy, stats model.RunStats) error {
	switch format {
	case FormatText, "":
		return writeLines(w, results)
	case FormatTable:
		if err := PrintResultsTable(w, results); err != nil {
			return err
		}
		return PrintSummary(w, stats)
	case FormatJSON:
		return writeJSON(w, results, stats)
	case FormatCSV:
		return writeCSV(w, results, true)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveFile writes results to path, replacing it, or appending to it when
// appendMode is set. Only text and csv can be appended; csv only gets a
// header when the file is empty.
func SaveFile(path string, format Format, results []*model.WorkedProxy, stats model.RunStats, appendMode bool) error {
	if !appendMode {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()

		if format == FormatTable {
			format = FormatText
		}
		if err := Write(f, format, results, stats); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return f.Close()
	}

	if format != FormatText && format != FormatTable && format != FormatCSV && format != "" {
		return fmt.Errorf("%w: %s", ErrAppendUnsupported, format)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if format == FormatCSV {
		err = writeCSV(f, results, info.Size() == 0)
	} else {
		err = writeLines(f, results)
	}
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return f.Close()
}

// writeLines writes one "<status> <url> <country>" line per proxy.
func writeLines(w io.Writer, results []*model.WorkedProxy) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

// PrintResultsTable prints a human-readable table of worked proxies.
func PrintResultsTable(w io.Writer, results []*model.WorkedProxy) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PROXY\tSTATUS\tLAT(ms)\tCOUNTRY\tCITY\tEXIT IP\tORG\tRISK")

	for _, r := range results {
		risk := "-"
		if r.RiskScore > 0 {
			risk = fmt.Sprintf("%.1f", r.RiskScore)
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.URL,
			r.Status,
			latencyMs(r.Latency),
			dashIfEmpty(r.Country),
			dashIfEmpty(r.Geo.City),
			dashIfEmpty(r.Geo.IP),
			dashIfEmpty(r.Geo.Org),
			risk,
		)
	}

	return tw.Flush()
}

// PrintSummary prints the aggregated run stats.
func PrintSummary(w io.Writer, stats model.RunStats) error {
	var b strings.Builder

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Summary:")
	fmt.Fprintf(&b, "  Total proxies:            %d\n", stats.TotalProxies)
	fmt.Fprintf(&b, "  Unique proxies:           %d\n", stats.UniqueProxies)
	fmt.Fprintf(&b, "  Worked proxies:           %d (%.1f%%)\n", stats.WorkedProxies, stats.SuccessRatePct)
	for _, p := range model.DefaultPrecedence {
		if n := stats.ByProtocol[string(p)]; n > 0 {
			fmt.Fprintf(&b, "    %-22s  %d\n", p, n)
		}
	}
	fmt.Fprintf(&b, "  Avg latency (worked):     %.1f ms\n", stats.AvgLatencyMs)
	fmt.Fprintf(&b, "  Avg risk score (worked):  %.1f\n", stats.AvgRiskScore)
	fmt.Fprintf(&b, "  Run time:                 %.2f s\n", float64(stats.TotalProcessingTimeMs)/1000.0)

	_, err := io.WriteString(w, b.String())
	return err
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func latencyMs(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// writeJSON writes an object with "results" and "summary".
func writeJSON(w io.Writer, results []*model.WorkedProxy, stats model.RunStats) error {
	if results == nil {
		results = []*model.WorkedProxy{}
	}
	payload := struct {
		Results []*model.WorkedProxy `json:"results"`
		Summary model.RunStats       `json:"summary"`
	}{
		Results: results,
		Summary: stats,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeCSV writes one row per proxy. The summary is not part of the CSV.
func writeCSV(w io.Writer, results []*model.WorkedProxy, header bool) error {
	cw := csv.NewWriter(w)

	if header {
		if err := cw.Write([]string{
			"protocol",
			"address",
			"url",
			"status",
			"latency_ms",
			"country",
			"geo_source",
			"city",
			"region",
			"ip",
			"org",
			"risk_score",
		}); err != nil {
			return err
		}
	}

	for _, r := range results {
		row := []string{
			string(r.Protocol),
			r.Address,
			r.URL,
			strconv.Itoa(r.Status),
			strconv.FormatInt(r.Latency.Milliseconds(), 10),
			r.Country,
			r.GeoSource,
			r.Geo.City,
			r.Geo.Region,
			r.Geo.IP,
			r.Geo.Org,
			strconv.FormatFloat(r.RiskScore, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
