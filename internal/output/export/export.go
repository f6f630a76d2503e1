// Package export writes pipeline outputs to disk as JSON and CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/output/report"
)

const (
	itemsFile   = "processed_items.json"
	summaryFile = "summary.json"
	themesFile  = "top_themes.json"
	fieldsFile  = "field_sentiments.csv"
	trendsFile  = "trends.csv"

	dirPerm = 0o755
)

// Writer persists run artifacts under a single output directory.
type Writer struct {
	dir    string
	logger zerolog.Logger
}

func NewWriter(dir string, logger zerolog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger.With().Str("component", "export").Logger()}
}

// WriteAll writes every artifact for a run. Files are created fresh each
// run; partial output from a failed run is overwritten by the next one.
func (w *Writer) WriteAll(
	items []domain.ProcessedItem,
	summary report.Summary,
	themes map[string][]report.ThemeSummary,
	fields map[string]report.FieldDistribution,
	trends []report.TrendRow,
) error {
	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := w.writeJSON(itemsFile, items); err != nil {
		return err
	}

	if err := w.writeJSON(summaryFile, summary); err != nil {
		return err
	}

	if err := w.writeJSON(themesFile, themes); err != nil {
		return err
	}

	if err := w.writeFieldCSV(fields); err != nil {
		return err
	}

	if err := w.writeTrendCSV(trends); err != nil {
		return err
	}

	w.logger.Info().Str("dir", w.dir).Int("items", len(items)).Msg("run artifacts written")

	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}

	return f.Close()
}

// writeFieldCSV emits one row per field and sentiment category, sorted for
// stable diffs between runs.
func (w *Writer) writeFieldCSV(fields map[string]report.FieldDistribution) error {
	rows := [][]string{{"field", "sentiment", "percentage", "total_mentions"}}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dist := fields[name]

		sentiments := make([]string, 0, len(dist.Percentages))
		for sentiment := range dist.Percentages {
			sentiments = append(sentiments, sentiment)
		}
		sort.Strings(sentiments)

		for _, sentiment := range sentiments {
			rows = append(rows, []string{
				name,
				sentiment,
				formatFloat(dist.Percentages[sentiment]),
				strconv.Itoa(dist.TotalMentions),
			})
		}
	}

	return w.writeCSV(fieldsFile, rows)
}

func (w *Writer) writeTrendCSV(trends []report.TrendRow) error {
	rows := [][]string{{"period", "total_items", "avg_score", "sentiment", "percentage"}}

	for _, row := range trends {
		sentiments := make([]string, 0, len(row.OverallPct))
		for sentiment := range row.OverallPct {
			sentiments = append(sentiments, sentiment)
		}
		sort.Strings(sentiments)

		for _, sentiment := range sentiments {
			rows = append(rows, []string{
				row.Period.Format("2006-01-02"),
				strconv.Itoa(row.TotalItems),
				formatFloat(row.AvgScore),
				sentiment,
				formatFloat(row.OverallPct[sentiment]),
			})
		}
	}

	return w.writeCSV(trendsFile, rows)
}

func (w *Writer) writeCSV(name string, rows [][]string) error {
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}

	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
