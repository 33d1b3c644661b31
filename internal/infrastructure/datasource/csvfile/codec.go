package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

// Codec reads and writes the football-data style CSV format. Required
// columns are Date, HomeTeam, AwayTeam, FTHG and FTAG; Season, FTR and the
// half-time goal columns are optional.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

var requiredColumns = []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"}
var optionalColumns = []string{"Season", "FTR", "HTHG", "HTAG"}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02/01/06"}

func (c *Codec) Parse(data []byte) ([]match.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]match.Record, 0, 512)
	row := 1
	for {
		fields, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		row++
		if readErr != nil {
			return nil, fmt.Errorf("row %d: %w", row, readErr)
		}
		if isBlankRow(fields) {
			continue
		}

		record, parseErr := parseRow(index, fields, row)
		if parseErr != nil {
			return nil, parseErr
		}
		records = append(records, record)
	}

	return records, nil
}

func (c *Codec) ParseFile(path string) ([]match.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return c.Parse(data)
}

// Export renders records back to CSV with a derived TotalGoals column. The
// buffer is pooled; exports of large filtered views are the hot write path.
func (c *Codec) Export(records []match.Record) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"Date", "Season", "HomeTeam", "AwayTeam", "FTHG", "FTAG", "HTHG", "HTAG", "FTR", "TotalGoals"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range records {
		fields := []string{
			record.Date.Format("2006-01-02"),
			record.Season,
			record.HomeTeam,
			record.AwayTeam,
			strconv.Itoa(record.HomeGoals),
			strconv.Itoa(record.AwayGoals),
			optionalInt(record.HalfTimeHomeGoals),
			optionalInt(record.HalfTimeAwayGoals),
			record.Result,
			strconv.Itoa(record.TotalGoals()),
		}
		if err := writer.Write(fields); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
		for _, known := range append(append([]string(nil), requiredColumns...), optionalColumns...) {
			if strings.EqualFold(name, known) {
				index[known] = i
			}
		}
	}

	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("missing required column %s", column)
		}
	}
	return index, nil
}

func parseRow(index map[string]int, fields []string, row int) (match.Record, error) {
	get := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	date, err := parseDate(get("Date"))
	if err != nil {
		return match.Record{}, fmt.Errorf("row %d: column Date: %s", row, err.Error())
	}

	homeTeam := get("HomeTeam")
	awayTeam := get("AwayTeam")
	if homeTeam == "" {
		return match.Record{}, fmt.Errorf("row %d: column HomeTeam: value is required", row)
	}
	if awayTeam == "" {
		return match.Record{}, fmt.Errorf("row %d: column AwayTeam: value is required", row)
	}

	homeGoals, err := parseGoals(get("FTHG"))
	if err != nil {
		return match.Record{}, fmt.Errorf("row %d: column FTHG: %s", row, err.Error())
	}
	awayGoals, err := parseGoals(get("FTAG"))
	if err != nil {
		return match.Record{}, fmt.Errorf("row %d: column FTAG: %s", row, err.Error())
	}

	record := match.Record{
		Date:      date,
		Season:    get("Season"),
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}

	if raw := get("HTHG"); raw != "" {
		goals, goalsErr := parseGoals(raw)
		if goalsErr != nil {
			return match.Record{}, fmt.Errorf("row %d: column HTHG: %s", row, goalsErr.Error())
		}
		record.HalfTimeHomeGoals = &goals
	}
	if raw := get("HTAG"); raw != "" {
		goals, goalsErr := parseGoals(raw)
		if goalsErr != nil {
			return match.Record{}, fmt.Errorf("row %d: column HTAG: %s", row, goalsErr.Error())
		}
		record.HalfTimeAwayGoals = &goals
	}

	if raw := get("FTR"); raw != "" {
		result := match.NormalizeResult(raw)
		if result == "" {
			return match.Record{}, fmt.Errorf("row %d: column FTR: invalid result %q", row, raw)
		}
		record.Result = result
	} else {
		record.Result = deriveResult(homeGoals, awayGoals)
	}

	return record, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseGoals(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("value is required")
	}
	goals, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if goals < 0 {
		return 0, fmt.Errorf("goals cannot be negative")
	}
	return goals, nil
}

func deriveResult(homeGoals, awayGoals int) string {
	switch {
	case homeGoals > awayGoals:
		return match.ResultHomeWin
	case awayGoals > homeGoals:
		return match.ResultAwayWin
	default:
		return match.ResultDraw
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func isBlankRow(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
