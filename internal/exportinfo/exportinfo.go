// Package exportinfo summarises an exported file for the confirmation panel.
package exportinfo

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/csheth/paperlens/internal/logging"
)

// Summary describes an export. Counts that do not apply stay zero.
type Summary struct {
	Path    string
	Format  string
	Size    int64
	Pages   int
	Rows    int
	Records int
	Note    string
}

// Line renders the summary for display.
func (s Summary) Line() string {
	parts := []string{humanSize(s.Size)}
	switch {
	case s.Pages > 0:
		parts = append(parts, plural(s.Pages, "page"))
	case s.Rows > 0:
		parts = append(parts, plural(s.Rows, "row"))
	case s.Records > 0:
		parts = append(parts, plural(s.Records, "record"))
	}
	if s.Note != "" {
		parts = append(parts, s.Note)
	}
	return strings.Join(parts, " · ")
}

// Inspect reads what it can about path. Problems end up in Note; the
// export itself already succeeded, so nothing here is an error.
func Inspect(path string) Summary {
	s := Summary{Path: path, Format: formatOf(path)}
	info, err := os.Stat(path)
	if err != nil {
		s.Note = "file not accessible locally"
		logging.Debugf("[export] stat %s: %v", path, err)
		return s
	}
	s.Size = info.Size()

	switch s.Format {
	case "pdf":
		s.Pages, err = pdfPages(path)
	case "csv":
		s.Rows, err = csvRows(path)
	case "json":
		s.Records, err = jsonRecords(path)
	}
	if err != nil {
		s.Note = "could not read contents"
		logging.Debugf("[export] inspect %s: %v", path, err)
	}
	return s
}

func formatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "xlsx", "xls":
		return "excel"
	default:
		return ext
	}
}

func pdfPages(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

// csvRows counts data rows, excluding the header.
func csvRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		rows++
	}
	if rows > 0 {
		rows--
	}
	return rows, nil
}

// jsonRecords accepts a bare array or an object with a papers array.
func jsonRecords(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return len(list), nil
	}
	var wrapped struct {
		Papers []json.RawMessage `json:"papers"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return 0, err
	}
	return len(wrapped.Papers), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
