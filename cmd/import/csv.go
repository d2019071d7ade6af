package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"
)

const (
	encodingUTF8        = "utf8"
	encodingWindows1252 = "windows1252"
)

// openTable reads a semicolon separated file into a dataframe of strings.
func openTable(dir, name, encoding string) (dataframe.DataFrame, error) {
	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return readTable(file, encoding)
}

func readTable(r io.Reader, encoding string) (dataframe.DataFrame, error) {
	switch encoding {
	case encodingUTF8:
	case encodingWindows1252:
		r = charmap.Windows1252.NewDecoder().Reader(r)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("unknown encoding %q", encoding)
	}

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(';'),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.HasHeader(true))
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// cell returns the trimmed value of col at row, or "" when the column is
// missing or the value is NA.
func cell(df *dataframe.DataFrame, col string, row int) string {
	for _, name := range df.Names() {
		if name != col {
			continue
		}
		elem := df.Col(col).Elem(row)
		if elem.IsNA() {
			return ""
		}
		return strings.TrimSpace(elem.String())
	}
	return ""
}

// normalizePrice accepts both "12.50" and the comma decimal form
// "1.234,50".
func normalizePrice(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}

// normalizeDate turns dd/mm/yyyy into yyyy-mm-dd. Other input is returned
// unchanged and left to validation.
func normalizeDate(s string) string {
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t.Format(time.DateOnly)
	}
	return s
}
