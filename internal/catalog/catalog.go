// Package catalog parses artwork catalogue files (CSV, or PDFs holding the same
// table as text) and stores their rows as artworks.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"artmatch/internal/validation"
	"artmatch/models"

	"github.com/ledongthuc/pdf"
)

// Recognised column names. Matching is case-insensitive; unknown columns are ignored.
const (
	ColumnTitle       = "title"
	ColumnArtistEmail = "artist_email"
	ColumnPrice       = "price"
	ColumnTags        = "tags"
	ColumnEmotions    = "emotions"
	ColumnImageURL    = "image_url"
	ColumnMedium      = "medium"
	ColumnDimensions  = "dimensions"
)

var (
	// ErrEmptyCatalogue is returned when a file holds no header row.
	ErrEmptyCatalogue = errors.New("catalogue is empty")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor PDF.
	ErrUnsupportedFormat = errors.New("unsupported catalogue format")

	pricePattern = regexp.MustCompile(`[^0-9.]+`)
)

// Row is one parsed catalogue line.
type Row struct {
	Line        int
	Title       string
	ArtistEmail string
	Price       float64
	Tags        []string
	Emotions    map[string]float64
	ImageURL    string
	Medium      string
	Dimensions  string
}

// RowError reports a line that could not be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Parse dispatches on the file extension of name.
func Parse(name string, data []byte) ([]Row, []RowError, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ReadCSV(bytes.NewReader(data))
	case ".pdf":
		return ReadPDF(data)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadCSV parses a comma separated catalogue whose first row is a header.
// Rows that fail to parse are returned as RowErrors and do not stop the read.
func ReadCSV(r io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRecords(records)
}

// ReadPDF extracts the text of every page and parses it as a table with one
// record per line. Cells are separated by "|" or, failing that, by commas.
func ReadPDF(data []byte) ([]Row, []RowError, error) {
	text, err := extractTextFromPDF(data)
	if err != nil {
		return nil, nil, fmt.Errorf("read pdf: %w", err)
	}

	var records [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, splitTextRecord(line))
	}
	return parseRecords(records)
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func splitTextRecord(line string) []string {
	if strings.Contains(line, "|") {
		parts := strings.Split(strings.Trim(line, "|"), "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	reader := csv.NewReader(strings.NewReader(line))
	reader.TrimLeadingSpace = true
	record, err := reader.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return record
}

func parseRecords(records [][]string) ([]Row, []RowError, error) {
	if len(records) == 0 {
		return nil, nil, ErrEmptyCatalogue
	}

	header := make(map[string]int, len(records[0]))
	for idx, name := range records[0] {
		key := strings.TrimPrefix(name, "\ufeff")
		key = strings.ToLower(strings.TrimSpace(key))
		key = strings.ReplaceAll(key, " ", "_")
		header[key] = idx
	}
	if _, ok := header[ColumnTitle]; !ok {
		return nil, nil, fmt.Errorf("catalogue header must include %q", ColumnTitle)
	}
	if _, ok := header[ColumnPrice]; !ok {
		return nil, nil, fmt.Errorf("catalogue header must include %q", ColumnPrice)
	}

	rows := make([]Row, 0, len(records)-1)
	var rowErrs []RowError
	for idx, record := range records[1:] {
		line := idx + 2
		if blankRecord(record) {
			continue
		}
		cell := func(column string) string {
			pos, ok := header[column]
			if !ok || pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}

		row, err := buildRow(cell)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func buildRow(cell func(string) string) (Row, error) {
	title := cell(ColumnTitle)
	if title == "" {
		return Row{}, errors.New("title is required")
	}

	price, err := ParsePrice(cell(ColumnPrice))
	if err != nil {
		return Row{}, err
	}

	emotions, err := ParseEmotions(cell(ColumnEmotions))
	if err != nil {
		return Row{}, err
	}

	imageURL := cell(ColumnImageURL)
	if err := validation.Validator().Var(imageURL, "omitempty,http_url"); err != nil {
		return Row{}, fmt.Errorf("image_url %q must be an http or https URL", imageURL)
	}

	return Row{
		Title:       title,
		ArtistEmail: strings.ToLower(cell(ColumnArtistEmail)),
		Price:       price,
		Tags:        splitTags(cell(ColumnTags)),
		Emotions:    emotions,
		ImageURL:    imageURL,
		Medium:      cell(ColumnMedium),
		Dimensions:  cell(ColumnDimensions),
	}, nil
}

// splitTags accepts comma or semicolon separated lists.
func splitTags(raw string) []string {
	return models.SplitTags(strings.ReplaceAll(raw, ";", ","))
}

// ParsePrice reads amounts such as "$1,200" or "850.50".
func ParsePrice(raw string) (float64, error) {
	cleaned := pricePattern.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, fmt.Errorf("price %q is not a number", raw)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number", raw)
	}
	return price, nil
}

// ParseEmotions reads "calm:0.8;peaceful:0.6" lists. Names are lowercased and
// values must lie in [0,1]. An empty string yields a nil map.
func ParseEmotions(raw string) (map[string]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	scores := make(map[string]float64)
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			name, value, ok = strings.Cut(part, "=")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("emotion %q must look like name:value", strings.TrimSpace(part))
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(parsed) || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("emotion %q must be a number between 0 and 1", name)
		}
		scores[name] = parsed
	}
	if len(scores) == 0 {
		return nil, nil
	}
	return scores, nil
}

// Artwork converts the row into a model owned by artistID.
func (r Row) Artwork(artistID uint) models.Artwork {
	medium := r.Medium
	if medium == "" {
		medium = "Unknown"
	}
	dimensions := r.Dimensions
	if dimensions == "" {
		dimensions = "N/A"
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Artwork{
		Title:      r.Title,
		Price:      r.Price,
		ImageURL:   r.ImageURL,
		Medium:     medium,
		Dimensions: dimensions,
		Tags:       tags,
		Emotions:   models.EmotionMap(r.Emotions),
		ArtistID:   artistID,
	}
}
