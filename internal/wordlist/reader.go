// Package wordlist reads and writes delimited word-list record streams.
// Field lookup is header-driven; comma or tab delimiting is picked from
// the file extension (.tsv and .tab use tabs). Pure I/O, no normalization.
package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/usalingo/ipanorm/internal/domain"
)

// Row is one raw input record. Missing optional fields are empty strings.
type Row struct {
	Word        string
	ArpabetCode string
	IPA         string
	Source      string
}

// Delimiter returns the field delimiter implied by a path's extension.
func Delimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// ReadAll reads every record from the file at path. Failure to open or
// scan the stream is fatal to the batch; per-row problems are left to the
// caller to classify.
func ReadAll(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadFrom(f, Delimiter(path))
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return rows, nil
}

// ReadFrom reads records from r. The first row is the header; field
// positions come from it. The stream must name a "word" column and at
// least one of "arpabet_code" or "ipa".
func ReadFrom(r io.Reader, comma rune) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // allow ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty stream: no header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	wordIdx, ok := cols["word"]
	if !ok {
		return nil, fmt.Errorf("%w: header has no %q column", domain.ErrMalformedRecord, "word")
	}
	codeIdx, hasCode := cols["arpabet_code"]
	ipaIdx, hasIPA := cols["ipa"]
	if !hasCode && !hasIPA {
		return nil, fmt.Errorf("%w: header has neither %q nor %q column", domain.ErrMalformedRecord, "arpabet_code", "ipa")
	}
	sourceIdx, hasSource := cols["source"]

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := Row{Word: field(record, wordIdx)}
		if hasCode {
			row.ArpabetCode = field(record, codeIdx)
		}
		if hasIPA {
			row.IPA = field(record, ipaIdx)
		}
		if hasSource {
			row.Source = field(record, sourceIdx)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// field returns the trimmed value at idx, or "" when the row is too short.
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
