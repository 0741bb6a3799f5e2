package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/usalingo/ipanorm/internal/domain"
)

// WriteResults writes the normalized output stream: one row per accepted
// record with the audit columns the original datasets carry.
func WriteResults(path string, recs []domain.PronunciationRecord) error {
	return writeFile(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"word", "ipa", "source", "original_ipa", "changes_count", "changes_detail"}); err != nil {
			return err
		}
		for _, rec := range recs {
			row := []string{
				rec.Word,
				rec.IPA,
				rec.Source,
				rec.OriginalIPA,
				strconv.Itoa(rec.ChangesCount()),
				rec.ChangesDetail(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteReview writes the rejected subset for human inspection, with the
// rejection reason appended.
func WriteReview(path string, recs []domain.PronunciationRecord) error {
	return writeFile(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"word", "ipa", "source", "original_ipa", "reason"}); err != nil {
			return err
		}
		for _, rec := range recs {
			row := []string{rec.Word, rec.IPA, rec.Source, rec.OriginalIPA, rec.Reason}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, fn func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}

	if err := writeTo(f, Delimiter(path), fn); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}
	return nil
}

func writeTo(w io.Writer, comma rune, fn func(w *csv.Writer) error) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := fn(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
