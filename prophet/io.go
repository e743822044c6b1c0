package prophet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
)

// Delimiter separates cells in input and output tables.
const Delimiter = ';'

// ReadTable reads a semicolon separated ISO-8859-1 table whose first record is the header.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInput, filepath.Base(path), err)
	}
	defer f.Close()
	t, err := DecodeTable(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInput, filepath.Base(path), err)
	}
	return t, nil
}

// DecodeTable parses a semicolon separated ISO-8859-1 stream.
func DecodeTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file")
	}
	header := records[0]
	for i, row := range records[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), len(header))
		}
	}
	return NewTable(header, records[1:]), nil
}

// WriteTable writes t to path, replacing any existing file.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := EncodeTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// EncodeTable writes t as a semicolon separated ISO-8859-1 stream, header first.
func EncodeTable(w io.Writer, t *Table) error {
	enc := charmap.ISO8859_1.NewEncoder().Writer(w)
	writer := csv.NewWriter(enc)
	writer.Comma = Delimiter
	write := func(record []string) error {
		if !isBlankRecord(record) {
			return writer.Write(record)
		}
		// csv.Writer emits a lone empty field as a blank line, which readers skip.
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(enc, "\"\"\n")
		return err
	}
	if err := write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func isBlankRecord(record []string) bool {
	return len(record) == 1 && record[0] == ""
}

// ReadHeader returns only the header of a table file.
func ReadHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInput, filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	row, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %s: empty file", ErrInput, filepath.Base(path))
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrInput, filepath.Base(path), err)
	}
	return row, nil
}
