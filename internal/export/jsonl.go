package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/maruel/jsondb/internal/jsonvalue"
)

// maxLine bounds a single JSONL row.
const maxLine = 64 << 20

// JSONL writes one compact entry per line.
func JSONL(w io.Writer, entries []any) error {
	writer := bufio.NewWriter(w)
	for i, e := range entries {
		data, err := jsonvalue.Marshal(e, "")
		if err != nil {
			return fmt.Errorf("failed to marshal entry %d: %w", i, err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", i, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	return nil
}

// ReadJSONL parses one entry per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]any, error) {
	entries := []any{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		v, err := jsonvalue.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", n, err)
		}
		entries = append(entries, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
