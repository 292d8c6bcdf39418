package enumerate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteManifest writes entries to w, one per line, each terminated by "\n".
func WriteManifest(w io.Writer, entries []string) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write creates or truncates the manifest at path and writes entries to it.
// The file is written in place; an interrupted write leaves it truncated.
func Write(path string, entries []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating manifest %s: %w", path, err)
	}

	if err := WriteManifest(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest returns the entries stored in the manifest at path.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(string(data)), nil
}

// ParseManifest splits manifest text into entries. Only "\n" separates
// entries; any other byte, "\r" included, belongs to the file name. A final
// line without a trailing newline is still returned as an entry.
func ParseManifest(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
