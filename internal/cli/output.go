package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	// OutputFormatText is the default human-readable format.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON outputs data as JSON.
	OutputFormatJSON OutputFormat = "json"
)

// OutputWriter handles formatted output.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new OutputWriter writing to w.
func NewOutputWriter(format OutputFormat, w io.Writer) *OutputWriter {
	return &OutputWriter{
		format: format,
		writer: w,
	}
}

// WriteJSON writes data as indented JSON.
func (o *OutputWriter) WriteJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Write writes data according to the configured format.
// textFunc renders text output to the writer, data is used for JSON output.
func (o *OutputWriter) Write(data any, textFunc func(w io.Writer)) error {
	if o.format == OutputFormatJSON {
		return o.WriteJSON(data)
	}
	textFunc(o.writer)
	return nil
}

// IsJSON returns true if output format is JSON.
func (o *OutputWriter) IsJSON() bool {
	return o.format == OutputFormatJSON
}

// Table returns a tab-aligned writer over the output. Callers must Flush it.
func (o *OutputWriter) Table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be 'text' or 'json'", s)
	}
}
