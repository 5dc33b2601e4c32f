package cli

import (
	"bytes"
	"fmt"
	"io"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{name: "text format", input: "text", want: OutputFormatText},
		{name: "json format", input: "json", want: OutputFormatJSON},
		{name: "empty string defaults to text", input: "", want: OutputFormatText},
		{name: "invalid format", input: "xml", wantErr: true},
		{name: "yaml is not an output format", input: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputWriter_Write(t *testing.T) {
	type testData struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	data := testData{Name: "farm", Value: 42}

	t.Run("json format writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		o := NewOutputWriter(OutputFormatJSON, &buf)

		textCalled := false
		if err := o.Write(data, func(io.Writer) { textCalled = true }); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if textCalled {
			t.Error("Write() called textFunc when format is JSON")
		}
		want := "{\n  \"name\": \"farm\",\n  \"value\": 42\n}\n"
		if got := buf.String(); got != want {
			t.Errorf("Write() output = %q, want %q", got, want)
		}
		if !o.IsJSON() {
			t.Error("IsJSON() = false, want true")
		}
	})

	t.Run("text format calls textFunc", func(t *testing.T) {
		var buf bytes.Buffer
		o := NewOutputWriter(OutputFormatText, &buf)

		if err := o.Write(data, func(w io.Writer) { fmt.Fprint(w, "farm: 42") }); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if got := buf.String(); got != "farm: 42" {
			t.Errorf("Write() output = %q", got)
		}
		if o.IsJSON() {
			t.Error("IsJSON() = true, want false")
		}
	})
}
