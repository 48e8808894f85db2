package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type sampleResult struct {
	RunID   string            `json:"run_id" yaml:"run_id"`
	Workers int               `json:"workers" yaml:"workers"`
	PerOp   map[string]uint64 `json:"per_op" yaml:"per_op"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		wide   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatTable, true},
		{"unknown", false}, // default to table
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, tt.wide)
			if f == nil {
				t.Fatal("NewFormatter returned nil")
			}

			switch tt.format {
			case FormatJSON:
				if _, ok := f.(*JSONFormatter); !ok {
					t.Error("expected JSONFormatter")
				}
			case FormatYAML:
				if _, ok := f.(*YAMLFormatter); !ok {
					t.Error("expected YAMLFormatter")
				}
			default:
				tf, ok := f.(*TableFormatter)
				if !ok {
					t.Fatal("expected TableFormatter")
				}
				if tt.wide && !tf.Wide {
					t.Error("expected Wide=true for table formatter")
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := &JSONFormatter{}

	t.Run("formats struct as JSON", func(t *testing.T) {
		data := sampleResult{RunID: "run-1", Workers: 4}

		var buf bytes.Buffer
		if err := f.Format(&buf, data); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `"run_id": "run-1"`) {
			t.Error("Format() missing run_id field")
		}
		if !strings.Contains(output, `"workers": 4`) {
			t.Error("Format() missing workers field")
		}
	})

	t.Run("formats nil as JSON", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, nil); err != nil {
			t.Fatalf("Format(nil) error = %v", err)
		}

		if output := strings.TrimSpace(buf.String()); output != "null" {
			t.Errorf("Format(nil) = %q, want 'null'", output)
		}
	})
}

func TestYAMLFormatter_Format(t *testing.T) {
	f := &YAMLFormatter{}

	t.Run("formats struct with yaml tags", func(t *testing.T) {
		data := sampleResult{
			RunID:   "run-1",
			Workers: 4,
			PerOp:   map[string]uint64{"put": 2, "get": 10},
		}

		var buf bytes.Buffer
		if err := f.Format(&buf, data); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		want := "run_id: run-1\nworkers: 4\nper_op:\n  get: 10\n  put: 2\n"
		if got := buf.String(); got != want {
			t.Errorf("Format() = %q, want %q", got, want)
		}
	})

	t.Run("formats slice", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.Format(&buf, []string{"a", "b"}); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if got := buf.String(); got != "- a\n- b\n" {
			t.Errorf("Format() = %q", got)
		}
	})
}
