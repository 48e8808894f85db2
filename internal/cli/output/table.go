package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"
)

// inlineMapLimit is the largest map rendered inline in a cell.
const inlineMapLimit = 8

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table.
// Supports: Table, []T (slice of structs/maps), map[K]V, structs.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	if t, ok := data.(*Table); ok {
		return t.RenderWithOptions(w, f.NoHeaders)
	}
	if t, ok := data.(Table); ok {
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := toTable(data, f.Wide)
	if err != nil {
		// Fallback to JSON for types with no tabular form
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	return table.RenderWithOptions(w, f.NoHeaders)
}

// toTable converts various data types to a Table.
func toTable(data any, wide bool) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v, wide)
	case reflect.Map:
		return mapToTable(v), nil
	case reflect.Struct:
		return structToTable(v, wide), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// fieldName returns the display name of a struct field: its json tag
// name when present, else the field name.
func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// visible reports whether field belongs in the table.
func visible(field reflect.StructField, wide bool) bool {
	if !field.IsExported() {
		return false
	}
	tag := field.Tag.Get("table")
	if tag == "-" {
		return false
	}
	return wide || !strings.Contains(tag, "wide")
}

// sliceToTable converts a slice to a table with one row per element.
func sliceToTable(v reflect.Value, wide bool) (*Table, error) {
	if v.Len() == 0 {
		return &Table{}, nil
	}

	first := v.Index(0)
	if first.Kind() == reflect.Ptr {
		first = first.Elem()
	}

	var headers []string
	var fieldIndices []int

	switch first.Kind() {
	case reflect.Struct:
		t := first.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !visible(field, wide) {
				continue
			}
			headers = append(headers, strings.ToUpper(toSnakeCase(fieldName(field))))
			fieldIndices = append(fieldIndices, i)
		}
	case reflect.Map:
		headers = []string{"KEY", "VALUE"}
	default:
		headers = []string{"VALUE"}
	}

	table := &Table{Headers: headers}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}

		switch elem.Kind() {
		case reflect.Struct:
			row := make([]string, 0, len(fieldIndices))
			for _, idx := range fieldIndices {
				row = append(row, formatValue(elem.Field(idx)))
			}
			table.Rows = append(table.Rows, row)
		case reflect.Map:
			table.Rows = append(table.Rows, mapToTable(elem).Rows...)
		default:
			table.Rows = append(table.Rows, []string{formatValue(elem)})
		}
	}

	return table, nil
}

// mapToTable converts a map to a key-value table sorted by key.
func mapToTable(v reflect.Value) *Table {
	table := &Table{
		Headers: []string{"KEY", "VALUE"},
	}
	for _, kv := range sortedEntries(v) {
		table.Rows = append(table.Rows, []string{kv[0], kv[1]})
	}
	return table
}

// structToTable converts a single struct to a field-value table. Nested
// structs are flattened into dotted field names; embedded ones keep the
// parent prefix.
func structToTable(v reflect.Value, wide bool) *Table {
	table := &Table{
		Headers: []string{"FIELD", "VALUE"},
	}
	appendStruct(table, "", v, wide)
	return table
}

func appendStruct(table *Table, prefix string, v reflect.Value, wide bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
			fv = fv.Elem()
		}
		isStruct := fv.Kind() == reflect.Struct && fv.Type() != timeType

		// Embedded structs promote their fields even when the type is unexported.
		if field.Anonymous && isStruct {
			if field.Tag.Get("table") != "-" {
				appendStruct(table, prefix, fv, wide)
			}
			continue
		}
		if !visible(field, wide) {
			continue
		}
		name := prefix + fieldName(field)
		if isStruct {
			appendStruct(table, name+".", fv, wide)
			continue
		}
		table.Rows = append(table.Rows, []string{name, formatValue(fv)})
	}
}

// sortedEntries formats the entries of a map and sorts them by key.
func sortedEntries(v reflect.Value) [][2]string {
	out := make([][2]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out = append(out, [2]string{formatValue(iter.Key()), formatValue(iter.Value())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// formatValue formats a reflect.Value for display.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Type() {
	case timeType:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	case durationType:
		d := time.Duration(v.Int())
		if d == 0 {
			return "-"
		}
		return d.Round(time.Millisecond).String()
	}

	switch v.Kind() {
	case reflect.String:
		s := v.String()
		if s == "" {
			return "-"
		}
		return s
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		if v.Len() > inlineMapLimit {
			return fmt.Sprintf("{%d keys}", v.Len())
		}
		parts := make([]string, 0, v.Len())
		for _, kv := range sortedEntries(v) {
			parts = append(parts, kv[0]+"="+kv[1])
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// toSnakeCase converts CamelCase to Snake_Case, keeping acronyms whole:
// "OpsPerSec" becomes "Ops_Per_Sec", "HTTPServer" becomes "HTTP_Server".
func toSnakeCase(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
