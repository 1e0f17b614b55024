package helpers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
)

// OutputFormat represents the desired output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// SupportedFormats lists every format accepted by --format.
var SupportedFormats = []OutputFormat{FormatText, FormatJSON, FormatCSV}

// Formatter renders a complete value at once.
type Formatter interface {
	Format(data any, writer io.Writer) error
}

// NewFormatter creates a new Formatter for the given format. Text output is
// rendered as an aligned table.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText:
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// TableFormatter formats data as a table using struct tags.
type TableFormatter struct{}

func (f *TableFormatter) Format(data any, writer io.Writer) error {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return fmt.Errorf("data must be a slice")
	}
	if val.Len() == 0 {
		return nil
	}
	headers := getHeaders(val.Index(0).Type())

	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
		return err
	}

	for i := 0; i < val.Len(); i++ {
		row := getRowValues(val.Index(i))
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}

// CSVFormatter formats data as CSV using struct tags.
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, writer io.Writer) error {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return fmt.Errorf("data must be a slice")
	}
	if val.Len() == 0 {
		return nil
	}
	headers := getHeaders(val.Index(0).Type())

	w := csv.NewWriter(writer)
	if err := w.Write(headers); err != nil {
		return err
	}

	for i := 0; i < val.Len(); i++ {
		if err := w.Write(getRowValues(val.Index(i))); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// StreamFormatter writes records one at a time as they are produced, so
// output appears before a long scan completes.
type StreamFormatter interface {
	WriteRecord(record any) error
	// Close flushes buffered output. It does not close the writer.
	Close() error
}

// NewStreamFormatter creates a StreamFormatter writing to writer.
//
// Text output prints one line per record: the record's String method when
// it has one, otherwise its header-tagged fields separated by tabs. JSON
// output prints one compact object per line. CSV output prints a header row
// before the first record.
func NewStreamFormatter(format OutputFormat, writer io.Writer) (StreamFormatter, error) {
	switch format {
	case FormatText:
		return &textStream{w: writer}, nil
	case FormatJSON:
		return &jsonStream{enc: json.NewEncoder(writer)}, nil
	case FormatCSV:
		return &csvStream{w: csv.NewWriter(writer)}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

type textStream struct {
	w io.Writer
}

func (s *textStream) WriteRecord(record any) error {
	var line string
	if str, ok := record.(fmt.Stringer); ok {
		line = str.String()
	} else {
		line = strings.Join(getRowValues(reflect.ValueOf(record)), "\t")
	}
	_, err := fmt.Fprintln(s.w, line)
	return err
}

func (s *textStream) Close() error { return nil }

type jsonStream struct {
	enc *json.Encoder
}

func (s *jsonStream) WriteRecord(record any) error {
	return s.enc.Encode(record)
}

func (s *jsonStream) Close() error { return nil }

type csvStream struct {
	w           *csv.Writer
	wroteHeader bool
}

func (s *csvStream) WriteRecord(record any) error {
	v := reflect.ValueOf(record)
	if !s.wroteHeader {
		if err := s.w.Write(getHeaders(v.Type())); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	if err := s.w.Write(getRowValues(v)); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *csvStream) Close() error {
	s.w.Flush()
	return s.w.Error()
}

func getHeaders(t reflect.Type) []string {
	var headers []string
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("header")
		if tag != "" {
			headers = append(headers, tag)
		}
	}
	return headers
}

func getRowValues(v reflect.Value) []string {
	var values []string
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("header") != "" {
			val := v.Field(i)
			values = append(values, fmt.Sprintf("%v", val.Interface()))
		}
	}
	return values
}
