package config

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Logger receives warnings about inputs that were accepted but adjusted.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// textKeys are the non-numeric parameters that are understood and dropped
// from the numeric map.
var textKeys = map[string]bool{
	"filing_status": true,
}

// InputParser handles parsing of parameter files and request bodies.
type InputParser struct {
	logger Logger
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{logger: nopLogger{}}
}

// SetLogger sets the warning sink. If nil is provided, warnings are discarded.
func (ip *InputParser) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	ip.logger = l
}

// LoadFromFile loads parameters from a CSV, JSON or YAML file, chosen by
// extension (YAML when the extension is unknown), and validates them.
func (ip *InputParser) LoadFromFile(filename string) (Parameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var params Parameters
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		params, err = ip.ParseCSV(bytes.NewReader(data))
	case ".json":
		params, err = ip.ParseJSON(data)
	default:
		params, err = ip.ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if err := ValidateParameters(params); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}
	return params, nil
}

// ParseCSV reads the two-column "parameter,value" layout. A header row is
// optional, extra columns are ignored and rows with an empty value are
// skipped.
func (ip *InputParser) ParseCSV(r io.Reader) (Parameters, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	raw := make(map[string]any, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))
		if i == 0 && strings.EqualFold(key, "parameter") {
			continue
		}
		if key == "" || len(row) < 2 {
			continue
		}
		raw[key] = row[1]
	}
	return ip.fromMap(raw)
}

// ParseJSON reads a flat JSON object of parameter names to values.
func (ip *InputParser) ParseJSON(data []byte) (Parameters, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return ip.fromMap(raw)
}

// ParseYAML reads a flat YAML mapping of parameter names to values.
func (ip *InputParser) ParseYAML(data []byte) (Parameters, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ip.fromMap(raw)
}

func (ip *InputParser) fromMap(raw map[string]any) (Parameters, error) {
	params := make(Parameters, len(raw))
	var errs []error
	for key, value := range raw {
		v, ok, err := ip.coerce(key, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			params[key] = v
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return params, nil
}

// coerce converts one raw value. ok is false for values that are skipped.
func (ip *InputParser) coerce(key string, value any) (v float64, ok bool, err error) {
	switch t := value.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return t, true, nil
	case float32:
		return float64(t), true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case uint64:
		return float64(t), true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		if f, perr := strconv.ParseFloat(s, 64); perr == nil {
			return f, true, nil
		}
		if textKeys[key] {
			ip.checkText(key, s)
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %s has non-numeric value %q", ErrInvalidParameter, key, s)
	default:
		return 0, false, fmt.Errorf("%w: %s has unsupported value %v", ErrInvalidParameter, key, value)
	}
}

func (ip *InputParser) checkText(key, value string) {
	if key == "filing_status" && !strings.EqualFold(value, "MFJ") {
		ip.logger.Warnf("%s %q is not supported; married filing jointly brackets are used", key, value)
	}
}

// WriteFile writes params to filename in the format implied by its
// extension (YAML when unknown).
func (ip *InputParser) WriteFile(filename string, params Parameters) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		data, err = EncodeCSV(params)
	case ".json":
		data, err = json.MarshalIndent(params, "", "  ")
	default:
		data, err = yaml.Marshal(map[string]float64(params))
	}
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// EncodeCSV renders params in the two-column parameter,value layout,
// sorted by key.
func EncodeCSV(params Parameters) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"parameter", "value"}); err != nil {
		return nil, err
	}
	for _, key := range params.Keys() {
		if err := w.Write([]string{key, strconv.FormatFloat(params[key], 'f', -1, 64)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
