// Package answers reads fill answers from a YAML file and serves them to the
// fill state machine.
//
// A file looks like:
//
//	fill_optional: true
//	answers:
//	  Name: Ada
//	  "123456": 42          # keyed by element id
//	  Colour: {other: teal}
//	  Rating: 4
//	  Grid: {Row 1: a, Row 2: [a, b]}
//	  Birthday: 1990-05-17
//	  Comment: null         # cleared
//	  Email: DEFAULT
//
// Elements without an answer get domain.Default.
package answers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrAnswer is wrapped by every conversion error.
var ErrAnswer = errors.New("invalid answer")

// File is the content of an answers file.
type File struct {
	FillOptional bool           `mapstructure:"fill_optional"`
	Answers      map[string]any `mapstructure:"answers"`
}

// Load reads an answers file from path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open answers: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses an answers document.
func Read(r io.Reader) (*File, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	out := &File{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return out, nil
}

// lookup finds the answer of elem by id, then by name.
func (f *File) lookup(elem domain.InputElement) (any, bool) {
	h := elem.Header()
	if v, ok := f.Answers[strconv.FormatInt(h.ID, 10)]; ok {
		return v, true
	}
	if h.Name == "" {
		return nil, false
	}
	v, ok := f.Answers[h.Name]
	return v, ok
}

// Callback returns a fill callback serving the answers of f.
func (f *File) Callback() runtime.Callback {
	return func(elem domain.InputElement, _, _ int) (any, error) {
		raw, ok := f.lookup(elem)
		if !ok {
			return domain.Default, nil
		}
		v, err := Convert(elem, raw)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", elem.Kind(), elem.Header().Name, err)
		}
		return v, nil
	}
}

// Convert maps a decoded YAML value to a value elem accepts.
func Convert(elem domain.InputElement, raw any) (any, error) {
	if raw == nil {
		return domain.Empty, nil
	}
	if s, ok := raw.(string); ok {
		if sentinel, ok := sentinels[s]; ok {
			return sentinel, nil
		}
	}
	switch e := elem.(type) {
	case *domain.Text, *domain.UserEmail:
		return scalar(raw)
	case *domain.Choice:
		return choice(e, raw)
	case *domain.Grid:
		return grid(e, raw)
	case *domain.Date:
		return date(raw)
	case *domain.Time:
		if e.Kind() == domain.KindDuration {
			return duration(raw)
		}
		return timeOfDay(raw)
	}
	return raw, nil
}

var sentinels = map[string]domain.Sentinel{
	domain.Default.String():   domain.Default,
	domain.Empty.String():     domain.Empty,
	domain.Unchanged.String(): domain.Unchanged,
}

func invalid(raw any, format string, args ...any) error {
	return fmt.Errorf("%w %v: %s", ErrAnswer, raw, fmt.Sprintf(format, args...))
}

func scalar(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	}
	return "", invalid(raw, "expected a scalar")
}

func choice(c *domain.Choice, raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		if c.Kind() == domain.KindScale {
			return v, nil
		}
		return strconv.Itoa(v), nil
	case map[string]any, map[any]any:
		return other(asMap(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			var err error
			if m := asMap(item); m != nil {
				out[i], err = other(m)
			} else {
				out[i], err = scalar(item)
			}
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return scalar(raw)
}

// asMap returns raw as a string keyed map, or nil when it is not a map.
// YAML mappings with non-string keys decode as map[any]any.
func asMap(raw any) map[string]any {
	switch m := raw.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out
	}
	return nil
}

// other reads the {other: text} form of the free-text option.
func other(m map[string]any) (domain.Option, error) {
	text, ok := m["other"]
	if !ok || len(m) != 1 {
		return domain.Option{}, invalid(m, "expected {other: text}")
	}
	s, err := scalar(text)
	if err != nil {
		return domain.Option{}, err
	}
	return domain.Option{Value: s, Other: true}, nil
}

func grid(g *domain.Grid, raw any) (any, error) {
	var rows []any
	if list, ok := raw.([]any); ok {
		rows = list
	} else if m := asMap(raw); m != nil {
		rows = make([]any, len(g.Rows))
		for i, name := range g.Rows {
			rows[i] = m[name]
		}
		for name := range m {
			if !slices.Contains(g.Rows, name) {
				return nil, invalid(raw, "unknown row %q", name)
			}
		}
	} else {
		return nil, invalid(raw, "expected a list or a map of rows")
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		switch r := row.(type) {
		case nil:
			out[i] = domain.Empty
		case []any:
			values := make([]string, len(r))
			for j, item := range r {
				s, err := scalar(item)
				if err != nil {
					return nil, err
				}
				values[j] = s
			}
			out[i] = values
		default:
			s, err := scalar(r)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
	}
	return out, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

func date(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}
	return nil, invalid(raw, "expected YYYY-MM-DD[ HH:MM]")
}

func timeOfDay(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalid(raw, "expected HH:MM")
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, invalid(raw, "expected HH:MM")
	}
	return domain.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func duration(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalid(raw, "expected HH:MM:SS")
	}
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		var total time.Duration
		for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
			n, err := strconv.Atoi(parts[i])
			if err != nil || n < 0 {
				return nil, invalid(raw, "expected HH:MM:SS")
			}
			total += time.Duration(n) * unit
		}
		return total, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, invalid(raw, "expected HH:MM:SS or a duration")
	}
	return d, nil
}
