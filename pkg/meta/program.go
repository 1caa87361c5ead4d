// Package meta assembles label text from image metadata fields and literal
// snippets.
package meta

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies what a Field renders.
type Kind int

const (
	Literal Kind = iota
	DateTaken
	CameraModel
	ImageDimensions
	GPSCoordinates
)

// Kinds lists the metadata kinds a Lookup can resolve.
var Kinds = []Kind{DateTaken, CameraModel, ImageDimensions, GPSCoordinates}

func (k Kind) String() string {
	switch k {
	case DateTaken:
		return "date"
	case CameraModel:
		return "camera model"
	case ImageDimensions:
		return "image size"
	case GPSCoordinates:
		return "gps location"
	default:
		return "text"
	}
}

var kindNames = map[string]Kind{
	"date":  DateTaken,
	"model": CameraModel,
	"size":  ImageDimensions,
	"gps":   GPSCoordinates,
}

// ParseKind accepts date, model, size and gps.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return Literal, fmt.Errorf("meta: unknown field %q", s)
}

// Field is one item of a Program: a metadata reference or a literal text.
type Field struct {
	Kind Kind
	Text string
}

// Text returns a literal field.
func Text(s string) Field {
	return Field{Kind: Literal, Text: s}
}

// Ref returns a metadata field.
func Ref(k Kind) Field {
	return Field{Kind: k}
}

// UnmarshalYAML decodes either a field name (date, model, size, gps) or a
// mapping with a text key.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		k, err := ParseKind(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*f = Ref(k)
		return nil
	case yaml.MappingNode:
		var v struct {
			Text *string `yaml:"text"`
		}
		if err := value.Decode(&v); err != nil {
			return err
		}
		if v.Text == nil {
			return fmt.Errorf("line %d: meta: mapping without text key", value.Line)
		}
		*f = Text(*v.Text)
		return nil
	default:
		return fmt.Errorf("line %d: meta: unexpected yaml node", value.Line)
	}
}

// Program is the ordered list of fields rendered into a label.
type Program []Field

// ReadProgram loads a program from a YAML file.
func ReadProgram(path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meta: couldn't read program %s: %w", path, err)
	}
	return ParseProgram(b)
}

// ParseProgram decodes a YAML list of fields.
func ParseProgram(b []byte) (Program, error) {
	var p Program
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("meta: couldn't parse program: %w", err)
	}
	return p, nil
}

// ErrMissing is returned by lookups when the image has no value for a field.
var ErrMissing = errors.New("meta: no data")

// Lookup resolves metadata fields.
type Lookup interface {
	Lookup(k Kind) (string, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(k Kind) (string, error)

func (f LookupFunc) Lookup(k Kind) (string, error) {
	return f(k)
}

// Fallback is the text rendered for fields without a value.
func Fallback(k Kind) string {
	return "no data for " + k.String()
}

// DefaultSeparator separates assembled fields.
const DefaultSeparator = " - "

// Assemble builds the label text. Fields are rendered in order with sep
// between them; lookup failures render Fallback instead.
func Assemble(p Program, lookup Lookup, sep string) string {
	var sb strings.Builder
	for i, f := range p {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(resolve(f, lookup))
	}
	return sb.String()
}

func resolve(f Field, lookup Lookup) string {
	if f.Kind == Literal {
		return f.Text
	}
	if lookup == nil {
		return Fallback(f.Kind)
	}
	v, err := lookup.Lookup(f.Kind)
	if err != nil || v == "" {
		return Fallback(f.Kind)
	}
	return v
}
