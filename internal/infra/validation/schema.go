package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mkrupp/blogapi/internal/domain"
)

const maxBodySize = 1 << 20

//nolint:gochecknoglobals
var printer = message.NewPrinter(language.English)

// Schema is a compiled JSON Schema request payloads are checked against before decoding.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles the JSON Schema document source under name.
// Formats such as "email" are asserted, not just annotated.
func Compile(name, source string) (*Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	compiler.AssertFormat()

	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return &Schema{name: name, schema: schema}, nil
}

// MustCompile is like Compile but panics on error. Used for schemas embedded in the binary.
func MustCompile(name, source string) *Schema {
	s, err := Compile(name, source)
	if err != nil {
		panic(err)
	}

	return s
}

// Decode reads a JSON document from r, validates it and decodes it into v.
// Malformed or invalid documents yield a *domain.ValidationError.
func (s *Schema) Decode(r io.Reader, v any) error {
	raw, err := io.ReadAll(io.LimitReader(r, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := s.Validate(raw); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return domain.NewValidationError("malformed JSON body")
	}

	return nil
}

// Validate checks the JSON document raw against the schema.
func (s *Schema) Validate(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return domain.NewValidationError("malformed JSON body")
	}

	err = s.schema.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validate %s: %w", s.name, err)
	}

	return domain.NewValidationError(details(verr)...)
}

// details flattens the leaves of a validation error tree into "location: reason" lines.
func details(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		location := strings.Join(verr.InstanceLocation, ".")
		if location == "" {
			location = "body"
		}

		return []string{location + ": " + verr.ErrorKind.LocalizedString(printer)}
	}

	var out []string
	for _, cause := range verr.Causes {
		out = append(out, details(cause)...)
	}

	slices.Sort(out)

	return slices.Compact(out)
}
