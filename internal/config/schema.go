package config

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/config.schema.json
var schemaJSON []byte

const schemaURL = "compgen.schema.json"

// schemaCache compiles the embedded schema on first use.
type schemaCache struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var (
	configSchema schemaCache
	messages     = message.NewPrinter(language.English)
)

func (c *schemaCache) get() (*jsonschema.Schema, error) {
	c.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			c.err = fmt.Errorf("decoding embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			c.err = fmt.Errorf("registering embedded schema: %w", err)
			return
		}
		if c.schema, err = compiler.Compile(schemaURL); err != nil {
			c.err = fmt.Errorf("compiling embedded schema: %w", err)
		}
	})
	return c.schema, c.err
}

// ValidationResult is the outcome of checking a config document.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // JSON pointer into the document, "" for the root
	Message string
	Keyword string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError is returned by Load when the config file violates the schema.
type ValidationError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid config %s", e.Path)
	for i, issue := range e.Issues {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(issue.String())
	}
	return b.String()
}

// Validate checks a YAML config document against the embedded schema. An
// empty document is valid. The error return is reserved for documents that
// are not YAML and for schema compilation failures.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := configSchema.get()
	if err != nil {
		return nil, err
	}

	inst, err := yamlToInstance(data)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &ValidationResult{Issues: issuesOf(verr)}, nil
}

// yamlToInstance decodes YAML and re-encodes it as a JSON instance so numbers
// reach the validator as json.Number.
func yamlToInstance(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	encoded, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
}

// stringKeys rewrites maps with non-string keys, which JSON cannot encode.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, elem := range t {
			t[k] = stringKeys(elem)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[fmt.Sprint(k)] = stringKeys(elem)
		}
		return out
	case []any:
		for i, elem := range t {
			t[i] = stringKeys(elem)
		}
		return t
	}
	return v
}

// wrapperKeywords only group other failures.
var wrapperKeywords = map[string]bool{"": true, "$ref": true, "allOf": true}

// issuesOf flattens the leaves of a validation error tree, sorted by path.
func issuesOf(verr *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	stack := []*jsonschema.ValidationError{verr}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(e.Causes) > 0 {
			stack = append(stack, e.Causes...)
			continue
		}
		if e.ErrorKind == nil {
			continue
		}
		kw := e.ErrorKind.KeywordPath()
		keyword := ""
		if len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		if wrapperKeywords[keyword] {
			continue
		}
		path := ""
		if len(e.InstanceLocation) > 0 {
			path = "/" + strings.Join(e.InstanceLocation, "/")
		}
		issues = append(issues, ValidationIssue{
			Path:    path,
			Message: e.ErrorKind.LocalizedString(messages),
			Keyword: keyword,
		})
	}

	if len(issues) == 0 {
		return []ValidationIssue{{Message: verr.Error()}}
	}
	slices.SortFunc(issues, func(a, b ValidationIssue) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Keyword, b.Keyword),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return slices.Compact(issues)
}
