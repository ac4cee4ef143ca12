package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mercator-hq/ruleengine/pkg/rule"

	"gopkg.in/yaml.v3"
)

// File is a decoded seed file.
type File struct {
	Rules []Entry `yaml:"rules"`
}

// Entry is one named rule in a seed file.
type Entry struct {
	Name string `yaml:"name"`
	Rule string `yaml:"rule"`
}

// EntryError reports a rejected entry. Index is zero-based.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("rules[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("rules[%d] (%s): %v", e.Index, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ReadFile reads and validates the seed file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a seed file and validates every entry. Unknown keys are
// rejected. The returned error joins one *EntryError per bad entry.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks names and compiles every rule.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]int, len(f.Rules))
	for i, e := range f.Rules {
		name := strings.TrimSpace(e.Name)
		switch {
		case name == "":
			errs = append(errs, &EntryError{Index: i, Err: errors.New("name is required")})
			continue
		case seen[name] > 0:
			errs = append(errs, &EntryError{Index: i, Name: name,
				Err: fmt.Errorf("duplicate name, first used by rules[%d]", seen[name]-1)})
			continue
		}
		seen[name] = i + 1

		if _, err := rule.Compile(e.Rule); err != nil {
			errs = append(errs, &EntryError{Index: i, Name: name, Err: err})
		}
	}
	return errors.Join(errs...)
}
