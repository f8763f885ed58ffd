package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/oxcheck/internal/model"
)

// ParseRules parses a rule file. The top level must be a mapping from rule
// type to content; an empty document yields an empty mapping.
func ParseRules(data []byte) (*Node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return emptyMap(&doc), nil
		}
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	c := newConverter(&doc)
	root, err := c.convert(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if root.IsNull() {
		return emptyMap(&doc), nil
	}
	if root.Kind != KindMap {
		return nil, fmt.Errorf("failed to parse rules: top level is not a mapping (line %d)", root.Range.Start.Line)
	}
	return root, nil
}

// Translation is one localized string.
type Translation struct {
	Locale string
	Key    string
	Text   string
	File   string
	Range  model.SourceRange
}

// ParseTranslations parses a locale file: a mapping from locale name to a
// mapping of string id to text. Non-scalar texts are skipped.
func ParseTranslations(file string, data []byte) ([]Translation, error) {
	root, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	var out []Translation
	for _, locale := range root.Pairs {
		if locale.Value.Kind != KindMap {
			continue
		}
		for _, entry := range locale.Value.Pairs {
			text, ok := entry.Value.Scalar()
			if !ok {
				continue
			}
			out = append(out, Translation{
				Locale: locale.Key.Value,
				Key:    entry.Key.Value,
				Text:   text,
				File:   file,
				Range:  entry.Key.Range,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Locale != out[j].Locale {
			return out[i].Locale < out[j].Locale
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
