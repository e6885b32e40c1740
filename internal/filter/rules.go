package filter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the uncompiled filter configuration. Each field is a list of
// regular expressions; nil and empty lists impose no constraint.
type Rules struct {
	DenySubject   []string `json:"denySubjLike,omitempty" yaml:"denySubjLike,omitempty"`
	PassSubject   []string `json:"passSubjLike,omitempty" yaml:"passSubjLike,omitempty"`
	DenyPredicate []string `json:"denyPredLike,omitempty" yaml:"denyPredLike,omitempty"`
	PassPredicate []string `json:"passPredLike,omitempty" yaml:"passPredLike,omitempty"`
	DenyObject    []string `json:"denyObjLike,omitempty" yaml:"denyObjLike,omitempty"`
	PassObject    []string `json:"passObjLike,omitempty" yaml:"passObjLike,omitempty"`
	DenyEntity    []string `json:"denyEntityLike,omitempty" yaml:"denyEntityLike,omitempty"`
	PassEntity    []string `json:"passEntityLike,omitempty" yaml:"passEntityLike,omitempty"`
}

// IsEmpty reports whether no list carries a pattern.
func (r Rules) IsEmpty() bool {
	for _, l := range r.lists() {
		if len(l.patterns) > 0 {
			return false
		}
	}

	return true
}

// Merge returns the list-wise concatenation of r and other.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		DenySubject:   concat(r.DenySubject, other.DenySubject),
		PassSubject:   concat(r.PassSubject, other.PassSubject),
		DenyPredicate: concat(r.DenyPredicate, other.DenyPredicate),
		PassPredicate: concat(r.PassPredicate, other.PassPredicate),
		DenyObject:    concat(r.DenyObject, other.DenyObject),
		PassObject:    concat(r.PassObject, other.PassObject),
		DenyEntity:    concat(r.DenyEntity, other.DenyEntity),
		PassEntity:    concat(r.PassEntity, other.PassEntity),
	}
}

func concat(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	return append(append([]string{}, a...), b...)
}

type rawList struct {
	name     string
	role     role
	deny     bool
	patterns []string
}

// lists returns all eight lists, deny lists first.
func (r Rules) lists() []rawList {
	return []rawList{
		{"denySubjLike", roleSubject, true, r.DenySubject},
		{"denyPredLike", rolePredicate, true, r.DenyPredicate},
		{"denyObjLike", roleObject, true, r.DenyObject},
		{"denyEntityLike", roleEntity, true, r.DenyEntity},
		{"passSubjLike", roleSubject, false, r.PassSubject},
		{"passPredLike", rolePredicate, false, r.PassPredicate},
		{"passObjLike", roleObject, false, r.PassObject},
		{"passEntityLike", roleEntity, false, r.PassEntity},
	}
}

// LoadRules reads a rules document from a YAML file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided rules file
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes a rules document. Unknown keys are rejected.
func ParseRules(data []byte) (Rules, error) {
	var r Rules

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return Rules{}, nil
		}

		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}

	return r, nil
}
