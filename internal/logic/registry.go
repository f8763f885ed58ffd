package logic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/index"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

// Phase is the state of one rule within a pass.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCollecting
	PhaseReady
	PhaseChecked
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCollecting:
		return "collecting"
	case PhaseReady:
		return "ready"
	case PhaseChecked:
		return "checked"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned when Check runs before the corpus is collected.
	ErrNotReady = errors.New("logic pass is not ready")

	// ErrPassClosed is returned when files are collected after Ready.
	ErrPassClosed = errors.New("logic pass no longer collects")
)

// Registry is the explicit list of rules a workspace runs.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry. Rule names must be unique.
func NewRegistry(rules ...Rule) (*Registry, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, ok := seen[r.Name()]; ok {
			return nil, fmt.Errorf("duplicate logic rule %q", r.Name())
		}
		seen[r.Name()] = struct{}{}
	}
	return &Registry{rules: rules}, nil
}

// Rules returns the registered rules in evaluation order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Input is what one file contributes to a pass.
type Input struct {
	Layer      model.Layer
	Entities   []model.Entity
	References []model.Reference
}

type genericPath struct {
	ruleType string
	segs     []string
}

type ruleState struct {
	rule    Rule
	phase   Phase
	generic []genericPath

	records   map[string]map[string]Record
	relations map[string][]model.Reference
}

// Pass holds the state of every rule for one validation cycle. Passes are
// single use; start a new one for every cycle.
type Pass struct {
	schema *schema.Schema
	states []*ruleState
}

// NewPass starts a validation cycle with fresh state for every rule.
func (r *Registry) NewPass(s *schema.Schema) *Pass {
	p := &Pass{schema: s}
	for _, rule := range r.rules {
		st := &ruleState{
			rule:      rule,
			records:   make(map[string]map[string]Record),
			relations: make(map[string][]model.Reference),
		}
		for _, gp := range rule.GenericPaths() {
			ruleType, rest, ok := strings.Cut(gp, ".")
			if !ok {
				continue
			}
			st.generic = append(st.generic, genericPath{ruleType: ruleType, segs: strings.Split(rest, ".")})
		}
		p.states = append(p.states, st)
	}
	return p
}

// Phase returns the phase of the named rule.
func (p *Pass) Phase(rule string) Phase {
	for _, st := range p.states {
		if st.rule.Name() == rule {
			return st.phase
		}
	}
	return PhaseIdle
}

// Collect folds one file into every rule. Entities of both layers feed the
// aggregated records; logic-owned references are only stored from the mod
// layer, since vanilla files are never reported on.
func (p *Pass) Collect(in Input) error {
	for _, st := range p.states {
		switch st.phase {
		case PhaseIdle:
			st.phase = PhaseCollecting
		case PhaseCollecting:
		default:
			return fmt.Errorf("%s: %w", st.rule.Name(), ErrPassClosed)
		}

		for _, e := range in.Entities {
			for _, gp := range st.generic {
				if gp.ruleType != e.Type {
					continue
				}
				partial := prune(map[string]any(e.Fields), gp.segs)
				if partial == nil {
					continue
				}
				byName := st.records[e.Type]
				if byName == nil {
					byName = make(map[string]Record)
					st.records[e.Type] = byName
				}
				merged, _ := Merge(map[string]any(byName[e.Name]), partial).(map[string]any)
				byName[e.Name] = merged
			}
		}

		if in.Layer != model.LayerMod {
			continue
		}
		for _, ref := range in.References {
			if !p.schema.IsDummy(ref.Path) || !st.rule.Owns(ref.Path) {
				continue
			}
			st.relations[ref.Path] = append(st.relations[ref.Path], ref)
		}
	}
	return nil
}

// Ready marks the corpus as complete.
func (p *Pass) Ready() {
	for _, st := range p.states {
		if st.phase == PhaseIdle || st.phase == PhaseCollecting {
			st.phase = PhaseReady
		}
	}
}

// Check evaluates every stored occurrence against the visible index.
// Occurrences are visited by path, then in collection order.
func (p *Pass) Check(idx *index.Index) ([]check.Diagnostic, error) {
	var out []check.Diagnostic
	for _, st := range p.states {
		if st.phase != PhaseReady {
			return nil, fmt.Errorf("%s is %s: %w", st.rule.Name(), st.phase, ErrNotReady)
		}
		env := &Env{records: st.records, index: idx}

		paths := make([]string, 0, len(st.relations))
		for path := range st.relations {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			for _, ref := range st.relations[path] {
				out = append(out, st.rule.Check(env, ref)...)
			}
		}
		st.phase = PhaseChecked
	}
	return out, nil
}
