package workspace

import (
	"sort"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/hierarchy"
	"github.com/aidanlsb/oxcheck/internal/index"
	"github.com/aidanlsb/oxcheck/internal/logic"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/parser"
)

// Validate runs one full pass over the current corpus: deletions, the
// visible index, reference checks on mod files, duplicate detection and the
// logic rules. Every mod rule file appears in the report, with or without
// diagnostics. Running it twice on an unchanged corpus gives equal reports.
func (w *Workspace) Validate() (*check.Report, error) {
	w.passMu.Lock()
	defer w.passMu.Unlock()

	entries := w.snapshot()

	files := make([]hierarchy.File, 0, len(entries))
	for _, e := range entries {
		if e.doc == nil {
			continue
		}
		files = append(files, hierarchy.File{
			Path:        e.path,
			Layer:       e.layer,
			Definitions: e.doc.Definitions,
			References:  e.doc.References,
		})
	}
	resolver := hierarchy.Resolve(files)

	idx := index.New()
	for _, f := range files {
		idx.Add(f.Layer, resolver.Visible(f.Layer, f.Definitions))
	}

	report := check.NewReport()
	validator := check.NewValidator(w.opts.Schema, idx)
	for _, e := range entries {
		if e.layer != model.LayerMod || e.kind != KindRules {
			continue
		}
		report.Touch(e.path)
		if e.doc != nil {
			report.Add(validator.ValidateAll(e.doc.References)...)
		}
	}

	if !w.opts.SkipDuplicates {
		report.Add(check.DuplicateDiagnostics(idx.Duplicates(w.opts.Schema))...)
	}

	if !w.opts.SkipLogic {
		pass := w.registry.NewPass(w.opts.Schema)
		for _, e := range entries {
			if e.doc == nil {
				continue
			}
			in := logic.Input{Layer: e.layer, Entities: e.doc.Entities, References: e.doc.References}
			if e.layer == model.LayerVanilla {
				in.Entities = visibleEntities(resolver, e.doc.Entities)
			}
			if err := pass.Collect(in); err != nil {
				return nil, err
			}
		}
		pass.Ready()
		diags, err := pass.Check(idx)
		if err != nil {
			return nil, err
		}
		report.Add(diags...)
	}

	w.mu.Lock()
	w.last = report
	w.mu.Unlock()

	w.logDebug("Pass complete: %d definitions, %d diagnostics", idx.Len(), report.Len())
	return report, nil
}

func visibleEntities(r *hierarchy.Resolver, entities []model.Entity) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if r.Deleted(e.Type, e.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Translations returns the merged locale stream: for each (locale, key) the
// mod text wins over vanilla, and later mod files win over earlier ones.
// The result is sorted by locale, then key.
func (w *Workspace) Translations() []parser.Translation {
	type key struct{ locale, key string }
	merged := make(map[key]parser.Translation)
	for _, e := range w.snapshot() {
		for _, tr := range e.translations {
			merged[key{tr.Locale, tr.Key}] = tr
		}
	}

	out := make([]parser.Translation, 0, len(merged))
	for _, tr := range merged {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Locale != out[j].Locale {
			return out[i].Locale < out[j].Locale
		}
		return out[i].Key < out[j].Key
	})
	return out
}
