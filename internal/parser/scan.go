package parser

import (
	"strconv"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

// ParsedDocument is everything the scanner extracted from one rule file.
type ParsedDocument struct {
	FilePath    string
	Definitions []model.Definition
	References  []model.Reference
	Entities    []model.Entity
}

// projectilesType is the only sprite sheet whose entries imply more frames
// than they list.
const projectilesType = "extraSprites.Projectiles"

// Scan flattens a parsed rule tree into definitions, references and entity
// records. It never fails: paths the schema does not know become generic
// references.
func Scan(file string, root *Node, s *schema.Schema) *ParsedDocument {
	sc := &scanner{
		schema: s,
		doc:    &ParsedDocument{FilePath: file},
	}
	if root == nil || root.Kind != KindMap {
		return sc.doc
	}

	for _, section := range root.Pairs {
		ruleType := section.Key.Value
		switch section.Value.Kind {
		case KindList:
			for _, item := range section.Value.Items {
				if item.Kind == KindMap {
					sc.scanEntity(ruleType, item)
					continue
				}
				sc.walk(ruleType, "", item, frame{})
			}
		default:
			sc.walk(ruleType, "", section.Value, frame{})
		}
	}
	return sc.doc
}

type scanner struct {
	schema *schema.Schema
	doc    *ParsedDocument
}

// frame is the container a scalar was found in, used for metadata capture.
type frame struct {
	parent *Node
	list   *Node
	index  int
}

func (sc *scanner) scanEntity(ruleType string, item *Node) {
	prefix := ruleType
	if field, ok := sc.schema.Qualifier(ruleType); ok {
		if q, ok := item.Get(field).Scalar(); ok {
			prefix = ruleType + "." + q
		}
	}

	var owner string
	var nameField string
	if field, ok := sc.schema.DefinitionField(ruleType); ok {
		nameField = field
		for _, p := range item.Pairs {
			if p.Key.Value != field {
				continue
			}
			name, ok := p.Value.Scalar()
			if !ok {
				break
			}
			owner = name
			def := model.Definition{
				Type:  ruleType,
				Name:  name,
				File:  sc.doc.FilePath,
				Range: p.Value.Range,
			}
			if hasIgnoreDuplicate(p) || strings.Contains(item.Comment, model.MetaIgnoreDuplicate) {
				def.Metadata = map[string]any{model.MetaIgnoreDuplicate: true}
			}
			sc.doc.Definitions = append(sc.doc.Definitions, def)
			break
		}
	}

	if owner != "" {
		fields, _ := item.Plain().(map[string]any)
		sc.doc.Entities = append(sc.doc.Entities, model.Entity{
			Type:   ruleType,
			Name:   owner,
			File:   sc.doc.FilePath,
			Range:  item.Range,
			Fields: fields,
		})
	}

	for _, p := range item.Pairs {
		field := p.Key.Value
		if field == nameField {
			continue
		}
		path := prefix + "." + field
		if field == "files" && prefix != ruleType && p.Value.Kind == KindMap {
			sc.scanFiles(prefix, owner, item, p.Value)
			continue
		}
		sc.walkField(path, owner, item, p)
	}
}

// scanFiles handles the id -> file path mapping of a sprite or sound sheet.
// Each key defines an id of the qualified sheet type.
func (sc *scanner) scanFiles(sheet, owner string, entity, files *Node) {
	height, hasHeight := intField(entity, "height")
	subY, hasSubY := intField(entity, "subY")

	for _, p := range files.Pairs {
		id := p.Key.Value
		sc.doc.Definitions = append(sc.doc.Definitions, model.Definition{
			Type:  sheet,
			Name:  id,
			File:  sc.doc.FilePath,
			Range: p.Key.Range,
		})

		if sheet == projectilesType && hasHeight && hasSubY && subY > 0 {
			if base, err := strconv.Atoi(id); err == nil {
				for i := 1; i < height/subY; i++ {
					sc.doc.Definitions = append(sc.doc.Definitions, model.Definition{
						Type:     sheet,
						Name:     strconv.Itoa(base + i),
						File:     sc.doc.FilePath,
						Range:    p.Key.Range,
						Metadata: map[string]any{model.MetaSynthetic: true},
					})
				}
			}
		}

		sc.walk(sheet+".files."+id, owner, p.Value, frame{parent: files})
	}
}

// walkField visits one mapping entry. Key reference paths turn the keys of
// their mapping into references before the values are walked.
func (sc *scanner) walkField(path, owner string, parent *Node, p Pair) {
	if p.Value.Kind == KindMap && sc.schema.IsKeyReference(path) {
		for _, entry := range p.Value.Pairs {
			sc.emit(path, entry.Key.Value, owner, entry.Key.Range, frame{parent: p.Value})
		}
		for _, entry := range p.Value.Pairs {
			sc.walk(path+"."+entry.Key.Value, owner, entry.Value, frame{parent: p.Value})
		}
		return
	}
	sc.walk(path, owner, p.Value, frame{parent: parent})
}

func (sc *scanner) walk(path, owner string, n *Node, f frame) {
	switch n.Kind {
	case KindMap:
		for _, p := range n.Pairs {
			sc.walkField(path+"."+p.Key.Value, owner, n, p)
		}
	case KindList:
		for i, item := range n.Items {
			if item.IsContainer() {
				sc.walk(path+"[]", owner, item, frame{parent: f.parent, list: n, index: i})
				continue
			}
			sc.walk(path, owner, item, frame{parent: f.parent, list: n, index: i})
		}
	default:
		key, ok := n.Scalar()
		if !ok {
			return
		}
		sc.emit(path, key, owner, n.Range, f)
	}
}

func (sc *scanner) emit(path, key, owner string, rng model.SourceRange, f frame) {
	ref := model.Reference{
		Path:  path,
		Key:   key,
		File:  sc.doc.FilePath,
		Range: rng,
		Owner: owner,
	}
	if fields := sc.schema.MetadataFields(path); len(fields) > 0 {
		ref.Metadata = captureMetadata(fields, f)
	}
	sc.doc.References = append(sc.doc.References, ref)
}

// captureMetadata records the named sibling fields of the enclosing mapping.
// The field "*" records every scalar of the enclosing list and the position
// inside it.
func captureMetadata(fields []string, f frame) map[string]any {
	meta := make(map[string]any, len(fields))
	for _, field := range fields {
		if field == "*" {
			if f.list == nil {
				continue
			}
			siblings := make([]string, 0, len(f.list.Items))
			for _, item := range f.list.Items {
				if v, ok := item.Scalar(); ok {
					siblings = append(siblings, v)
				}
			}
			meta[model.MetaSiblings] = siblings
			meta[model.MetaIndex] = f.index
			continue
		}
		if v, ok := f.parent.Get(field).Scalar(); ok {
			meta[field] = v
		}
	}
	return meta
}

func hasIgnoreDuplicate(p Pair) bool {
	for _, c := range []string{p.Key.Comment, p.Value.Comment} {
		if strings.Contains(c, model.MetaIgnoreDuplicate) {
			return true
		}
	}
	return false
}

func intField(n *Node, field string) (int, bool) {
	v, ok := n.Get(field).Scalar()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}
