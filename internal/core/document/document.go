// Package document converts between the nested forest documents exchanged
// over HTTP and on disk (JSON or YAML) and the arena forests the matcher
// works on.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/hiermatch/internal/core/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the document format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type NodeDocument struct {
	// ID is only needed on nodes that other nodes reference.
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Type       string            `json:"type" yaml:"type" binding:"required"`
	Label      string            `json:"label" yaml:"label"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Refs       []string          `json:"refs,omitempty" yaml:"refs,omitempty"`
	Children   []NodeDocument    `json:"children,omitempty" yaml:"children,omitempty" binding:"dive"`
}

type ResourceDocument struct {
	Name  string         `json:"name" yaml:"name" binding:"required"`
	Roots []NodeDocument `json:"roots" yaml:"roots" binding:"dive"`
}

type ForestDocument struct {
	Resources []ResourceDocument `json:"resources" yaml:"resources" binding:"dive"`
}

func Decode(data []byte, format Format) (*ForestDocument, error) {
	var doc ForestDocument
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	}
	return &doc, nil
}

// Forest builds the arena forest. References are resolved eagerly; an
// unknown or duplicate id is an ErrInvalidInput.
func (d *ForestDocument) Forest() (*model.Forest, error) {
	f := model.NewForest()
	ids := make(map[string]model.NodeID)
	type pending struct {
		from model.NodeID
		refs []string
	}
	var refs []pending

	var add func(n NodeDocument) (model.NodeID, error)
	add = func(n NodeDocument) (model.NodeID, error) {
		id := f.AddNode(n.Type, n.Label)
		for k, v := range n.Attributes {
			f.SetAttr(id, k, v)
		}
		if n.ID != "" {
			if _, dup := ids[n.ID]; dup {
				return model.NoNode, fmt.Errorf("%w: duplicate node id %q", model.ErrInvalidInput, n.ID)
			}
			ids[n.ID] = id
		}
		if len(n.Refs) > 0 {
			refs = append(refs, pending{from: id, refs: n.Refs})
		}
		for _, c := range n.Children {
			child, err := add(c)
			if err != nil {
				return model.NoNode, err
			}
			f.AddChild(id, child)
		}
		return id, nil
	}

	for _, res := range d.Resources {
		roots := make([]model.NodeID, 0, len(res.Roots))
		for _, r := range res.Roots {
			id, err := add(r)
			if err != nil {
				return nil, err
			}
			roots = append(roots, id)
		}
		f.AddResource(res.Name, roots...)
	}

	for _, p := range refs {
		for _, ref := range p.refs {
			to, ok := ids[ref]
			if !ok {
				return nil, fmt.Errorf("%w: node %d references unknown id %q", model.ErrInvalidInput, p.from, ref)
			}
			f.AddReference(p.from, to)
		}
	}

	return f, nil
}

// FromForest renders a forest back into a nested document. Referenced nodes
// get synthetic ids of the form "n<index>".
func FromForest(f *model.Forest) *ForestDocument {
	referenced := make(map[model.NodeID]bool)
	for _, n := range f.Nodes {
		for _, r := range n.References {
			referenced[r] = true
		}
	}

	var node func(id model.NodeID) NodeDocument
	node = func(id model.NodeID) NodeDocument {
		n := f.Nodes[id]
		doc := NodeDocument{Type: n.TypeTag, Label: n.Label}
		if len(n.Attributes) > 0 {
			doc.Attributes = make(map[string]string, len(n.Attributes))
			for k, v := range n.Attributes {
				doc.Attributes[k] = v
			}
		}
		if referenced[id] {
			doc.ID = fmt.Sprintf("n%d", id)
		}
		for _, r := range n.References {
			doc.Refs = append(doc.Refs, fmt.Sprintf("n%d", r))
		}
		for _, c := range n.Children {
			doc.Children = append(doc.Children, node(c))
		}
		return doc
	}

	doc := &ForestDocument{Resources: make([]ResourceDocument, 0, len(f.Resources))}
	for _, res := range f.Resources {
		rd := ResourceDocument{Name: res.Name, Roots: make([]NodeDocument, 0, len(res.Roots))}
		for _, r := range res.Roots {
			rd.Roots = append(rd.Roots, node(r))
		}
		doc.Resources = append(doc.Resources, rd)
	}
	return doc
}
