// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package ops implements the operator table: declared function types for the
// named operators an IR may call. Operators are declared, never defined; an
// operator's shape behavior lives in the type relations its declared type
// carries. Tables are populated in code or loaded from YAML declaration
// files.
package ops

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Mauvesr/tensile/relations"
	"github.com/Mauvesr/tensile/types"
)

// Table maps operator names to their declared types. A table is immutable
// once populated and may be shared between concurrent inference runs.
type Table struct {
	rels   *relations.Registry
	byName map[string]*types.Func
	names  []string
}

// NewTable creates an empty operator table. Relation references in
// registered types are validated against rels.
func NewTable(rels *relations.Registry) *Table {
	return &Table{rels: rels, byName: make(map[string]*types.Func, 16)}
}

// Register adds an operator under a unique name. The declared type's
// relations must exist in the table's registry with matching arity.
func (t *Table) Register(name string, ft *types.Func) error {
	if name == "" {
		return fmt.Errorf("ops: operator name must not be empty")
	}
	if ft == nil {
		return fmt.Errorf("ops: operator %s has no type", name)
	}
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("ops: operator %s is already registered", name)
	}
	for _, rel := range ft.Relations {
		if t.rels == nil {
			return fmt.Errorf("ops: operator %s names relation %s but no registry is attached", name, rel.Name)
		}
		_, arity, ok := t.rels.Lookup(rel.Name)
		if !ok {
			return fmt.Errorf("ops: operator %s names unknown relation %s", name, rel.Name)
		}
		if len(rel.Args) != arity {
			return fmt.Errorf("ops: operator %s applies relation %s to %d slots, want %d",
				name, rel.Name, len(rel.Args), arity)
		}
	}
	t.byName[name] = ft
	t.names = append(t.names, name)
	return nil
}

// Lookup returns the declared type of an operator.
func (t *Table) Lookup(name string) (*types.Func, bool) {
	ft, ok := t.byName[name]
	return ft, ok
}

// Names returns the registered operator names, sorted.
func (t *Table) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	sort.Strings(names)
	return names
}

// Len reports the number of registered operators.
func (t *Table) Len() int { return len(t.names) }

// The YAML declaration format:
//
//	ops:
//	  - name: add
//	    params:
//	      - {name: lhs, kind: type}
//	      - {name: rhs, kind: type}
//	      - {name: out, kind: type}
//	    args: [lhs, rhs]
//	    ret: out
//	    relations:
//	      - {name: broadcast, args: [lhs, rhs, out]}
//	  - name: matmul
//	    params:
//	      - {name: d, kind: basetype}
//	      - {name: n, kind: shapevar}
//	      - {name: k, kind: shapevar}
//	      - {name: m, kind: shapevar}
//	    args: ["Tensor[(n, k), d]", "Tensor[(k, m), d]"]
//	    ret: "Tensor[(n, m), d]"
//
// Type expressions are written in the same syntax types print with; names
// resolve to the declared params first, then to element data-types.
type declFile struct {
	Ops []opDecl `yaml:"ops"`
}

type opDecl struct {
	Name      string      `yaml:"name"`
	Params    []paramDecl `yaml:"params,omitempty"`
	Args      []string    `yaml:"args"`
	Ret       string      `yaml:"ret"`
	Relations []relDecl   `yaml:"relations,omitempty"`
}

type paramDecl struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type relDecl struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Load reads a YAML operator declaration file into a fresh table.
func Load(path string, rels *relations.Registry) (*Table, error) {
	t := NewTable(rels)
	if err := t.LoadFile(path); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads a YAML operator declaration file into the table, adding to
// any operators already registered.
func (t *Table) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ops: reading %s: %w", path, err)
	}
	if err := t.Parse(data); err != nil {
		return fmt.Errorf("ops: parsing %s: %w", path, err)
	}
	return nil
}

// Parse decodes YAML operator declarations into the table.
func (t *Table) Parse(data []byte) error {
	var file declFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	if len(file.Ops) == 0 {
		return fmt.Errorf("no ops declared")
	}
	for i, decl := range file.Ops {
		if decl.Name == "" {
			return fmt.Errorf("ops[%d]: name is required", i)
		}
		ft, err := buildOpType(decl)
		if err != nil {
			return fmt.Errorf("ops[%d] (%s): %w", i, decl.Name, err)
		}
		if err := t.Register(decl.Name, ft); err != nil {
			return err
		}
	}
	return nil
}

func buildOpType(decl opDecl) (*types.Func, error) {
	params := make([]*types.TypeParam, len(decl.Params))
	paramEnv := make(map[string]*types.TypeParam, len(decl.Params))
	for i, p := range decl.Params {
		if p.Name == "" {
			return nil, fmt.Errorf("params[%d]: name is required", i)
		}
		if _, ok := paramEnv[p.Name]; ok {
			return nil, fmt.Errorf("params[%d]: duplicate param %s", i, p.Name)
		}
		kind, ok := types.KindFromString(p.Kind)
		if !ok {
			return nil, fmt.Errorf("params[%d] (%s): unknown kind %q", i, p.Name, p.Kind)
		}
		tp := types.NewTypeParam(p.Name, kind)
		params[i] = tp
		paramEnv[p.Name] = tp
	}

	if len(decl.Args) == 0 {
		return nil, fmt.Errorf("args are required")
	}
	args := make([]types.Type, len(decl.Args))
	for i, src := range decl.Args {
		arg, err := parseType(src, paramEnv)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		if k := staticKind(arg); k != types.KindType {
			return nil, fmt.Errorf("args[%d]: %s is a %s, not a value type", i, src, k)
		}
		args[i] = arg
	}

	if decl.Ret == "" {
		return nil, fmt.Errorf("ret is required")
	}
	ret, err := parseType(decl.Ret, paramEnv)
	if err != nil {
		return nil, fmt.Errorf("ret: %w", err)
	}
	if k := staticKind(ret); k != types.KindType {
		return nil, fmt.Errorf("ret: %s is a %s, not a value type", decl.Ret, k)
	}

	rels := make([]types.Relation, len(decl.Relations))
	for i, r := range decl.Relations {
		if r.Name == "" {
			return nil, fmt.Errorf("relations[%d]: name is required", i)
		}
		slots := make([]types.Type, len(r.Args))
		for j, src := range r.Args {
			slot, err := parseType(src, paramEnv)
			if err != nil {
				return nil, fmt.Errorf("relations[%d] (%s): args[%d]: %w", i, r.Name, j, err)
			}
			slots[j] = slot
		}
		rels[i] = types.Relation{Name: r.Name, Args: slots}
	}

	return &types.Func{TypeParams: params, Args: args, Return: ret, Relations: rels}, nil
}

// staticKind classifies a parsed type expression. Parsed types never contain
// incomplete types, so no arena is needed.
func staticKind(t types.Type) types.Kind {
	switch t := t.(type) {
	case *types.Prim:
		return types.KindBaseType
	case *types.Size:
		return types.KindShapeVar
	case *types.TypeParam:
		return t.Kind()
	default:
		return types.KindType
	}
}
