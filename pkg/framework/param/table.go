package param

import (
	"fmt"
)

// Table is the fixed set of parameters a plugin exposes, addressed by
// index in declaration order. A table is built once when the plugin is
// described and never mutated afterwards, so lookups need no locking.
type Table struct {
	params []*Param
	byName map[string]*Param
}

// NewTable finalizes the given builders into an indexed table.
// Indices follow declaration order. Duplicate names and invalid
// builder configuration are declaration bugs, so both panic.
func NewTable(builders ...*Builder) *Table {
	t := &Table{
		params: make([]*Param, 0, len(builders)),
		byName: make(map[string]*Param, len(builders)),
	}

	for i, b := range builders {
		p := b.build(i)
		if _, exists := t.byName[p.Info.Name]; exists {
			panic(fmt.Sprintf("param: duplicate parameter name %q", p.Info.Name))
		}
		t.params = append(t.params, p)
		t.byName[p.Info.Name] = p
	}

	return t
}

// Count returns the number of parameters.
func (t *Table) Count() int {
	return len(t.params)
}

// Get returns the parameter at index, or nil if out of range.
func (t *Table) Get(index int) *Param {
	if index < 0 || index >= len(t.params) {
		return nil
	}
	return t.params[index]
}

// ByName returns the parameter with the given name, or nil.
func (t *Table) ByName(name string) *Param {
	return t.byName[name]
}

// All returns the parameters in index order.
func (t *Table) All() []*Param {
	result := make([]*Param, len(t.params))
	copy(result, t.params)
	return result
}
