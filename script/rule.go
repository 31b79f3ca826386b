// Package script compiles user-supplied transition rules written in the
// tengo scripting language. Rules receive the local state of a tile through
// pre-declared globals and report the next state through the `next` global,
// which lets experiments swap automaton behavior without recompiling.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// CellRule evaluates a scripted transition for a two dimensional cell.
// The script sees `alive` (bool) and `neighbors` (int) and must assign
// `next` (bool). A CellRule is not safe for concurrent use; hand each
// worker its own copy via Clone.
type CellRule struct {
	compiled *tengo.Compiled
}

// CompileCellRule compiles src into a reusable cell rule. Compilation
// errors surface here, not at evaluation time.
func CompileCellRule(src string) (*CellRule, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty rule script")
	}

	s := tengo.NewScript([]byte(src))
	_ = s.Add("alive", false)
	_ = s.Add("neighbors", 0)
	_ = s.Add("next", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile rule: %w", err)
	}
	return &CellRule{compiled: compiled}, nil
}

// Clone returns an independent copy backed by the same bytecode.
func (r *CellRule) Clone() *CellRule {
	return &CellRule{compiled: r.compiled.Clone()}
}

// Next runs the rule for a cell with the given liveness and live
// neighbor count.
func (r *CellRule) Next(alive bool, neighbors int) (bool, error) {
	if err := r.compiled.Set("alive", alive); err != nil {
		return false, err
	}
	if err := r.compiled.Set("neighbors", neighbors); err != nil {
		return false, err
	}
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("run rule: %w", err)
	}
	return r.compiled.Get("next").Bool(), nil
}

// RowRule evaluates a scripted transition for a one dimensional automaton
// row. The script sees `left`, `center` and `right` (bools) and must
// assign `next` (bool). Like CellRule it is single-goroutine; use Clone
// for concurrent evaluation.
type RowRule struct {
	compiled *tengo.Compiled
}

// CompileRowRule compiles src into a reusable row rule.
func CompileRowRule(src string) (*RowRule, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty rule script")
	}

	s := tengo.NewScript([]byte(src))
	_ = s.Add("left", false)
	_ = s.Add("center", false)
	_ = s.Add("right", false)
	_ = s.Add("next", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile rule: %w", err)
	}
	return &RowRule{compiled: compiled}, nil
}

// Clone returns an independent copy backed by the same bytecode.
func (r *RowRule) Clone() *RowRule {
	return &RowRule{compiled: r.compiled.Clone()}
}

// Next runs the rule for a cell given its own state and the states of
// its row neighbors.
func (r *RowRule) Next(left, center, right bool) (bool, error) {
	if err := r.compiled.Set("left", left); err != nil {
		return false, err
	}
	if err := r.compiled.Set("center", center); err != nil {
		return false, err
	}
	if err := r.compiled.Set("right", right); err != nil {
		return false, err
	}
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("run rule: %w", err)
	}
	return r.compiled.Get("next").Bool(), nil
}

// ElementaryScript renders the classic encoding of a one dimensional
// automaton rule as a tengo RowRule source. Bit k of rule holds the next
// state for the neighborhood pattern with value k.
func ElementaryScript(rule uint8) string {
	return fmt.Sprintf(`
pattern := 0
if left { pattern |= 4 }
if center { pattern |= 2 }
if right { pattern |= 1 }
next = (%d >> pattern) & 1 == 1
`, rule)
}
