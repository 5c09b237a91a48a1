package redundancy

import (
	"sync"
	"unsafe"

	"github.com/viant/queryc/identity"
	"github.com/viant/queryc/ir"
	"golang.org/x/sync/errgroup"
)

// SkipRedundantNodes removes every selection whose value is already
// guaranteed by an ancestor along the same guaranteed-fetch path (spec.md
// §4.7): fields of the current composite scope, and anything inside an
// InlineFragment or Condition ancestor. It is a pure function of its
// input Program — operations and fragments are processed independently
// and, per spec.md §5, in parallel, sharing one memoization cache.
func SkipRedundantNodes(program *ir.Program) (*ir.Program, error) {
	out := ir.NewProgram(program.Schema)
	cache := newMemoCache()

	var g errgroup.Group
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		g.Go(func() error {
			clone := *op
			sels, _ := processScopeFrom(NewSelectionMap(), op.Selections, cache)
			clone.Selections = sels
			out.PutOperation(&clone)
			return nil
		})
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		g.Go(func() error {
			clone := *f
			sels, _ := processScopeFrom(NewSelectionMap(), f.Selections, cache)
			clone.Selections = sels
			out.PutFragment(&clone)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// pendingMerge is a LinkedField reselection that scopeFrom could not graft
// onto its own output: key's first occurrence was added to some ancestor
// scope's output, reached only through the persistent map this call forked
// from, not through this call's own selection list. It bubbles up through
// the Condition/InlineFragment fork chain until a frame whose own output
// actually holds that LinkedField resolves it (spec.md §4.7 fork).
type pendingMerge struct {
	key      identity.NodeIdentifier
	existing *SelectionMap
	add      []ir.Selection
}

// processScopeFrom is the per-composite-scope algorithm of spec.md §4.7,
// parameterized over its starting map: callers pass NewSelectionMap() for
// an independent retrieval scope (an operation/fragment root, a
// LinkedField's own selections, or a custom-directive InlineFragment's
// selections) and the current accumulated map for a Condition or
// non-custom InlineFragment branch ("fork" — forking is free because the
// map is persistent: the branch simply builds on top of the same value).
//
// Returns the surviving, reordered selections (fields first, conditionals
// last, stable within each group) and the resulting map, so a LinkedField
// caller can store it as that field's child map, and a Condition/
// InlineFragment caller can store it under its own identity key. Every
// caller of processScopeFrom starts an independent scope (NewSelectionMap()),
// so any pendingMerge produced while building it is always resolved
// somewhere within its own call tree before it returns — see scopeFrom.
func processScopeFrom(initial *SelectionMap, sels []ir.Selection, cache *memoCache) ([]ir.Selection, *SelectionMap) {
	out, m, _ := scopeFrom(initial, sels, cache)
	return out, m
}

// scopeFrom is processScopeFrom's fork-aware core. Unlike processScopeFrom,
// it can be invoked with a non-empty, inherited map (a Condition/
// InlineFragment branch forking off a sibling scope) and reports back any
// LinkedField reselection it found present in that inherited map but could
// not locate in its own output, via the returned pendingMerge list.
func scopeFrom(initial *SelectionMap, sels []ir.Selection, cache *memoCache) ([]ir.Selection, *SelectionMap, []pendingMerge) {
	memoEligible := initial.IsEmpty()
	if memoEligible {
		if out, m, ok := cache.lookup(sels); ok {
			return out, m, nil
		}
	}

	ordered := reorderFieldsFirst(sels)
	m := initial
	out := make([]ir.Selection, 0, len(ordered))
	var pending []pendingMerge

	resolve := func(p pendingMerge) {
		if merged, newSub, ok := spliceLinkedField(out, p.key, p.existing, p.add, cache); ok {
			out = merged
			m = m.Insert(p.key, newSub)
			return
		}
		pending = append(pending, p)
	}

	for _, sel := range ordered {
		switch v := sel.(type) {
		case ir.ScalarField:
			key := identity.FromSelection(v)
			if _, present := m.Get(key); present {
				continue
			}
			m = m.Insert(key, nil)
			out = append(out, v)

		case ir.FragmentSpread:
			key := identity.FromSelection(v)
			if _, present := m.Get(key); present {
				continue
			}
			m = m.Insert(key, nil)
			out = append(out, v)

		case ir.LinkedField:
			key := identity.FromSelection(v)
			if existing, present := m.Get(key); present {
				resolve(pendingMerge{key: key, existing: existing, add: v.Selections})
				continue
			}
			childSels, childMap := processScopeFrom(NewSelectionMap(), v.Selections, cache)
			if len(childSels) == 0 {
				continue
			}
			v.Selections = childSels
			m = m.Insert(key, childMap)
			out = append(out, v)

		case ir.InlineFragment:
			key := identity.FromSelection(v)
			if hasCustomDirective(v.Directives) {
				childSels, childMap := processScopeFrom(NewSelectionMap(), v.Selections, cache)
				m = m.Insert(key, childMap)
				if len(childSels) == 0 {
					continue
				}
				v.Selections = childSels
				out = append(out, v)
				continue
			}
			branchSels, branchMap, branchPending := scopeFrom(m, v.Selections, cache)
			m = m.Insert(key, branchMap)
			if len(branchSels) > 0 {
				v.Selections = branchSels
				out = append(out, v)
			}
			for _, p := range branchPending {
				resolve(p)
			}

		case ir.Condition:
			key := identity.FromSelection(v)
			branchSels, branchMap, branchPending := scopeFrom(m, v.Selections, cache)
			m = m.Insert(key, branchMap)
			if len(branchSels) > 0 {
				v.Selections = branchSels
				out = append(out, v)
			}
			for _, p := range branchPending {
				resolve(p)
			}

		default:
			out = append(out, sel)
		}
	}

	if memoEligible {
		cache.store(sels, out, m)
	}
	return out, m, pending
}

// spliceLinkedField locates the LinkedField identified by key within sels,
// searching into Condition/InlineFragment children (transparent retrieval
// scopes that don't own an identity of their own) but not into other
// LinkedFields' own selections, and merges add into its existing children
// using existing for dedupe. Reports false if key's LinkedField isn't
// actually present anywhere in sels.
func spliceLinkedField(sels []ir.Selection, key identity.NodeIdentifier, existing *SelectionMap, add []ir.Selection, cache *memoCache) ([]ir.Selection, *SelectionMap, bool) {
	for i, s := range sels {
		switch v := s.(type) {
		case ir.LinkedField:
			if !identity.FromSelection(v).Equal(key) {
				continue
			}
			newChildren, newSub, childPending := scopeFrom(existing, add, cache)
			v.Selections = append(append([]ir.Selection{}, v.Selections...), newChildren...)
			for _, p := range childPending {
				merged, resolvedSub, ok := spliceLinkedField(v.Selections, p.key, p.existing, p.add, cache)
				if !ok {
					continue
				}
				v.Selections = merged
				newSub = newSub.Insert(p.key, resolvedSub)
			}
			out := append([]ir.Selection{}, sels...)
			out[i] = v
			return out, newSub, true

		case ir.InlineFragment:
			if newSels, newSub, ok := spliceLinkedField(v.Selections, key, existing, add, cache); ok {
				v.Selections = newSels
				out := append([]ir.Selection{}, sels...)
				out[i] = v
				return out, newSub, true
			}

		case ir.Condition:
			if newSels, newSub, ok := spliceLinkedField(v.Selections, key, existing, add, cache); ok {
				v.Selections = newSels
				out := append([]ir.Selection{}, sels...)
				out[i] = v
				return out, newSub, true
			}
		}
	}
	return nil, nil, false
}

// reorderFieldsFirst stably partitions sels into fields (ScalarField,
// LinkedField, FragmentSpread, custom-directive InlineFragment) followed
// by conditionals (Condition, non-custom InlineFragment) — spec.md §4.7
// step 1: "this guarantees that by the time a conditional child is
// processed its field siblings have already populated the map."
func reorderFieldsFirst(sels []ir.Selection) []ir.Selection {
	fields := make([]ir.Selection, 0, len(sels))
	conditionals := make([]ir.Selection, 0, len(sels))
	for _, s := range sels {
		if isConditionalSelection(s) {
			conditionals = append(conditionals, s)
		} else {
			fields = append(fields, s)
		}
	}
	return append(fields, conditionals...)
}

func isConditionalSelection(s ir.Selection) bool {
	switch v := s.(type) {
	case ir.Condition:
		return true
	case ir.InlineFragment:
		return !hasCustomDirective(v.Directives)
	default:
		return false
	}
}

func hasCustomDirective(dirs []ir.Directive) bool {
	for _, d := range dirs {
		if d.IsInternal() {
			return true
		}
	}
	return false
}

// memoCache is the "lock-free concurrent map keyed by pointer; inserts are
// idempotent" spec.md §5 describes. The key is the address of the
// selection slice's backing array (unsafe.SliceData) — the stable
// identity a shared, structurally-reused selection list actually has in
// this IR's value-typed Selection representation, standing in for the
// node-pointer identity a reference-typed IR would use directly.
type memoCache struct {
	entries sync.Map // unsafe.Pointer -> memoEntry
}

type memoEntry struct {
	sels []ir.Selection
	m    *SelectionMap
}

func newMemoCache() *memoCache {
	return &memoCache{}
}

func (c *memoCache) lookup(sels []ir.Selection) ([]ir.Selection, *SelectionMap, bool) {
	key := sliceKey(sels)
	if key == nil {
		return nil, nil, false
	}
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, nil, false
	}
	e := v.(memoEntry)
	return e.sels, e.m, true
}

func (c *memoCache) store(sels []ir.Selection, out []ir.Selection, m *SelectionMap) {
	key := sliceKey(sels)
	if key == nil {
		return
	}
	c.entries.LoadOrStore(key, memoEntry{sels: out, m: m})
}

func sliceKey(sels []ir.Selection) unsafe.Pointer {
	if len(sels) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(sels))
}
