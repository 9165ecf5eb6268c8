// Package intern deduplicates SharedString values by content, so that
// equal texts coming from different places end up on one buffer.
package intern

import (
	"strings"

	"github.com/armon/go-radix"

	"github.com/fixkme/uicore/mlog"
	"github.com/fixkme/uicore/sharedstring"
)

// Pool holds one reference to every interned text. Not safe for
// concurrent use.
type Pool struct {
	tree *radix.Tree
}

func NewPool() *Pool {
	return &Pool{tree: radix.New()}
}

// Intern returns a handle on the pooled value equal to s, creating it on
// first use. The caller owns the returned handle and must Release it.
func (p *Pool) Intern(s string) (sharedstring.SharedString, error) {
	if v, ok := p.Lookup(s); ok {
		return v, nil
	}
	v, err := sharedstring.New(s)
	if err != nil {
		return v, err
	}
	if v.IsEmpty() {
		return v, nil
	}
	// inner nodes keep substrings of their keys, so the tree gets its own
	// copy rather than an alias into a buffer that may be recycled
	p.tree.Insert(strings.Clone(s), v)
	return v.Clone(), nil
}

// Lookup returns a new handle on an already interned text.
func (p *Pool) Lookup(s string) (sharedstring.SharedString, bool) {
	if len(s) == 0 {
		return sharedstring.Default(), true
	}
	raw, ok := p.tree.Get(s)
	if !ok {
		return sharedstring.SharedString{}, false
	}
	return raw.(sharedstring.SharedString).Clone(), true
}

// WalkPrefix visits pooled values starting with prefix in lexical order
// until fn returns false. The values passed to fn are borrowed.
func (p *Pool) WalkPrefix(prefix string, fn func(v sharedstring.SharedString) bool) {
	p.tree.WalkPrefix(prefix, func(_ string, raw interface{}) bool {
		return !fn(raw.(sharedstring.SharedString))
	})
}

// Prune drops every entry that only the pool still references and
// returns how many went away.
func (p *Pool) Prune() int {
	var dead []string
	p.tree.Walk(func(k string, raw interface{}) bool {
		if raw.(sharedstring.SharedString).RefCount() == 1 {
			dead = append(dead, k)
		}
		return false
	})
	for _, k := range dead {
		p.remove(k)
	}
	if len(dead) > 0 {
		mlog.Debugf("intern pool pruned %d entries, %d left", len(dead), p.tree.Len())
	}
	return len(dead)
}

func (p *Pool) remove(k string) {
	raw, ok := p.tree.Delete(k)
	if !ok {
		return
	}
	v := raw.(sharedstring.SharedString)
	v.Release()
}

func (p *Pool) Len() int {
	return p.tree.Len()
}

// Close releases the pool's references. Handles given out stay valid.
func (p *Pool) Close() {
	var keys []string
	p.tree.Walk(func(k string, _ interface{}) bool {
		keys = append(keys, k)
		return false
	})
	for _, k := range keys {
		p.remove(k)
	}
}
