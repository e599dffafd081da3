// Package affordance owns the shared visual affordance styles: the
// selection outline and the move and resize cursor classes.
//
// The styles are installed once per engine lifetime. Acquire installs them
// through the surface and returns a Scope; releasing the scope removes them.
package affordance

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// StyleID is the id under which the sheet is injected.
const StyleID = "figurine-affordances"

// Class names applied by the surface.
const (
	ClassSelected = "figurine-selected"
	ClassMove     = "figurine-move"
	ClassResize   = "figurine-resize"
	ClassOverlay  = "figurine-overlay"
)

// Injector is the style capability of a document surface.
type Injector interface {
	InjectStyle(id, sheet string) error
	RemoveStyle(id string)
}

// Rule is one class definition.
type Rule struct {
	Class      string
	Properties map[string]string
}

// DefaultRules returns the affordance rules.
func DefaultRules() []Rule {
	return []Rule{
		{Class: ClassSelected, Properties: map[string]string{"outline": "2px solid #3b82f6", "outline-offset": "2px"}},
		{Class: ClassMove, Properties: map[string]string{"cursor": "move"}},
		{Class: ClassResize, Properties: map[string]string{"cursor": "nwse-resize"}},
		{Class: ClassOverlay, Properties: map[string]string{"position": "absolute", "z-index": "10"}},
	}
}

// Sheet renders rules as a style sheet. Properties are written in sorted
// order so the output is stable.
func Sheet(rules []Rule) string {
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, ".%s {", r.Class)
		keys := make([]string, 0, len(r.Properties))
		for k := range r.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s: %s;", k, r.Properties[k])
		}
		b.WriteString(" }\n")
	}
	return b.String()
}

// Scope is an acquired set of affordance styles.
type Scope struct {
	injector Injector
	id       string
	once     sync.Once
}

// Acquire installs the default affordance sheet.
func Acquire(inj Injector) (*Scope, error) {
	return AcquireRules(inj, DefaultRules())
}

// AcquireRules installs a custom sheet.
func AcquireRules(inj Injector, rules []Rule) (*Scope, error) {
	if err := inj.InjectStyle(StyleID, Sheet(rules)); err != nil {
		return nil, fmt.Errorf("acquire affordances: %w", err)
	}
	return &Scope{injector: inj, id: StyleID}, nil
}

// Release removes the sheet. Calling it more than once is a no-op.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.injector.RemoveStyle(s.id)
	})
}
