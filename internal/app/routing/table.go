// Package routing assembles the route table from the definition units that
// feature packages contribute and mounts it on gin behind the authorizer.
package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

var (
	ErrDuplicatePath     = errors.New("duplicate route path")
	ErrInvalidDefinition = errors.New("invalid route definition")
)

// View produces the content of a page. Errors wrapping models.ErrNotFound
// render the not-found page; anything else is a server error.
type View func(c *gin.Context) (templ.Component, error)

// Definition is one route as authored by a feature package.
type Definition struct {
	Path   string
	Title  string
	Group  roles.RoleGroup
	Layout layout.Config
	View   View
	// Actions are extra handlers on the same path keyed by HTTP method,
	// gated by the same requirement as the view.
	Actions map[string]gin.HandlerFunc
}

// Descriptor is a Definition with its requirement resolved. Treat it as
// read-only.
type Descriptor struct {
	Definition
	Requirement roles.Requirement
}

// Table is the assembled, ordered set of descriptors.
type Table struct {
	descriptors []Descriptor
	byPath      map[string]int
}

// Assemble builds the table from definition units, in the order given. Any
// configuration error aborts assembly.
func Assemble(units ...[]Definition) (*Table, error) {
	t := &Table{byPath: make(map[string]int)}
	for _, unit := range units {
		for _, def := range unit {
			if err := validate(def); err != nil {
				return nil, err
			}
			if _, dup := t.byPath[def.Path]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, def.Path)
			}
			for _, d := range t.descriptors {
				if conflicts(d.Path, def.Path) {
					return nil, fmt.Errorf("%w: %s conflicts with %s", ErrDuplicatePath, def.Path, d.Path)
				}
			}
			req, err := roles.Resolve(def.Group)
			if err != nil {
				return nil, fmt.Errorf("route %s: %w", def.Path, err)
			}

			t.byPath[def.Path] = len(t.descriptors)
			t.descriptors = append(t.descriptors, Descriptor{Definition: def, Requirement: req})
		}
	}
	return t, nil
}

// conflicts reports whether gin would refuse to register both a and b: the
// same shape under different wildcard names, differing wildcard names at a
// shared position, or a catch-all beside any other segment.
func conflicts(a, b string) bool {
	sa := strings.Split(strings.TrimPrefix(a, "/"), "/")
	sb := strings.Split(strings.TrimPrefix(b, "/"), "/")
	for i := 0; i < len(sa) && i < len(sb); i++ {
		x, y := sa[i], sb[i]
		switch {
		case strings.HasPrefix(x, "*") || strings.HasPrefix(y, "*"):
			return true
		case strings.HasPrefix(x, ":") && strings.HasPrefix(y, ":"):
			if x != y {
				return true
			}
		case x != y:
			// a static segment may sit beside a parameter
			return false
		}
	}
	return len(sa) == len(sb)
}

func validate(def Definition) error {
	switch {
	case def.Path == "" || !strings.HasPrefix(def.Path, "/"):
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidDefinition, def.Path)
	case def.View == nil && len(def.Actions) == 0:
		return fmt.Errorf("%w: %s has neither view nor actions", ErrInvalidDefinition, def.Path)
	}
	for method, h := range def.Actions {
		if h == nil {
			return fmt.Errorf("%w: %s %s has a nil handler", ErrInvalidDefinition, method, def.Path)
		}
	}
	return nil
}

// Descriptors returns the descriptors in insertion order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.descriptors))
	copy(out, t.descriptors)
	return out
}

// Lookup finds the descriptor registered for path.
func (t *Table) Lookup(path string) (Descriptor, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Descriptor{}, false
	}
	return t.descriptors[i], true
}

func (t *Table) Len() int { return len(t.descriptors) }
