// Package runtime maps a language tag from a submission to an immutable
// descriptor chosen at startup, and infers the family used to pick a static
// filter and a resource-limit profile.
package runtime

import (
	"strings"

	"github.com/cretz/sandboxd/config"
)

// Family classifies a runtime for purposes of static filtering and resource
// limit exemptions.
type Family int

const (
	// FamilyPython covers CPython-like interpreters invoked with -c.
	FamilyPython Family = iota
	// FamilyJS covers JavaScript-like engines invoked with -e.
	FamilyJS
)

func (f Family) String() string {
	if f == FamilyJS {
		return "js-like"
	}
	return "python-like"
}

// Descriptor is a named execution backend. Immutable after construction.
type Descriptor struct {
	Name           string
	Family         Family
	Command        string
	Enabled        bool
	AllowedModules map[string]struct{}
}

// Registry is the immutable, startup-built set of runtime descriptors.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds a Registry from loaded configuration. The family of
// each descriptor is inferred from its name: "nodejs" is js-like, every
// other name is treated as python-like.
func NewRegistry(cfg config.Config) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(cfg.Runtimes))}
	for name, rc := range cfg.Runtimes {
		allowed := make(map[string]struct{}, len(rc.AllowedPackages))
		for _, pkg := range rc.AllowedPackages {
			allowed[pkg] = struct{}{}
		}
		r.byName[name] = Descriptor{
			Name:           name,
			Family:         familyFor(name),
			Command:        rc.Command,
			Enabled:        rc.Enabled,
			AllowedModules: allowed,
		}
	}
	return r
}

func familyFor(name string) Family {
	if name == "nodejs" {
		return FamilyJS
	}
	return FamilyPython
}

// Resolve maps a language tag to an enabled Descriptor. "python" aliases to
// "python3" when python3 exists and is enabled. Returns false if no enabled
// descriptor matches.
func (r *Registry) Resolve(language string) (Descriptor, bool) {
	language = strings.TrimSpace(language)
	if language == "python" {
		if d, ok := r.byName["python3"]; ok && d.Enabled {
			return d, true
		}
	}
	d, ok := r.byName[language]
	if !ok || !d.Enabled {
		return Descriptor{}, false
	}
	return d, true
}

// All returns every registered descriptor keyed by name, for the health
// endpoint's "runtimes" mirror of the registry (disabled entries included,
// since the health check reports the whole configured set, not just what
// dispatch would accept).
func (r *Registry) All() map[string]Descriptor {
	out := make(map[string]Descriptor, len(r.byName))
	for k, v := range r.byName {
		out[k] = v
	}
	return out
}
