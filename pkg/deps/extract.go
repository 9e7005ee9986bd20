package deps

import (
	"fmt"
	"strings"

	"github.com/matzehuels/depwalk/pkg/registry"
)

// Kind identifies which mapping of a version record a declaration came from.
type Kind int

const (
	Runtime Kind = iota // "dependencies"
	Peer                // "peerDependencies"
	Dev                 // "devDependencies"
)

func (k Kind) String() string {
	switch k {
	case Runtime:
		return "runtime"
	case Peer:
		return "peer"
	case Dev:
		return "dev"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name in JSON exports.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, kind := range []Kind{Runtime, Peer, Dev} {
		if kind.String() == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown dependency kind %q", b)
}

// Declaration is one dependency edge as written in a version record.
// Range is the raw version constraint; it is carried for reporting and is
// never solved.
type Declaration struct {
	Name  string `json:"name"`
	Range string `json:"range,omitempty"`
	Kind  Kind   `json:"kind"`
}

// Extract returns the dependency declarations of rec following the
// fallback policy described in the package documentation. A nil record
// has no declarations.
func Extract(rec *registry.VersionRecord) []Declaration {
	if rec == nil {
		return nil
	}
	if len(rec.Dependencies) > 0 {
		return collect(nil, make(map[string]bool), rec.Dependencies, Runtime)
	}

	seen := make(map[string]bool)
	out := collect(nil, seen, rec.PeerDependencies, Peer)
	return collect(out, seen, rec.DevDependencies, Dev)
}

func collect(out []Declaration, seen map[string]bool, m registry.DependencyMap, kind Kind) []Declaration {
	for _, d := range m {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, Declaration{Name: d.Name, Range: d.Range, Kind: kind})
	}
	return out
}

// Filter returns the declarations whose name contains substr. Matching is
// case-sensitive; an empty substr admits every declaration. The input slice
// is not modified.
func Filter(decls []Declaration, substr string) []Declaration {
	if substr == "" {
		return decls
	}
	var out []Declaration
	for _, d := range decls {
		if strings.Contains(d.Name, substr) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the declaration names in order.
func Names(decls []Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}
