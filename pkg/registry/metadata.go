package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/depwalk/pkg/errors"
)

// LatestTag is the dist-tag an unpinned reference resolves to.
const LatestTag = "latest"

// PackageRef identifies a package to fetch. Version is a pinned version,
// a dist-tag, or empty for the latest tag.
type PackageRef struct {
	Name    string
	Version string
}

// Pinned reports whether the reference asks for something other than the
// latest tag.
func (r PackageRef) Pinned() bool {
	return r.Version != "" && r.Version != LatestTag
}

func (r PackageRef) String() string {
	if !r.Pinned() {
		return r.Name
	}
	return r.Name + "@" + r.Version
}

// Dependency is one entry of a dependency map: a package name and the
// version range it was declared with.
type Dependency struct {
	Name  string
	Range string
}

// DependencyMap is a JSON object of name -> version range decoded in
// document order. Later duplicates of a name are dropped.
type DependencyMap []Dependency

// UnmarshalJSON decodes the object token by token so the declaration order
// of the document survives.
func (m *DependencyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("dependency map: expected object, got %v", tok)
	}

	var out DependencyMap
	seen := make(map[string]bool)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := kt.(string)

		var rng any
		if err := dec.Decode(&rng); err != nil {
			return err
		}
		s, ok := rng.(string)
		if !ok {
			return fmt.Errorf("dependency %q: version range must be a string, got %T", name, rng)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Dependency{Name: name, Range: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalJSON encodes the map as a JSON object in declaration order.
func (m DependencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.Range)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Names returns the dependency names in declaration order.
func (m DependencyMap) Names() []string {
	names := make([]string, len(m))
	for i, d := range m {
		names[i] = d.Name
	}
	return names
}

// VersionRecord is the metadata of one published version.
type VersionRecord struct {
	Name             string        `json:"name"`
	Version          string        `json:"version,omitempty"`
	Description      string        `json:"description,omitempty"`
	Dependencies     DependencyMap `json:"dependencies,omitempty"`
	PeerDependencies DependencyMap `json:"peerDependencies,omitempty"`
	DevDependencies  DependencyMap `json:"devDependencies,omitempty"`
}

// Metadata is the registry document of a package: every known version
// plus the dist-tags pointing into them.
type Metadata struct {
	Name     string
	Tags     map[string]string
	Versions map[string]*VersionRecord
}

// Latest returns the version the latest tag points to.
func (m *Metadata) Latest() string { return m.Tags[LatestTag] }

// Select returns the record for version. An empty version or "latest"
// selects the latest tag; other dist-tags are followed too. Pinned
// versions match exactly first, then by semantic version equality, so
// "v1.2.0" finds "1.2.0". No range solving is attempted.
func (m *Metadata) Select(version string) (*VersionRecord, error) {
	if version == "" {
		version = LatestTag
	}
	if tagged, ok := m.Tags[version]; ok {
		rec := m.Versions[tagged]
		if rec == nil {
			return nil, errors.MalformedMetadataError(nil, "%s: tag %q points to missing version %s", m.Name, version, tagged)
		}
		return rec, nil
	}
	if version == LatestTag {
		return nil, errors.MalformedMetadataError(nil, "%s: no latest tag", m.Name)
	}

	if rec := m.Versions[version]; rec != nil {
		return rec, nil
	}
	if want, err := semver.NewVersion(version); err == nil {
		for _, k := range slices.Sorted(maps.Keys(m.Versions)) {
			if have, err := semver.NewVersion(k); err == nil && have.Equal(want) && m.Versions[k] != nil {
				return m.Versions[k], nil
			}
		}
	}
	return nil, errors.NotFoundError("%s: version %s not found", m.Name, version)
}

type packument struct {
	Name     string                    `json:"name"`
	DistTags map[string]string         `json:"dist-tags"`
	Versions map[string]*VersionRecord `json:"versions"`
}

type shapeProbe struct {
	Versions json.RawMessage `json:"versions"`
}

// DecodeMetadata parses a registry document for package name. Two shapes
// are accepted: a full packument ({"dist-tags", "versions"}) and a single
// version record ({"version", "dependencies", ...}), the latter treated as
// a one-version document tagged latest.
func DecodeMetadata(name string, data []byte) (*Metadata, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.MalformedMetadataError(nil, "%s: metadata must be a JSON object", name)
	}

	var probe shapeProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, errors.MalformedMetadataError(err, "%s: decode metadata", name)
	}

	if len(probe.Versions) > 0 && !bytes.Equal(probe.Versions, []byte("null")) {
		var doc packument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, errors.MalformedMetadataError(err, "%s: decode packument", name)
		}
		if doc.DistTags[LatestTag] == "" {
			return nil, errors.MalformedMetadataError(nil, "%s: packument has no latest tag", name)
		}
		if doc.Name == "" {
			doc.Name = name
		}
		return &Metadata{Name: doc.Name, Tags: doc.DistTags, Versions: doc.Versions}, nil
	}

	var rec VersionRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, errors.MalformedMetadataError(err, "%s: decode version record", name)
	}
	if rec.Name == "" {
		rec.Name = name
	}
	version := rec.Version
	if version == "" {
		version = LatestTag
	}
	return &Metadata{
		Name:     rec.Name,
		Tags:     map[string]string{LatestTag: version},
		Versions: map[string]*VersionRecord{version: &rec},
	}, nil
}
