// Package serializer shapes entity representations for output: a named
// field group selects which fields are emitted, a since-version marker hides
// fields from callers on older API versions, and a link builder attaches
// hypermedia links gated by the caller's role.
//
// Shaping is a pure function of (entity, group, version, granted roles). It
// runs after the cache so a shared cached page can never leak one caller's
// version- or role-specific output to another.
package serializer

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor API version.
type Version struct {
	Major int
	Minor int
}

// V1 and V2 mark where fields were introduced.
var (
	V1 = Version{1, 0}
	V2 = Version{2, 0}
)

// ParseVersion parses "major.minor". Malformed input resolves to V1 so an
// odd header can only hide newer fields, never expose them.
func ParseVersion(s string) Version {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 2)

	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 1 {
		return V1
	}

	minor := 0
	if len(parts) == 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 0 {
			minor = m
		}
	}

	return Version{Major: major, Minor: minor}
}

// AtLeast reports whether v >= other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Link is a single hypermedia reference.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its target.
type Links map[string]Link

// Doc accumulates the visible fields of one representation. Fields are
// declared with the groups they belong to and, optionally, the version that
// introduced them; only fields matching the active group and version make it
// into the output map.
type Doc struct {
	group   string
	version Version
	out     map[string]interface{}
}

func NewDoc(group string, version Version) *Doc {
	return &Doc{
		group:   group,
		version: version,
		out:     make(map[string]interface{}),
	}
}

func (d *Doc) inGroup(groups []string) bool {
	for _, g := range groups {
		if g == d.group {
			return true
		}
	}
	return false
}

// Field emits a field visible in all versions.
func (d *Doc) Field(name string, value interface{}, groups ...string) *Doc {
	if d.inGroup(groups) {
		d.out[name] = value
	}
	return d
}

// FieldSince emits a field only when the active version is >= since.
func (d *Doc) FieldSince(name string, value interface{}, since Version, groups ...string) *Doc {
	if d.version.AtLeast(since) && d.inGroup(groups) {
		d.out[name] = value
	}
	return d
}

// Links attaches the hypermedia block.
func (d *Doc) Links(links Links) *Doc {
	if len(links) > 0 {
		d.out["_links"] = links
	}
	return d
}

// Map returns the shaped representation.
func (d *Doc) Map() map[string]interface{} {
	return d.out
}

// LinkBuilder generates resource links rooted at the API base URL.
type LinkBuilder struct {
	baseURL string
}

func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// URLFor returns the canonical detail URL for a resource, used both for
// links and for the Location header on create.
func (lb *LinkBuilder) URLFor(resource string, id int64) string {
	return fmt.Sprintf("%s/api/v1/%s/%d", lb.baseURL, resource, id)
}

// ResourceLinks builds the link block for one entity: self always, update
// and delete only for callers allowed to mutate.
func (lb *LinkBuilder) ResourceLinks(resource string, id int64, canMutate bool) Links {
	href := lb.URLFor(resource, id)

	links := Links{"self": {Href: href}}
	if canMutate {
		links["update"] = Link{Href: href}
		links["delete"] = Link{Href: href}
	}
	return links
}
