// Package roles maps the logical role groups used by route definitions to
// the concrete role tags the authorizer checks against.
package roles

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownGroup is returned by Resolve for a group outside the enumeration.
var ErrUnknownGroup = errors.New("unknown role group")

// ErrUnknownTag is returned when a wire value does not name a role tag.
var ErrUnknownTag = errors.New("unknown role tag")

// RoleTag names a user category.
type RoleTag string

const (
	Volunteer    RoleTag = "VOLUNTEER"
	Organization RoleTag = "ONG"
)

// AllTags lists every role tag in declaration order.
func AllTags() []RoleTag {
	return []RoleTag{Volunteer, Organization}
}

// ParseRoleTag maps a wire value to a RoleTag. Matching is case-insensitive.
func ParseRoleTag(s string) (RoleTag, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Volunteer):
		return Volunteer, nil
	case string(Organization):
		return Organization, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

// Valid reports whether t is one of the declared tags, exactly.
func (t RoleTag) Valid() bool {
	return t == Volunteer || t == Organization
}

// UnmarshalJSON rejects role tags outside the enumeration.
func (t *RoleTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tag, err := ParseRoleTag(s)
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// RoleGroup is the policy name a route definition refers to.
type RoleGroup int

const (
	// Guest routes are unrestricted.
	Guest RoleGroup = iota
	VolunteerOnly
	OrganizationOnly
	Authenticated
)

func (g RoleGroup) String() string {
	switch g {
	case Guest:
		return "guest"
	case VolunteerOnly:
		return "volunteer-only"
	case OrganizationOnly:
		return "organization-only"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("RoleGroup(%d)", int(g))
}

// Requirement is an immutable set of role tags. The zero value is the empty
// set, which means the route is unrestricted.
type Requirement struct {
	tags map[RoleTag]struct{}
}

func newRequirement(tags ...RoleTag) Requirement {
	if len(tags) == 0 {
		return Requirement{}
	}
	set := make(map[RoleTag]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return Requirement{tags: set}
}

// Empty reports whether the requirement admits any visitor.
func (r Requirement) Empty() bool {
	return len(r.tags) == 0
}

// Allows reports whether tag is a member of the requirement set.
func (r Requirement) Allows(tag RoleTag) bool {
	_, ok := r.tags[tag]
	return ok
}

// Tags returns a sorted copy of the member tags.
func (r Requirement) Tags() []RoleTag {
	out := make([]RoleTag, 0, len(r.tags))
	for t := range r.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r Requirement) String() string {
	if r.Empty() {
		return "*"
	}
	tags := r.Tags()
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Resolve translates a group into its requirement set.
func Resolve(group RoleGroup) (Requirement, error) {
	switch group {
	case Guest:
		return newRequirement(), nil
	case VolunteerOnly:
		return newRequirement(Volunteer), nil
	case OrganizationOnly:
		return newRequirement(Organization), nil
	case Authenticated:
		return newRequirement(Volunteer, Organization), nil
	}
	return Requirement{}, fmt.Errorf("%w: %s", ErrUnknownGroup, group)
}

// MustResolve is Resolve for package-level tables; it panics on an unknown group.
func MustResolve(group RoleGroup) Requirement {
	req, err := Resolve(group)
	if err != nil {
		panic(err)
	}
	return req
}
