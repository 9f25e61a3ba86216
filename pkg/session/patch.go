package session

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DataField is the root of every editable field path.
const DataField = "data"

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FieldPath is a validated dotted selector rooted at the session data,
// e.g. "data" or "data.profile.role". Structural fields such as token or
// expiresAt can never be addressed.
type FieldPath string

// ParseFieldPath validates a dotted selector.
func ParseFieldPath(path string) (FieldPath, error) {
	parts := strings.Split(path, ".")
	if parts[0] != DataField {
		return "", fmt.Errorf("%w: %q must start with %q", ErrInvalidFieldPath, path, DataField)
	}
	for _, seg := range parts[1:] {
		if !segmentPattern.MatchString(seg) {
			return "", fmt.Errorf("%w: %q has invalid segment %q", ErrInvalidFieldPath, path, seg)
		}
	}
	return FieldPath(path), nil
}

// String returns the dotted form, which is also the document path in stores
// that address nested fields natively.
func (p FieldPath) String() string { return string(p) }

// Segments returns the keys below the data root. Empty for the root itself.
func (p FieldPath) Segments() []string {
	parts := strings.Split(string(p), ".")
	return parts[1:]
}

// IsRoot reports whether the path replaces the whole data object.
func (p FieldPath) IsRoot() bool { return string(p) == DataField }

// FieldUpdate sets Value at Path.
type FieldUpdate struct {
	Path  FieldPath
	Value any
}

// Patch describes an atomic mutation applied by Store.FindAndUpdate.
type Patch struct {
	// ExtendExpiry moves expiresAt forward to this instant.
	// It never moves it backwards. Zero leaves expiry untouched.
	ExtendExpiry time.Time

	// Set rewrites fields inside the session data.
	Set []FieldUpdate
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.ExtendExpiry.IsZero() && len(p.Set) == 0
}

// Apply mutates s in place. Stores without a native nested update primitive
// call it while holding their own atomicity guarantee.
func (p Patch) Apply(s *Session) error {
	for _, u := range p.Set {
		if err := setField(s, u); err != nil {
			return err
		}
	}
	if !p.ExtendExpiry.IsZero() && p.ExtendExpiry.After(s.ExpiresAt) {
		s.ExpiresAt = p.ExtendExpiry
	}
	return nil
}

func setField(s *Session, u FieldUpdate) error {
	if u.Path.IsRoot() {
		m, ok := u.Value.(map[string]any)
		if !ok || m == nil {
			return fmt.Errorf("%w: %q requires an object value", ErrInvalidFieldPath, DataField)
		}
		s.Data = cloneMap(m)
		return nil
	}

	if s.Data == nil {
		s.Data = make(map[string]any)
	}

	segs := u.Path.Segments()
	cur := s.Data
	for i, seg := range segs[:len(segs)-1] {
		next, exists := cur[seg]
		if !exists || next == nil {
			m := make(map[string]any)
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			prefix := strings.Join(append([]string{DataField}, segs[:i+1]...), ".")
			return fmt.Errorf("%w: %q is not an object", ErrInvalidFieldPath, prefix)
		}
		cur = m
	}
	cur[segs[len(segs)-1]] = cloneValue(u.Value)
	return nil
}
