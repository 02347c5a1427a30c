package model

import (
    "encoding/json"
    "errors"
    "strings"
)

// Role is one of the fixed permission levels attached to an account.
// The zero value is not a valid role.
type Role uint8

const (
    RoleAdmin Role = iota + 1
    RoleSeller
    RoleBuyer
)

// ErrUnknownRole is returned when a stored or submitted role name does
// not map to any Role.
var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
    RoleAdmin:  "admin",
    RoleSeller: "seller",
    RoleBuyer:  "buyer",
}

// Roles lists every valid role in a stable order.
func Roles() []Role { return []Role{RoleAdmin, RoleSeller, RoleBuyer} }

// String returns the canonical lower-case name used in storage and JSON.
func (r Role) String() string {
    if n, ok := roleNames[r]; ok {
        return n
    }
    return ""
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    _, ok := roleNames[r]
    return ok
}

// ParseRole maps a role name to its Role. Matching ignores case and
// surrounding whitespace so "Seller" and " seller " are equivalent.
func ParseRole(s string) (Role, error) {
    s = strings.ToLower(strings.TrimSpace(s))
    for r, n := range roleNames {
        if n == s {
            return r, nil
        }
    }
    return 0, ErrUnknownRole
}

// RoleFromStorage resolves the canonical role of a users row. When the
// row references a roles entity its name wins; otherwise the inline
// column is used.
func RoleFromStorage(inline string, ref *RoleRecord) (Role, error) {
    if ref != nil && strings.TrimSpace(ref.Name) != "" {
        return ParseRole(ref.Name)
    }
    return ParseRole(inline)
}

func (r Role) MarshalJSON() ([]byte, error) {
    return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    parsed, err := ParseRole(s)
    if err != nil {
        return err
    }
    *r = parsed
    return nil
}
