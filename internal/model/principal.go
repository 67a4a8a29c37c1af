package model

// Principal is the authenticated identity attached to a request after token
// verification.  It is immutable for the lifetime of the request.  Admins
// carry a Role (e.g. "petugas", "koordinator"); regular users do not.
//
// Fields:
//  ID      – primary key in the users or admins table depending on IsAdmin.
//  Name    – display name of the person.
//  IsAdmin – whether the principal came from the admins table.
//  Role    – admin role string; empty for regular users.
type Principal struct {
    ID      uint64 // users.id or admins.id
    Name    string // display name
    IsAdmin bool   // true for admins
    Role    string // admins.role, empty for users
}

// ReporterType returns the reporter_type value recorded on reports created
// by this principal.
func (p Principal) ReporterType() string {
    if p.IsAdmin {
        return "admin"
    }
    return "user"
}
