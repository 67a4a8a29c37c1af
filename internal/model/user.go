package model

import "time"

// User represents a citizen account as stored in the `users` table.  Each
// field corresponds to a column in the database.  The json tags are omitted
// here because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name shown on reports.
//  Address      – home address, substituted into reports on request.
//  Phone        – contact phone number.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Name         string    // users.name
    Address      string    // users.address
    Phone        string    // users.phone
    CreatedAt    time.Time // users.created_at
}

// Admin represents a row in the `admins` table.  Admins receive push alerts
// for new reports and are the only principals allowed to change a report's
// status.
//
// Fields:
//  ID           – primary key identifier of the admin.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name.
//  Role         – admin role (e.g. "petugas", "koordinator").
//  CreatedAt    – timestamp of creation.
type Admin struct {
    ID           uint64    // admins.id
    Username     string    // admins.username
    PasswordHash string    // admins.password_hash
    Name         string    // admins.name
    Role         string    // admins.role
    CreatedAt    time.Time // admins.created_at
}
