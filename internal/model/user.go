package model

import "time"

// Account represents an application user record as stored in the
// `users` table. The role is carried as the canonical Role value no
// matter which schema revision produced the row: older databases keep
// the role inline in `users.role`, newer ones reference `roles` through
// `users.role_id`. RoleFromStorage folds both shapes into one value.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, normalized (trimmed, lower-cased) email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Role         – canonical role of the account.
//  CreatedAt    – timestamp of creation.
type Account struct {
    ID           uint64    `json:"id"`    // users.id
    Name         string    `json:"name"`  // users.name
    Email        string    `json:"email"` // users.email
    PasswordHash string    `json:"-"`     // users.password_hash
    Role         Role      `json:"role"`  // users.role or roles.name via users.role_id
    CreatedAt    time.Time `json:"created_at"`
}

// RoleRecord represents a row in the `roles` table. It maps a small
// integer ID to a role name. Accounts on the normalized schema
// reference it through users.role_id.
type RoleRecord struct {
    ID   uint8  `json:"id"`   // roles.id
    Name string `json:"name"` // roles.name
}
