// Package dbconn distinguishes the two database credentials the app runs on.
//
// Scoped is the regular credential every handler and repo uses. Trusted is the
// elevated credential that bypasses per-row ownership policies; it is injected
// into exactly two places (order creation, guest provisioning) and must never
// reach request-handling code directly.
package dbconn

import "gorm.io/gorm"

type Scoped struct{ *gorm.DB }

type Trusted struct{ *gorm.DB }

func NewScoped(db *gorm.DB) Scoped   { return Scoped{db} }
func NewTrusted(db *gorm.DB) Trusted { return Trusted{db} }
