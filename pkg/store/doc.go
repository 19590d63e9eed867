// Package store defines the storage abstraction used by the RBAC engine's
// services. Implementations live in subpackages (currently GORM/PostgreSQL
// in pkg/store/gorm).
//
// Getters return (nil, nil) when the record is absent; the service layer
// decides whether absence is a NotFound error or a deny. Mutations that hit
// a store uniqueness constraint return a Conflict apperror so races against
// concurrent writers surface the same way as service pre-checks.
package store
