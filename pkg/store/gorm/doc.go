// Package gorm implements the store interfaces using GORM on PostgreSQL.
//
// Role-permission associations are written through explicit join-table
// statements rather than GORM association cascades, so replace-entire-set
// and add-one-permission keep clearly distinct semantics.
package gorm
