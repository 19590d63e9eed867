// Package server assembles the admin HTTP API: routing, actor token
// verification and the endpoint handlers under pkg/server/endpoints.
//
// Every admin endpoint sits behind the role gate; the distinguished super
// role (config super_role_name, "admin" by default) is required for all
// catalog and workflow mutations.
package server
