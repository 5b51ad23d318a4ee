// Package tenantdb provides per-tenant, per-collection persistence of JSON
// records on top of a [kv.Storage].
//
// # Overview
//
// A [Collection] is one entity collection of one tenant. It reads the whole
// collection from a single storage key on first use, keeps it cached in
// memory, and writes the whole collection back on every mutation. A
// [Document] is the single-object variant used for per-tenant settings.
//
// [Store] owns the storage and hands out one cached handle per storage key,
// so that every caller of the same (tenant, collection) pair observes the
// same state.
//
// # Failure Model
//
// Storage failures never surface as errors. A failed read resolves into an
// empty collection; a failed write still applies the change in memory. Both
// are logged and reported through [Collection.Err]. Only caller mistakes
// (missing tenant, invalid record) are returned as errors.
//
// # Storage Format
//
// Collections live at "{collection}_data_{tenant}" as a JSON array of
// objects, each carrying an "id" field. See [Key].
package tenantdb
