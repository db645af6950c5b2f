// Package models defines domain entities and persistence interfaces for ytcat.
//
// The package contains two categories of types:
//
// 1. Catalog values: immutable records produced by the catalog client
//   - [Song] : a playable catalog item with duration in whole seconds
//   - [SongSet] : ordered songs in catalog response order
//   - [SearchResult] : a page of songs plus the continuation token
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [InsertJob] : a playlist import tracked from creation to completion
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
