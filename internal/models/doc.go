// Package models defines domain entities and persistence interfaces for TextTube.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs carrying form or external data
//   - [VideoInput] : fields submitted by the studio forms and bulk imports
//   - [VideoQuery] : search, sort, and filter options for listings
//   - [VideoMetadata] : details resolved from a video URL
//
// 2. Persistent Entities: database-backed models with accessors
//   - [Video] : a published summary with its script and view counter
//   - [User] : the owner account that signs in to the studio
//   - [Session] : a signed-in browser, keyed by the hash of its cookie token
//
// Persistent entities implement [Model]; [Repository] describes the CRUD surface every repository offers.
package models
