// Package models defines domain entities and persistence interfaces for spotdir.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): lightweight structs describing catalog data
//   - [Profile] : the authenticated catalog user
//   - [Collection] : a playlist created by a sync run
//
// 2. Persistent Entities: database-backed models
//   - [AuthEntry] : one slot of login session state (PKCE verifier, OAuth state, access token)
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
