// Package models defines the records exchanged between the NetEase API client, the state store, and the tasks that connect them.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): JSON-tagged records mirroring the API payloads
//   - [Playlist] : Playlist summary, or detail when Tracks is populated
//   - [Album] : Album summary, or detail when Songs/Description are populated
//   - [Track], [Artist], [Creator], [Profile] : Nested records
//   - [Comment], [CommentThread] : Paginated playlist comments
//   - [SearchResults] : Search hits for every search tab
//
// 2. Persistent Entities: Database-backed models with lifecycle metadata
//   - [LoginRecord] : One successful login, kept as history
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
package models
