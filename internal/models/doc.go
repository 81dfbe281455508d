// Package models defines the domain entities of the reelx movie discovery core.
//
// The package contains three groups of types:
//
// 1. Movie metadata, as returned by the external movie API:
//   - [Movie] : summary record shown in lists and stored as a favorite
//   - [Page] : one page of list results with paging totals
//   - [MovieDetails], [Credits], [Video] : detail view data
//   - [Genre] : id/name pair
//
// 2. Session data:
//   - [Account] : registered user, stored with its plaintext password
//   - [Session] : the redacted projection of an [Account]
//
// 3. Preferences:
//   - [FilterSet] : genre, year range and rating range applied to listings
//   - [Theme] : light or dark presentation mode
//
// Types carry JSON tags matching the persisted key-value layout and the external API payloads.
package models
