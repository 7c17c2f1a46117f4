// Package model mirrors the ledger's zome types as seen through the HTTP gateway.
//
// This package contains type definitions only. The gateway, mapper, syncer and
// workflow packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Hash values (action hashes, agent keys) are canonical "u"-prefixed base64url
//     strings in memory. On the wire they may be strings or byte arrays depending
//     on the gateway version; Hash accepts both when decoding.
//   - Timestamps are microseconds since the Unix epoch, as the ledger stores them.
//   - Enumerations are closed. Unknown wire values are rejected, never passed through.
//   - Fields whose remote schema is unspecified are carried as Blob (raw JSON).
//   - Optional fields are pointers and encode as null when unset.
//   - All JSON tags use snake_case.
package model
