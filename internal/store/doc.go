// Package store is the facade over the remote secret storage service.
//
// A store maps secret ids to opaque string payloads. tc-secrets keeps a JSON
// object of encrypted fields in each payload, but the store never looks
// inside it.
//
// # Backends
//
//   - AWS: AWS Secrets Manager, authenticated through a shared config profile
//   - Dir: one JSON file per secret in a local directory
//   - Memory: in-process map, used by tests
//
// Every call is a single request. Stores never retry at this layer and never
// take locks, so two concurrent pushes to the same secret race and the last
// Put wins.
package store
