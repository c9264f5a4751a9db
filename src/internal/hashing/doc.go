// Package hashing provides MD5 checksum helpers for level files.
//
// The checksum of a stored level is used as the HTTP ETag of
// GET /api/levels/{n} and printed by the check command.
//
//	data, checksum, err := hashing.ReadAllWithChecksum(f)
package hashing
