// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a durable string-keyed blob store.
//
// Get returns (nil, false, nil) for a missing key; absence is not an error.
// Put overwrites any existing value. Delete of a missing key is a no-op.
type Store interface {
	// Get retrieves the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key string) error

	// Keys lists all keys with the given prefix, in lexicographic order.
	Keys(prefix string) ([]string, error)

	// Close releases underlying resources.
	Close() error
}
