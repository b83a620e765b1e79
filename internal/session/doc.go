// Package session owns the server-side half of the credential record.
//
// A browser is identified by the gc_session_id cookie. The token record for
// that session lives in a Store, either in process memory (MemoryStore) or in
// Redis (RedisStore) when several server replicas share sessions.
//
// Stores return (nil, nil) for unknown sessions; an error always means the
// backend itself failed.
package session
