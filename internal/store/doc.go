// Package store provides the SQLite generation ledger.
//
// Each generate run records, per projection, the spec hash it was built
// from, the emitted arm order and a hash of the generated source. The
// verify command compares a fresh ordering against the latest run, which
// makes ordering drift between builds visible.
//
// # Ordering
//
//   - All ordering uses seq INTEGER (logical clock), never timestamps
//   - All queries include ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Order hashes are computed by ir.OrderHash, using canonical JSON and
// SHA-256 with domain separation.
package store
