// Package ir provides the canonical intermediate representation produced by
// the compiler and consumed by the type system and code generator.
//
// This package contains declarations only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Declarations are plain data, in source order, never resolved pointers
//   - All JSON tags use snake_case
//   - Hashes are computed over canonical JSON only
package ir
