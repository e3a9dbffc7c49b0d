// Package codegen emits Go dispatch methods for projections.
//
// For each projection, one frame is built per handler clause, the frames are
// ordered with frame.SortByHierarchy, and a PatternMatch writes them as the
// arms of a type switch. Arms are tested top to bottom and the first match
// wins, so the order is what makes a derived event reach its own handler
// rather than its base type's.
package codegen
