// Package frame orders processing frames for dispatch emission.
//
// A processing frame binds one event type to its handler code. A generated
// dispatch block tests frames first-match-wins, so a frame whose type derives
// from another frame's type must come first or the base handler would shadow
// it. SortByHierarchy linearizes frames derived-before-base and breaks every
// other tie by case-insensitive type name, so the emitted order is the same on
// every run.
//
// Everything here is pure and synchronous. Frames are never mutated, only
// reordered.
package frame
