// Package harness runs declarative ordering scenarios against the frame
// sorter.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: diamond_interfaces
//	description: "Interfaces sort after every class"
//	events:
//	  - name: Base
//	  - name: IFoo
//	    interface: true
//	  - name: FooA
//	    parent: Base
//	    implements: [IFoo]
//	frames:
//	  - event: Base
//	  - event: IFoo
//	  - event: FooA
//	    async: true
//	permute: true
//	assertions:
//	  - type: order
//	    expect: [FooA, Base, IFoo]
//	  - type: derived_before_base
//
// Frames are built in declared order. With permute set, every permutation
// of the frames is sorted too and must yield the same order.
//
// # Assertion Types
//
//   - order: the emitted order equals expect exactly
//   - before: the first frame of type first precedes the first frame of type then
//   - last: the final frame has type event
//   - count: the output has exactly count frames
//   - derived_before_base: no frame follows a frame of one of its ancestors
//
// # Golden Traces
//
// RunWithGolden snapshots the sorted frames (position, type, chain, async)
// as canonical JSON under testdata/golden/{name}.golden.
package harness
