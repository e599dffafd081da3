// Package engine is the embedded-object interaction engine.
//
// The engine lets a user select, move, resize, re-layout and fine-tune
// images embedded in an editable document surface. It combines the
// sub-packages into one serialised API:
//
//   - bounds: content area tracking with debounced container resizes
//   - constraint: pure geometry clamping and aspect-locked resize
//   - registry: discovery of image nodes and their initial state
//   - selection: the single-selection state machine
//   - transform: pointer-driven move and resize sessions
//   - keyboard: nudges, mode shortcuts, reset and delete
//   - layout: flow and overlay placement
//   - affordance: the scoped selection and cursor styles
//
// # Lifecycle
//
// An Engine is created over a surface.Surface, mounted, and then fed the
// surface's mutation stream by Run:
//
//	e, err := engine.New(surf, engine.WithConfirmer(prompt))
//	if err != nil {
//		return err
//	}
//	if err := e.Mount(); err != nil {
//		return err
//	}
//	defer e.Unmount()
//	go e.Run(ctx)
//
// Mount installs the affordance styles, registers the pointer, key and
// resize listeners and scans the images already present. Unmount cancels
// every listener and removes the styles.
//
// # Concurrency
//
// Every operation runs under one mutex, modelling a single event loop.
// Notifications are published on the bus after the lock is released, so
// subscribers may call back into the engine. The delete confirmation is the
// only blocking call and also runs without the lock held.
//
// # Failure Model
//
// Requests that make no sense in the current state are ignored and report
// false. Geometry is clamped, never rejected. Errors are returned only for
// boundary failures such as a surface refusing to remove a node.
package engine
