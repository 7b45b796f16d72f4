// Package sectioned provides the in-memory sectioned model backing a display
// surface: an ordered sequence of sections, each an ordered sequence of items,
// addressed by (section, item) index paths.
//
// The model is the plain-array variant described by the reconciliation core:
// when the observed store is the source of truth the engine never mutates a
// Model directly, it only patches the display surface. The Model is mutated
// directly only by the drag-reorder handler and by callers building static
// content.
//
// # Typed Projection
//
// Items are stored as `any` because the observed store hands out untyped
// objects. ItemAs projects an item to a concrete type and returns a
// *TypeMismatchError instead of panicking on a bad cast:
//
//	entry, err := sectioned.ItemAs[store.Entry](model, path)
//	if err != nil {
//	    return err
//	}
package sectioned
