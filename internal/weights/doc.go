// Package weights handles constant payloads during export: where their bytes
// end up (Strategy) and where they come from (Store).
//
// A Strategy is chosen once per export call and decides the fate of every
// constant payload in the graph: dropped (Discard), inlined into the model
// file (Embedded), or appended to a single side file referenced by
// offset/length (ExternalFile). The export engine calls Gather once per
// constant value, Finalize exactly once after all gathers, and then asks the
// strategy to materialize initializer entries.
//
// A Store is an in-memory named weight source with dotted prefix scoping,
// the shape a checkpoint loader naturally produces:
//
//	store := weights.NewStore()
//	store.AddFloat32("encoder.linear.weight", data, graph.ShapeOf(128, 64))
//	w, err := store.Prefix("encoder.linear").Tensor("weight")
package weights
