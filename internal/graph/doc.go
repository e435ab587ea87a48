// Package graph defines the contracts for programmatically built computation
// graphs destined for ONNX export.
//
// A graph is a DAG of two kinds of objects: Values (tensor-shaped quantities)
// and Operations (computation steps consuming and producing Values). Objects
// are shared freely (the same Value may feed any number of Operations) and
// are never mutated after construction, so a graph can be walked concurrently
// without synchronization.
//
// Identity, not structure, is what makes two objects "the same": every Value
// and Operation receives a unique integer token at construction (see Ident),
// and traversal, naming, and deduplication all key on that token. Two
// numerically identical constants built independently stay distinct; sharing
// requires sharing the reference.
//
// The package deliberately contains no operator catalog. Concrete operations
// live in the ops subpackage and only have to satisfy the Value/Operation
// contracts defined here.
package graph
