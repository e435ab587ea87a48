// Package export assembles a constructed graph into an ONNX model.
//
// Assemble is the single entry point. Starting from the declared outputs it
// collects the reachable operation and value sets, deduplicated purely by
// object identity so a value feeding ten operations is visited and named
// once, then resolves a globally unique name for every value, routes constant
// payloads through the chosen weight strategy, and emits the ModelProto.
//
// The call either succeeds completely or fails with no partial descriptor:
// a name conflict, an unresolved constant dimension, or a side-file write
// error aborts the whole export.
package export
