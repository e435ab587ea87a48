// Package onnx provides the ONNX wire layer for model export.
//
// ONNX (Open Neural Network Exchange) is an open format for representing deep
// learning models. This package implements a hand-written protobuf encoder
// and a matching minimal decoder for .onnx files without external
// dependencies.
//
// Key components:
//   - ModelProto: Top-level ONNX model structure with metadata and graph
//   - GraphProto: Computation graph with nodes, inputs, outputs, and initializers
//   - NodeProto: Single operation in the graph (e.g., MatMul, Sigmoid)
//   - TensorProto: Weight/initializer tensor, inline or referencing a side file
//   - ValueInfoProto: Input/output tensor type information
//
// The decoder understands only the subset of fields the encoder emits plus
// skip logic for everything else; it exists for round-trip verification and
// model inspection, not for loading arbitrary third-party models.
//
// Example usage:
//
//	model := &onnx.ModelProto{
//	    IRVersion: 10,
//	    Graph:     graph,
//	}
//	if err := onnx.WriteFile("model.onnx", model); err != nil {
//	    log.Fatal(err)
//	}
package onnx
