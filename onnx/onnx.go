// Package onnx provides the ONNX protobuf model format for the onnxkit
// export engine.
//
// It exposes the proto structures an exported model is assembled from, plus
// serialization in both directions. The encoding is hand-written protobuf,
// so the package carries no generated code and no protobuf runtime
// dependency.
//
// # Example Usage
//
//	model, err := onnx.ParseFile("model.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(model.Graph.Name, len(model.Graph.Node))
//
//	if err := onnx.WriteFile("copy.onnx", model); err != nil {
//	    log.Fatal(err)
//	}
package onnx

import "github.com/born-ml/onnxkit/internal/onnx"

// ModelProto is the top-level ONNX model message.
type ModelProto = onnx.ModelProto

// GraphProto is the computation graph embedded in a model.
type GraphProto = onnx.GraphProto

// NodeProto is one operation invocation in a graph.
type NodeProto = onnx.NodeProto

// TensorProto carries a named tensor, inline or externally located.
type TensorProto = onnx.TensorProto

// ValueInfoProto declares the type and shape of a graph input or output.
type ValueInfoProto = onnx.ValueInfoProto

// TypeProto wraps the tensor type of a ValueInfoProto.
type TypeProto = onnx.TypeProto

// TensorTypeProto pairs an element type with a shape.
type TensorTypeProto = onnx.TensorTypeProto

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto = onnx.TensorShapeProto

// DimensionProto is one dimension, fixed or symbolic.
type DimensionProto = onnx.DimensionProto

// AttributeProto is one named attribute on a node.
type AttributeProto = onnx.AttributeProto

// OperatorSetID names an operator set domain and version.
type OperatorSetID = onnx.OperatorSetID

// StringStringEntry is a key/value metadata pair.
type StringStringEntry = onnx.StringStringEntry

// Tensor element types, matching the ONNX TensorProto.DataType enum.
const (
	TensorProtoFloat    = onnx.TensorProtoFloat
	TensorProtoUint8    = onnx.TensorProtoUint8
	TensorProtoInt8     = onnx.TensorProtoInt8
	TensorProtoUint16   = onnx.TensorProtoUint16
	TensorProtoInt16    = onnx.TensorProtoInt16
	TensorProtoInt32    = onnx.TensorProtoInt32
	TensorProtoInt64    = onnx.TensorProtoInt64
	TensorProtoBool     = onnx.TensorProtoBool
	TensorProtoFloat16  = onnx.TensorProtoFloat16
	TensorProtoDouble   = onnx.TensorProtoDouble
	TensorProtoUint32   = onnx.TensorProtoUint32
	TensorProtoUint64   = onnx.TensorProtoUint64
	TensorProtoBfloat16 = onnx.TensorProtoBfloat16
)

// Tensor data locations.
const (
	DataLocationDefault  = onnx.DataLocationDefault
	DataLocationExternal = onnx.DataLocationExternal
)

// Marshal serializes a model to protobuf wire format.
func Marshal(m *ModelProto) []byte { return onnx.Marshal(m) }

// WriteFile serializes a model and writes it to path.
func WriteFile(path string, m *ModelProto) error { return onnx.WriteFile(path, m) }

// Parse decodes a model from protobuf wire format.
func Parse(data []byte) (*ModelProto, error) { return onnx.Parse(data) }

// ParseFile reads and decodes a model from path.
func ParseFile(path string) (*ModelProto, error) { return onnx.ParseFile(path) }
