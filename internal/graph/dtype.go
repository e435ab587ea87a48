package graph

import "github.com/born-ml/onnxkit/internal/onnx"

// DataType represents runtime type information for graph values.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float64
	Float16
	BFloat16
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Bool
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32, Uint32:
		return 4
	case Float64, Int64, Uint64:
		return 8
	case Float16, BFloat16, Int16, Uint16:
		return 2
	case Int8, Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case BFloat16:
		return "bfloat16"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ONNX returns the TensorProto element-type code for the data type.
// It returns ErrUnsupportedDType for values outside the enumeration.
func (dt DataType) ONNX() (int32, error) {
	switch dt {
	case Float32:
		return onnx.TensorProtoFloat, nil
	case Float64:
		return onnx.TensorProtoDouble, nil
	case Float16:
		return onnx.TensorProtoFloat16, nil
	case BFloat16:
		return onnx.TensorProtoBfloat16, nil
	case Int8:
		return onnx.TensorProtoInt8, nil
	case Int16:
		return onnx.TensorProtoInt16, nil
	case Int32:
		return onnx.TensorProtoInt32, nil
	case Int64:
		return onnx.TensorProtoInt64, nil
	case Uint8:
		return onnx.TensorProtoUint8, nil
	case Uint16:
		return onnx.TensorProtoUint16, nil
	case Uint32:
		return onnx.TensorProtoUint32, nil
	case Uint64:
		return onnx.TensorProtoUint64, nil
	case Bool:
		return onnx.TensorProtoBool, nil
	default:
		return onnx.TensorProtoUndefined, ErrUnsupportedDType
	}
}
