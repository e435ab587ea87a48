package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Marshal serializes an ONNX model to protobuf wire format.
func Marshal(m *ModelProto) []byte {
	w := &writer{}
	w.writeModelProto(m)
	return w.buf
}

// WriteFile serializes an ONNX model and writes it to path.
//
//nolint:gosec // G306: Model files are not secrets.
func WriteFile(path string, m *ModelProto) error {
	if err := os.WriteFile(path, Marshal(m), 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// writer implements a minimal protobuf wire format encoder.
// It is the mirror image of the decoder in reader.go.
type writer struct {
	buf []byte
}

// Protobuf wire types.
const (
	wireVarint = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	wire64Bit  = 1 // fixed64, sfixed64, double
	wireBytes  = 2 // string, bytes, embedded messages, packed repeated fields
	wire32Bit  = 5 // fixed32, sfixed32, float
)

// writeModelProto writes ModelProto fields.
func (w *writer) writeModelProto(m *ModelProto) {
	w.writeVarintField(1, m.IRVersion)
	w.writeStringField(2, m.ProducerName)
	w.writeStringField(3, m.ProducerVersion)
	w.writeStringField(4, m.Domain)
	w.writeVarintField(5, m.ModelVersion)
	w.writeStringField(6, m.DocString)
	if m.Graph != nil {
		sub := &writer{}
		sub.writeGraphProto(m.Graph)
		w.writeBytesField(7, sub.buf)
	}
	for i := range m.OpsetImport {
		sub := &writer{}
		sub.writeOperatorSetID(&m.OpsetImport[i])
		w.writeBytesField(8, sub.buf)
	}
	for i := range m.MetadataProps {
		sub := &writer{}
		sub.writeStringStringEntry(&m.MetadataProps[i])
		w.writeBytesField(14, sub.buf)
	}
}

// writeGraphProto writes GraphProto fields.
func (w *writer) writeGraphProto(m *GraphProto) {
	for i := range m.Nodes {
		sub := &writer{}
		sub.writeNodeProto(&m.Nodes[i])
		w.writeBytesField(1, sub.buf)
	}
	w.writeStringField(2, m.Name)
	for i := range m.Initializers {
		sub := &writer{}
		sub.writeTensorProto(&m.Initializers[i])
		w.writeBytesField(5, sub.buf)
	}
	w.writeStringField(10, m.DocString)
	for i := range m.Inputs {
		sub := &writer{}
		sub.writeValueInfoProto(&m.Inputs[i])
		w.writeBytesField(11, sub.buf)
	}
	for i := range m.Outputs {
		sub := &writer{}
		sub.writeValueInfoProto(&m.Outputs[i])
		w.writeBytesField(12, sub.buf)
	}
	for i := range m.ValueInfo {
		sub := &writer{}
		sub.writeValueInfoProto(&m.ValueInfo[i])
		w.writeBytesField(13, sub.buf)
	}
}

// writeNodeProto writes NodeProto fields.
func (w *writer) writeNodeProto(m *NodeProto) {
	for _, in := range m.Inputs {
		// Unlike the other string fields, node inputs/outputs keep empty
		// entries: an empty name marks an unused optional slot.
		w.writeTag(1, wireBytes)
		w.writeLenPrefixed([]byte(in))
	}
	for _, out := range m.Outputs {
		w.writeTag(2, wireBytes)
		w.writeLenPrefixed([]byte(out))
	}
	w.writeStringField(3, m.Name)
	w.writeStringField(4, m.OpType)
	for i := range m.Attributes {
		sub := &writer{}
		sub.writeAttributeProto(&m.Attributes[i])
		w.writeBytesField(5, sub.buf)
	}
	w.writeStringField(6, m.DocString)
	w.writeStringField(7, m.Domain)
}

// writeTensorProto writes TensorProto fields.
func (w *writer) writeTensorProto(m *TensorProto) {
	if len(m.Dims) > 0 {
		sub := &writer{}
		for _, d := range m.Dims {
			sub.writeVarint(d)
		}
		w.writeBytesField(1, sub.buf) // packed repeated int64
	}
	w.writeVarintField(2, int64(m.DataType))
	w.writeStringField(8, m.Name)
	if len(m.RawData) > 0 {
		w.writeBytesField(9, m.RawData)
	}
	w.writeStringField(12, m.DocString)
	for i := range m.ExternalData {
		sub := &writer{}
		sub.writeStringStringEntry(&m.ExternalData[i])
		w.writeBytesField(13, sub.buf)
	}
	w.writeVarintField(14, int64(m.DataLocation))
}

// writeValueInfoProto writes ValueInfoProto fields.
func (w *writer) writeValueInfoProto(m *ValueInfoProto) {
	w.writeStringField(1, m.Name)
	if m.Type != nil {
		sub := &writer{}
		sub.writeTypeProto(m.Type)
		w.writeBytesField(2, sub.buf)
	}
	w.writeStringField(3, m.DocString)
}

// writeTypeProto writes TypeProto fields.
func (w *writer) writeTypeProto(m *TypeProto) {
	if m.TensorType != nil {
		sub := &writer{}
		sub.writeTensorTypeProto(m.TensorType)
		w.writeBytesField(1, sub.buf)
	}
}

// writeTensorTypeProto writes TypeProto.Tensor fields.
func (w *writer) writeTensorTypeProto(m *TensorTypeProto) {
	w.writeVarintField(1, int64(m.ElemType))
	if m.Shape != nil {
		sub := &writer{}
		sub.writeTensorShapeProto(m.Shape)
		w.writeBytesField(2, sub.buf)
	}
}

// writeTensorShapeProto writes TensorShapeProto fields.
func (w *writer) writeTensorShapeProto(m *TensorShapeProto) {
	for i := range m.Dims {
		sub := &writer{}
		sub.writeDimensionProto(&m.Dims[i])
		w.writeBytesField(1, sub.buf)
	}
}

// writeDimensionProto writes a single dimension. A dimension with neither
// field set stays an empty message, which ONNX reads as "unknown".
func (w *writer) writeDimensionProto(m *DimensionProto) {
	if m.HasDimValue {
		w.writeTag(1, wireVarint)
		w.writeVarint(m.DimValue)
	}
	w.writeStringField(2, m.DimParam)
}

// writeAttributeProto writes AttributeProto fields.
func (w *writer) writeAttributeProto(m *AttributeProto) {
	w.writeStringField(1, m.Name)
	switch m.Type {
	case AttributeProtoFloat:
		w.writeTag(2, wire32Bit)
		w.writeFixed32(math.Float32bits(m.F))
	case AttributeProtoInt:
		w.writeTag(3, wireVarint)
		w.writeVarint(m.I)
	case AttributeProtoString:
		w.writeTag(4, wireBytes)
		w.writeLenPrefixed(m.S)
	case AttributeProtoTensor:
		if m.T != nil {
			sub := &writer{}
			sub.writeTensorProto(m.T)
			w.writeBytesField(5, sub.buf)
		}
	case AttributeProtoFloats:
		sub := &writer{}
		for _, f := range m.Floats {
			sub.writeFixed32(math.Float32bits(f))
		}
		w.writeBytesField(7, sub.buf) // packed
	case AttributeProtoInts:
		sub := &writer{}
		for _, v := range m.Ints {
			sub.writeVarint(v)
		}
		w.writeBytesField(8, sub.buf) // packed
	case AttributeProtoStrings:
		for _, s := range m.Strings {
			w.writeTag(9, wireBytes)
			w.writeLenPrefixed(s)
		}
	}
	w.writeVarintField(20, int64(m.Type))
}

// writeOperatorSetID writes OperatorSetID fields.
func (w *writer) writeOperatorSetID(m *OperatorSetID) {
	w.writeStringField(1, m.Domain)
	w.writeVarintField(2, m.Version)
}

// writeStringStringEntry writes StringStringEntry fields.
func (w *writer) writeStringStringEntry(m *StringStringEntry) {
	w.writeStringField(1, m.Key)
	w.writeStringField(2, m.Value)
}

// writeTag writes a protobuf field tag.
func (w *writer) writeTag(fieldNum, wireType int) {
	w.writeUvarint(uint64(fieldNum)<<3 | uint64(wireType)) //nolint:gosec // G115: Field numbers are small constants.
}

// writeVarint writes a varint-encoded int64. Negative values take the full
// ten bytes, matching standard protobuf int64 encoding.
func (w *writer) writeVarint(v int64) {
	w.writeUvarint(uint64(v)) //nolint:gosec // G115: Two's-complement reinterpretation is the protobuf int64 encoding.
}

// writeUvarint writes a varint-encoded uint64.
func (w *writer) writeUvarint(v uint64) {
	w.buf = binary.AppendUvarint(w.buf, v)
}

// writeFixed32 writes a little-endian 32-bit value.
func (w *writer) writeFixed32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// writeLenPrefixed writes a length-delimited byte slice.
func (w *writer) writeLenPrefixed(b []byte) {
	w.writeUvarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// writeVarintField writes a varint field, skipping the proto3 zero default.
func (w *writer) writeVarintField(fieldNum int, v int64) {
	if v == 0 {
		return
	}
	w.writeTag(fieldNum, wireVarint)
	w.writeVarint(v)
}

// writeStringField writes a string field, skipping the proto3 empty default.
func (w *writer) writeStringField(fieldNum int, s string) {
	if s == "" {
		return
	}
	w.writeTag(fieldNum, wireBytes)
	w.writeLenPrefixed([]byte(s))
}

// writeBytesField writes a length-delimited field (bytes or submessage).
func (w *writer) writeBytesField(fieldNum int, b []byte) {
	w.writeTag(fieldNum, wireBytes)
	w.writeLenPrefixed(b)
}
