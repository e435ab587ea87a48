package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile parses an ONNX model from file.
//
//nolint:gosec // G304: Path is provided by the user, loading it is the point.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes. It understands the subset of the
// format that the writer emits and skips unknown fields, which is enough for
// inspection and round-trip testing.
func Parse(data []byte) (*ModelProto, error) {
	r := &reader{data: data}
	model := &ModelProto{}
	if err := r.readModelProto(model); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return model, nil
}

// reader implements a minimal protobuf wire format decoder.
type reader struct {
	data []byte
	pos  int
}

// sub returns a reader over a length-delimited field's payload.
func (r *reader) sub() (*reader, error) {
	data, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	return &reader{data: data}, nil
}

// readModelProto reads ModelProto fields.
func (r *reader) readModelProto(m *ModelProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // ir_version
			return r.readVarintInto(&m.IRVersion)
		case 2: // producer_name
			return r.readStringInto(&m.ProducerName)
		case 3: // producer_version
			return r.readStringInto(&m.ProducerVersion)
		case 4: // domain
			return r.readStringInto(&m.Domain)
		case 5: // model_version
			return r.readVarintInto(&m.ModelVersion)
		case 6: // doc_string
			return r.readStringInto(&m.DocString)
		case 7: // graph
			sub, err := r.sub()
			if err != nil {
				return err
			}
			m.Graph = &GraphProto{}
			return sub.readGraphProto(m.Graph)
		case 8: // opset_import
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var opset OperatorSetID
			if err := sub.readOperatorSetID(&opset); err != nil {
				return err
			}
			m.OpsetImport = append(m.OpsetImport, opset)
			return nil
		case 14: // metadata_props
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var entry StringStringEntry
			if err := sub.readStringStringEntry(&entry); err != nil {
				return err
			}
			m.MetadataProps = append(m.MetadataProps, entry)
			return nil
		default:
			return r.skipField(wireType)
		}
	})
}

// readGraphProto reads GraphProto fields.
func (r *reader) readGraphProto(m *GraphProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // node
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var node NodeProto
			if err := sub.readNodeProto(&node); err != nil {
				return err
			}
			m.Nodes = append(m.Nodes, node)
			return nil
		case 2: // name
			return r.readStringInto(&m.Name)
		case 5: // initializer
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var tensor TensorProto
			if err := sub.readTensorProto(&tensor); err != nil {
				return err
			}
			m.Initializers = append(m.Initializers, tensor)
			return nil
		case 10: // doc_string
			return r.readStringInto(&m.DocString)
		case 11, 12, 13: // input, output, value_info
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var vi ValueInfoProto
			if err := sub.readValueInfoProto(&vi); err != nil {
				return err
			}
			switch fieldNum {
			case 11:
				m.Inputs = append(m.Inputs, vi)
			case 12:
				m.Outputs = append(m.Outputs, vi)
			default:
				m.ValueInfo = append(m.ValueInfo, vi)
			}
			return nil
		default:
			return r.skipField(wireType)
		}
	})
}

// readNodeProto reads NodeProto fields.
func (r *reader) readNodeProto(m *NodeProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // input
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			m.Inputs = append(m.Inputs, string(data))
			return nil
		case 2: // output
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			m.Outputs = append(m.Outputs, string(data))
			return nil
		case 3: // name
			return r.readStringInto(&m.Name)
		case 4: // op_type
			return r.readStringInto(&m.OpType)
		case 5: // attribute
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var attr AttributeProto
			if err := sub.readAttributeProto(&attr); err != nil {
				return err
			}
			m.Attributes = append(m.Attributes, attr)
			return nil
		case 6: // doc_string
			return r.readStringInto(&m.DocString)
		case 7: // domain
			return r.readStringInto(&m.Domain)
		default:
			return r.skipField(wireType)
		}
	})
}

// readTensorProto reads TensorProto fields.
func (r *reader) readTensorProto(m *TensorProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // dims (repeated int64)
			if wireType == wireBytes {
				sub, err := r.sub()
				if err != nil {
					return err
				}
				for sub.pos < len(sub.data) {
					v, err := sub.readVarint()
					if err != nil {
						return err
					}
					m.Dims = append(m.Dims, v)
				}
				return nil
			}
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.Dims = append(m.Dims, v)
			return nil
		case 2: // data_type
			return r.readInt32Into(&m.DataType)
		case 8: // name
			return r.readStringInto(&m.Name)
		case 9: // raw_data
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			m.RawData = data
			return nil
		case 12: // doc_string
			return r.readStringInto(&m.DocString)
		case 13: // external_data
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var entry StringStringEntry
			if err := sub.readStringStringEntry(&entry); err != nil {
				return err
			}
			m.ExternalData = append(m.ExternalData, entry)
			return nil
		case 14: // data_location
			return r.readInt32Into(&m.DataLocation)
		default:
			return r.skipField(wireType)
		}
	})
}

// readValueInfoProto reads ValueInfoProto fields.
func (r *reader) readValueInfoProto(m *ValueInfoProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // name
			return r.readStringInto(&m.Name)
		case 2: // type
			sub, err := r.sub()
			if err != nil {
				return err
			}
			m.Type = &TypeProto{}
			return sub.readTypeProto(m.Type)
		case 3: // doc_string
			return r.readStringInto(&m.DocString)
		default:
			return r.skipField(wireType)
		}
	})
}

// readTypeProto reads TypeProto fields.
func (r *reader) readTypeProto(m *TypeProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		if fieldNum == 1 { // tensor_type
			sub, err := r.sub()
			if err != nil {
				return err
			}
			m.TensorType = &TensorTypeProto{}
			return sub.readTensorTypeProto(m.TensorType)
		}
		return r.skipField(wireType)
	})
}

// readTensorTypeProto reads TypeProto.Tensor fields.
func (r *reader) readTensorTypeProto(m *TensorTypeProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // elem_type
			return r.readInt32Into(&m.ElemType)
		case 2: // shape
			sub, err := r.sub()
			if err != nil {
				return err
			}
			m.Shape = &TensorShapeProto{}
			return sub.readTensorShapeProto(m.Shape)
		default:
			return r.skipField(wireType)
		}
	})
}

// readTensorShapeProto reads TensorShapeProto fields.
func (r *reader) readTensorShapeProto(m *TensorShapeProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		if fieldNum == 1 { // dim
			sub, err := r.sub()
			if err != nil {
				return err
			}
			var dim DimensionProto
			if err := sub.readDimensionProto(&dim); err != nil {
				return err
			}
			m.Dims = append(m.Dims, dim)
			return nil
		}
		return r.skipField(wireType)
	})
}

// readDimensionProto reads DimensionProto fields.
func (r *reader) readDimensionProto(m *DimensionProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // dim_value
			m.HasDimValue = true
			return r.readVarintInto(&m.DimValue)
		case 2: // dim_param
			return r.readStringInto(&m.DimParam)
		default:
			return r.skipField(wireType)
		}
	})
}

// readAttributeProto reads AttributeProto fields.
func (r *reader) readAttributeProto(m *AttributeProto) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // name
			return r.readStringInto(&m.Name)
		case 2: // f
			v, err := r.readFloat32()
			if err != nil {
				return err
			}
			m.F = v
			return nil
		case 3: // i
			return r.readVarintInto(&m.I)
		case 4: // s
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			m.S = data
			return nil
		case 5: // t
			sub, err := r.sub()
			if err != nil {
				return err
			}
			m.T = &TensorProto{}
			return sub.readTensorProto(m.T)
		case 7: // floats (packed)
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			for i := 0; i+4 <= len(data); i += 4 {
				bits := binary.LittleEndian.Uint32(data[i:])
				m.Floats = append(m.Floats, math.Float32frombits(bits))
			}
			return nil
		case 8: // ints (packed)
			sub, err := r.sub()
			if err != nil {
				return err
			}
			for sub.pos < len(sub.data) {
				v, err := sub.readVarint()
				if err != nil {
					return err
				}
				m.Ints = append(m.Ints, v)
			}
			return nil
		case 9: // strings
			data, err := r.readBytes()
			if err != nil {
				return err
			}
			m.Strings = append(m.Strings, data)
			return nil
		case 20: // type
			return r.readInt32Into(&m.Type)
		default:
			return r.skipField(wireType)
		}
	})
}

// readOperatorSetID reads OperatorSetID fields.
func (r *reader) readOperatorSetID(m *OperatorSetID) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // domain
			return r.readStringInto(&m.Domain)
		case 2: // version
			return r.readVarintInto(&m.Version)
		default:
			return r.skipField(wireType)
		}
	})
}

// readStringStringEntry reads StringStringEntry fields.
func (r *reader) readStringStringEntry(m *StringStringEntry) error {
	return r.readFields(func(fieldNum, wireType int) error {
		switch fieldNum {
		case 1: // key
			return r.readStringInto(&m.Key)
		case 2: // value
			return r.readStringInto(&m.Value)
		default:
			return r.skipField(wireType)
		}
	})
}

// readFields drives the tag/field loop shared by every message reader.
func (r *reader) readFields(field func(fieldNum, wireType int) error) error {
	for r.pos < len(r.data) {
		fieldNum, wireType, err := r.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := field(fieldNum, wireType); err != nil {
			return err
		}
	}
	return nil
}

// readTag reads a protobuf field tag.
func (r *reader) readTag() (fieldNum, wireType int, err error) {
	if r.pos >= len(r.data) {
		return 0, 0, io.EOF
	}
	tag, err := r.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(tag >> 3), int(tag & 0x7), nil
}

// readVarint reads a varint-encoded int64.
func (r *reader) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if r.pos >= len(r.data) {
			return 0, io.ErrUnexpectedEOF
		}
		b := r.data[r.pos]
		r.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: Two's-complement reinterpretation is the protobuf int64 encoding.
}

func (r *reader) readVarintInto(dst *int64) error {
	v, err := r.readVarint()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (r *reader) readInt32Into(dst *int32) error {
	v, err := r.readVarint()
	if err != nil {
		return err
	}
	*dst = int32(v) //nolint:gosec // G115: ONNX enum values fit in int32.
	return nil
}

func (r *reader) readStringInto(dst *string) error {
	data, err := r.readBytes()
	if err != nil {
		return err
	}
	*dst = string(data)
	return nil
}

// readBytes reads a length-delimited byte slice.
func (r *reader) readBytes() ([]byte, error) {
	length, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := r.pos + int(length)
	if end > len(r.data) || end < r.pos {
		return nil, io.ErrUnexpectedEOF
	}
	result := r.data[r.pos:end]
	r.pos = end
	return result, nil
}

// readFloat32 reads a 32-bit float.
func (r *reader) readFloat32() (float32, error) {
	if r.pos+4 > len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// skipField skips a field based on wire type.
func (r *reader) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := r.readVarint()
		return err
	case wire64Bit:
		if r.pos+8 > len(r.data) {
			return io.ErrUnexpectedEOF
		}
		r.pos += 8
		return nil
	case wireBytes:
		_, err := r.readBytes()
		return err
	case wire32Bit:
		if r.pos+4 > len(r.data) {
			return io.ErrUnexpectedEOF
		}
		r.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}
