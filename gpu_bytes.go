package kernelrun

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// recordsToBytes reinterprets a typed record slice as its raw device bytes.
// Native endianness in both directions; layout must match the WGSL struct.
func recordsToBytes[T any](records []T) []byte {
	return wgpu.ToBytes(records)
}

// bytesToRecords is the inverse: a mapped staging range back into records.
// The mapped range is only valid until Unmap, so the result is copied.
func bytesToRecords[T any](data []byte) []T {
	var zero T
	stride := int(unsafe.Sizeof(zero))
	n := len(data) / stride
	out := make([]T, n)
	copy(wgpu.ToBytes(out), data[:n*stride])
	return out
}

// packRecords serializes records field by field through reflection with
// explicit little-endian writes. Slower than recordsToBytes; used to verify
// that a record type has no hidden padding and that the unsafe
// reinterpretation matches the declared layout.
func packRecords(records any) ([]byte, error) {
	val := reflect.ValueOf(records)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return nil, fmt.Errorf("packRecords: want slice or array, got %v", val.Kind())
	}
	buf := new(bytes.Buffer)
	for i := 0; i < val.Len(); i++ {
		if err := packValue(val.Index(i), buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func packValue(field reflect.Value, buf *bytes.Buffer) error {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			if err := packValue(field.Index(i), buf); err != nil {
				return err
			}
		}

	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			if err := packValue(field.Field(i), buf); err != nil {
				return err
			}
		}

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			return fmt.Errorf("packRecords: write field: %w", err)
		}

	default:
		return fmt.Errorf("packRecords: unsupported field kind %v", field.Kind())
	}
	return nil
}
