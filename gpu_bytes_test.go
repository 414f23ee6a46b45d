package kernelrun

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLayouts(t *testing.T) {
	// Strides must match the WGSL struct layouts exactly.
	assert.Equal(t, uintptr(8), unsafe.Sizeof(PairU32{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(Ray{}))
}

func TestRecordsToBytes_RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 0xdeadbeef}
	raw := recordsToBytes(values)
	require.Len(t, raw, 16)
	assert.Equal(t, values, bytesToRecords[uint32](raw))

	pairs := []PairU32{{A: 1, B: 2}, {A: ^uint32(0), B: 0}}
	assert.Equal(t, pairs, bytesToRecords[PairU32](recordsToBytes(pairs)))

	rays := []Ray{{
		Origin:    mgl32.Vec4{1, 2, 3, 1},
		Direction: mgl32.Vec4{0, 1, 0, 0},
	}}
	assert.Equal(t, rays, bytesToRecords[Ray](recordsToBytes(rays)))
}

func TestBytesToRecords_CopiesOutOfMappedRange(t *testing.T) {
	raw := recordsToBytes([]uint32{7, 8})
	out := bytesToRecords[uint32](raw)
	raw[0] = 0xff
	assert.Equal(t, []uint32{7, 8}, out, "result must not alias the source bytes")
}

func TestPackRecords_MatchesReinterpretation(t *testing.T) {
	// The checked reflect packer and the unsafe reinterpretation must agree
	// for every built-in record type; any hidden padding would show up here.
	values := []uint32{3, 1, 4, 1, 5}
	packed, err := packRecords(values)
	require.NoError(t, err)
	assert.Equal(t, recordsToBytes(values), packed)

	pairs := []PairU32{{A: 10, B: 20}, {A: 30, B: 40}}
	packed, err = packRecords(pairs)
	require.NoError(t, err)
	assert.Equal(t, recordsToBytes(pairs), packed)

	rays := []Ray{
		{Origin: mgl32.Vec4{1, 2, 3, 1}, Direction: mgl32.Vec4{4, 5, 6, 0}},
		{Origin: mgl32.Vec4{-1, 0.5, 0, 1}, Direction: mgl32.Vec4{0, 0, 1, 0}},
	}
	packed, err = packRecords(rays)
	require.NoError(t, err)
	assert.Equal(t, recordsToBytes(rays), packed)
}

func TestPackRecords_RejectsUnsupported(t *testing.T) {
	_, err := packRecords([]string{"nope"})
	assert.Error(t, err)

	_, err = packRecords(42)
	assert.Error(t, err)
}
