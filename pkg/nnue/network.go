package nnue

import (
	"encoding/binary"
	"fmt"
)

const (
	blobMagic   = 0x53414e54 // "SANT"
	blobVersion = 1

	// QuantClip and Scale are the fixed quantization constants spec.md
	// §4.F calls out as "known to the loader" -- chosen to match a
	// 16-bit weight range with headroom for the hidden-layer sum.
	QuantClip = int32(127)
	Scale     = int32(64)
)

// Network is the fixed-size binary blob described in spec.md §6.4:
// header, input weights/biases, output weights/bias. All weights are
// quantized to int16; the accumulator widens to int32 during summation
// to avoid overflow across up to InputDim active features.
type Network struct {
	InputDim  int
	HiddenDim int
	OutputDim int

	InputWeights []int16 // InputDim*HiddenDim, row-major by feature
	InputBias    []int32
	OutputWeights []int32 // 2*HiddenDim
	OutputBias    int32
}

func (n *Network) addRow(acc []int32, feature int) {
	row := n.InputWeights[feature*n.HiddenDim : (feature+1)*n.HiddenDim]
	for i, w := range row {
		acc[i] += int32(w)
	}
}

func (n *Network) subRow(acc []int32, feature int) {
	row := n.InputWeights[feature*n.HiddenDim : (feature+1)*n.HiddenDim]
	for i, w := range row {
		acc[i] -= int32(w)
	}
}

func clippedReLU(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > QuantClip {
		return QuantClip
	}
	return v
}

// Evaluate performs the forward pass for the side-to-move perspective:
// concatenate (stm accumulator, other accumulator), clipped ReLU, dot
// with output weights, add bias, divide by scale. Positive is good for
// the side to move (spec.md §4.F).
func (n *Network) Evaluate(acc *Accumulator, stm int) int32 {
	other := 1 - stm
	var sum int32
	for i, v := range acc.Values[stm] {
		sum += clippedReLU(v) * n.OutputWeights[i]
	}
	off := n.HiddenDim
	for i, v := range acc.Values[other] {
		sum += clippedReLU(v) * n.OutputWeights[off+i]
	}
	sum += n.OutputBias
	return sum / Scale
}

// LoadBlob parses the little-endian binary layout from spec.md §6.4:
// [magic:4][version:4][input_dim:4][hidden_dim:4][output_dim:4]
// [iw: input_dim*hidden_dim * i16][ib: hidden_dim * i16]
// [ow: 2*hidden_dim * i16][ob: i32].
func LoadBlob(data []byte) (*Network, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("nnue: blob too short: %d bytes", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != blobMagic {
		return nil, fmt.Errorf("nnue: bad magic %#x", magic)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != blobVersion {
		return nil, fmt.Errorf("nnue: unsupported version %d", version)
	}
	inputDim := int(binary.LittleEndian.Uint32(data[8:12]))
	hiddenDim := int(binary.LittleEndian.Uint32(data[12:16]))
	outputDim := int(binary.LittleEndian.Uint32(data[16:20]))
	if outputDim != 1 {
		return nil, fmt.Errorf("nnue: unsupported output_dim %d", outputDim)
	}

	off := 20
	iwCount := inputDim * hiddenDim
	iw, off, err := readI16(data, off, iwCount)
	if err != nil {
		return nil, err
	}
	ibRaw, off, err := readI16(data, off, hiddenDim)
	if err != nil {
		return nil, err
	}
	owRaw, off, err := readI16(data, off, 2*hiddenDim)
	if err != nil {
		return nil, err
	}
	if off+4 > len(data) {
		return nil, fmt.Errorf("nnue: blob truncated before output bias")
	}
	ob := int32(binary.LittleEndian.Uint32(data[off : off+4]))

	ib := make([]int32, hiddenDim)
	for i, v := range ibRaw {
		ib[i] = int32(v)
	}
	ow := make([]int32, 2*hiddenDim)
	for i, v := range owRaw {
		ow[i] = int32(v)
	}

	return &Network{
		InputDim:      inputDim,
		HiddenDim:     hiddenDim,
		OutputDim:     outputDim,
		InputWeights:  iw,
		InputBias:     ib,
		OutputWeights: ow,
		OutputBias:    ob,
	}, nil
}

// NewZeroNetwork builds a network of the given hidden width with all
// weights zeroed, for tests that exercise accumulator plumbing without a
// trained blob.
func NewZeroNetwork(hiddenDim int) *Network {
	return &Network{
		InputDim:      InputDim,
		HiddenDim:     hiddenDim,
		OutputDim:     1,
		InputWeights:  make([]int16, InputDim*hiddenDim),
		InputBias:     make([]int32, hiddenDim),
		OutputWeights: make([]int32, 2*hiddenDim),
	}
}

func readI16(data []byte, off, count int) ([]int16, int, error) {
	need := off + count*2
	if need > len(data) {
		return nil, off, fmt.Errorf("nnue: blob truncated at offset %d (need %d more bytes)", off, count*2)
	}
	out := make([]int16, count)
	for i := 0; i < count; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(data[off+i*2 : off+i*2+2]))
	}
	return out, need, nil
}
