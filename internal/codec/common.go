// Package codec wires the Modular and VarDCT pipelines from
// internal/modular and internal/vardct into complete, serializable
// per-plane payloads: it is the layer the frame orchestrator calls
// into, one level above the bare transform primitives and one level
// below codestream section framing.
package codec

import "encoding/binary"

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendUint32(out []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func readUint32(data []byte, pos int) (uint32, bool) {
	if pos+4 > len(data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[pos:]), true
}

func sumU32(v []uint32) uint32 {
	var s uint32
	for _, x := range v {
		s += x
	}
	return s
}
