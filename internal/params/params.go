package params

const (
	// SecParam is the bit strength aimed for by the protocol.
	SecParam = 256
	SecBytes = SecParam / 8

	// BytesScalar is the size of a canonically encoded group scalar.
	BytesScalar = 32
	// BytesPoint is the size of a canonically encoded group element.
	BytesPoint = 32

	// HashBytes is the width of the scalar-derivation hash (SHA-512).
	// The wide output keeps the reduction modulo the group order uniform.
	HashBytes = 64
)
