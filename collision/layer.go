package collision

// DefaultLayer is bit 0, the layer everything starts on.
const DefaultLayer uint32 = 1

// LayerBit returns the mask for layer bit i. Out of range bits yield zero.
func LayerBit(i int) uint32 {
	if i < 0 || i > 31 {
		return 0
	}
	return 1 << uint(i)
}

func SetBit(mask uint32, i int, on bool) uint32 {
	b := LayerBit(i)
	if on {
		return mask | b
	}
	return mask &^ b
}

func HasBit(mask uint32, i int) bool {
	return mask&LayerBit(i) != 0
}

// Interacts reports whether a mover with mask sees something on layer.
func Interacts(mask, layer uint32) bool {
	return mask&layer != 0
}
