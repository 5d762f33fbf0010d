package models

// Asset is one accepted descriptor.
type Asset struct {
	Name string
	// Offset is the file offset of the descriptor that produced the asset.
	Offset     uint64
	Compressed []byte
	// Size is the decoded length seen when the descriptor was validated.
	Size int
}
