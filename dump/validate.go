package dump

import (
	"fmt"
	"math/bits"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/models"
)

type Reason int

// Accepted is the Reason reported for a candidate that passed every check.
const Accepted Reason = -1

const (
	RejectShort Reason = iota
	RejectNamePtr
	RejectDataPtr
	RejectNameBounds
	RejectDataBounds
	RejectNameShape
	RejectDecompress
	RejectNameASCII
	numReasons
)

var reasonNames = [...]string{
	RejectShort:      "short record",
	RejectNamePtr:    "name pointer outside region",
	RejectDataPtr:    "data pointer outside region",
	RejectNameBounds: "name out of bounds",
	RejectDataBounds: "data out of bounds",
	RejectNameShape:  "name does not start with '/'",
	RejectDecompress: "data does not decompress",
	RejectNameASCII:  "name is not ASCII",
}

func (r Reason) String() string {
	if r == Accepted {
		return "accepted"
	}
	if r >= 0 && r < numReasons {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// RejectError is returned by Validate for a candidate that is not a descriptor.
type RejectError struct {
	Offset uint64
	Reason Reason
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("descriptor at %#x rejected: %s", e.Offset, e.Reason)
}

// failMemoSize bounds the number of data ranges remembered as undecodable.
const failMemoSize = 4096

type span struct{ off, size uint64 }

// Validator decides whether the bytes at an offset are a genuine descriptor.
type Validator struct {
	data   []byte
	tr     Translator
	failed *lru.Cache[span, struct{}]
}

func NewValidator(data []byte, tr Translator) (*Validator, error) {
	memo, err := lru.New[span, struct{}](failMemoSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Validator{data: data, tr: tr, failed: memo}, nil
}

// Validate returns the asset described at off, or a *RejectError.
func (v *Validator) Validate(off uint64) (*models.Asset, error) {
	asset, reason := v.check(off)
	if asset == nil {
		return nil, &RejectError{Offset: off, Reason: reason}
	}
	return asset, nil
}

// inBounds reports whether [off, off+n) lies inside a buffer of the given
// size. off+n saturates instead of wrapping.
func inBounds(off, n, size uint64) bool {
	if off >= size {
		return false
	}
	end, carry := bits.Add64(off, n, 0)
	return carry == 0 && end <= size
}

func isASCII(p []byte) bool {
	for _, b := range p {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func (v *Validator) check(off uint64) (*models.Asset, Reason) {
	size := uint64(len(v.data))
	if !inBounds(off, DescriptorSize, size) {
		return nil, RejectShort
	}
	d, err := DecodeDescriptor(v.data[off:])
	if err != nil {
		return nil, RejectShort
	}
	nameOff, ok := v.tr.Translate(d.NamePtr)
	if !ok {
		return nil, RejectNamePtr
	}
	dataOff, ok := v.tr.Translate(d.DataPtr)
	if !ok {
		return nil, RejectDataPtr
	}
	if !inBounds(nameOff, d.NameLen, size) {
		return nil, RejectNameBounds
	}
	if !inBounds(dataOff, d.DataSize, size) {
		return nil, RejectDataBounds
	}
	// cheap signature check before the codec runs
	if d.NameLen == 0 || v.data[nameOff] != '/' {
		return nil, RejectNameShape
	}
	key := span{dataOff, d.DataSize}
	if v.failed.Contains(key) {
		return nil, RejectDecompress
	}
	z := v.data[dataOff : dataOff+d.DataSize]
	n, err := decodedSize(z)
	if err != nil {
		v.failed.Add(key, struct{}{})
		return nil, RejectDecompress
	}
	name := v.data[nameOff : nameOff+d.NameLen]
	if !isASCII(name) {
		return nil, RejectNameASCII
	}
	return &models.Asset{
		Name:       string(name),
		Offset:     off,
		Compressed: append([]byte(nil), z...),
		Size:       n,
	}, Accepted
}
