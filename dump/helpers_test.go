package dump

import (
	"github.com/lunixbochs/assetdump/internal/testimage"
	"github.com/lunixbochs/assetdump/loader"
	"github.com/lunixbochs/assetdump/models"
)

const (
	testRDataAddr = 0x140003000
	testRDataOff  = 0x400
)

func newRData() *testimage.Region {
	return &testimage.Region{Addr: testRDataAddr}
}

// flatImage places r at testRDataOff in an otherwise zeroed file and
// describes it as the .rdata section of a PE image.
func flatImage(r *testimage.Region) ([]byte, models.Loader) {
	data := make([]byte, testRDataOff+r.Len()+0x100)
	copy(data[testRDataOff:], r.Bytes())
	sect := models.Section{
		Name: ".rdata",
		Kind: models.KindReadOnlyData,
		Addr: r.Addr,
		Off:  testRDataOff,
		Size: uint64(r.Len()),
	}
	return data, loader.NewStaticLoader(models.FormatPE, "x86_64", 64, 0, []models.Section{sect})
}

// fileOffset converts a region address back to its position in flatImage.
func fileOffset(addr uint64) uint64 {
	return addr - testRDataAddr + testRDataOff
}
