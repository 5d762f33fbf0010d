package main

import (
	"github.com/lunixbochs/assetdump/cmd"

	_ "github.com/lunixbochs/assetdump/cmd/dump"
	_ "github.com/lunixbochs/assetdump/cmd/index"
	_ "github.com/lunixbochs/assetdump/cmd/scan"
)

func main() {
	cmd.Main()
}
