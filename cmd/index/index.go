package index

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/cmd"
	"github.com/lunixbochs/assetdump/index"
	"github.com/lunixbochs/assetdump/models"
)

// Print decodes the index file at path to c.Stdout, one record per line.
func Print(c *models.Config, path string, asJSON bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	r, err := index.NewReader(f)
	if err != nil {
		f.Close()
		return err
	}
	defer r.Close()

	p := models.NewPrinter(c)
	var enc *json.Encoder
	if asJSON {
		enc = json.NewEncoder(c.Stdout)
		if err := enc.Encode(&r.Header); err != nil {
			return errors.WithStack(err)
		}
	} else {
		p.Printf("%s %s, region %#x+%#x\n", r.Header.Format, r.Header.Arch, r.Header.RegionOff, r.Header.RegionSize)
	}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if enc != nil {
			if err := enc.Encode(rec); err != nil {
				return errors.WithStack(err)
			}
			continue
		}
		size := p.Dim(fmt.Sprintf("%d -> %d", rec.CompressedSize, rec.Size))
		p.Printf("%#x %s %s\n", rec.Offset, p.Name(rec.Name), size)
	}
}

func Main(args []string) {
	c := cmd.NewConfig()
	fs := cmd.NewFlagSet(args[0], "[options] <index file>")
	asJSON := fs.Bool("json", false, "print one JSON object per line")
	cmd.CommonFlags(fs, c)
	fs.Parse(args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	cmd.Setup(c)
	if err := Print(c, fs.Arg(0), *asJSON); err != nil {
		cmd.Fatal(err)
	}
}

func init() { cmd.Register("index", "print an index written by dump -index", Main) }
