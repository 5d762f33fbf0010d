package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/cmd"
	"github.com/lunixbochs/assetdump/dump"
	"github.com/lunixbochs/assetdump/models"
)

type assetInfo struct {
	Name           string `json:"name"`
	Offset         uint64 `json:"offset"`
	CompressedSize int    `json:"compressed_size"`
	Size           int    `json:"size"`
}

type report struct {
	Format     string         `json:"format"`
	Arch       string         `json:"arch"`
	RegionOff  uint64         `json:"region_offset"`
	RegionSize uint64         `json:"region_size"`
	Candidates int            `json:"candidates"`
	Rejected   map[string]int `json:"rejected"`
	Assets     []assetInfo    `json:"assets"`
}

// Scan lists the assets in c.Input without writing them.
func Scan(c *models.Config, asJSON bool) error {
	s, err := dump.Open(c.Input, c.ArchHint)
	if err != nil {
		return err
	}
	defer s.Close()

	rep := &report{
		Format:     s.Variant.Format.String(),
		Arch:       s.Loader.Arch(),
		RegionOff:  s.Variant.Scan.Off,
		RegionSize: s.Variant.Scan.Size,
		Rejected:   make(map[string]int),
		Assets:     []assetInfo{},
	}
	err = s.ScanFunc(func(a *models.Asset) error {
		rep.Assets = append(rep.Assets, assetInfo{
			Name:           a.Name,
			Offset:         a.Offset,
			CompressedSize: len(a.Compressed),
			Size:           a.Size,
		})
		return nil
	})
	if err != nil {
		return err
	}
	stats := s.Stats()
	rep.Candidates = stats.Candidates
	for i, n := range stats.Rejected {
		if n > 0 {
			rep.Rejected[dump.Reason(i).String()] = n
		}
	}
	if asJSON {
		enc := json.NewEncoder(c.Stdout)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(rep))
	}
	printReport(models.NewPrinter(c), rep)
	return nil
}

func printReport(p *models.Printer, rep *report) {
	p.Printf("%s %s, region %#x+%#x\n", rep.Format, rep.Arch, rep.RegionOff, rep.RegionSize)
	tw := tabwriter.NewWriter(p.W, 0, 8, 2, ' ', 0)
	for _, a := range rep.Assets {
		fmt.Fprintf(tw, "%#x\t%d\t%d\t%s\n", a.Offset, a.CompressedSize, a.Size, p.Name(a.Name))
	}
	tw.Flush()
	p.Printf("%d assets, %d candidates\n", len(rep.Assets), rep.Candidates)
	for i := 0; i < len(dump.Stats{}.Rejected); i++ {
		name := dump.Reason(i).String()
		if n := rep.Rejected[name]; n > 0 {
			p.Println(p.Dim(fmt.Sprintf("  %-30s %d", name, n)))
		}
	}
}

func Main(args []string) {
	c := cmd.NewConfig()
	fs := cmd.NewFlagSet(args[0], "[options] -i <exe>")
	fs.StringVar(&c.Input, "i", "", "input executable")
	asJSON := fs.Bool("json", false, "print a JSON report")
	cmd.CommonFlags(fs, c)
	fs.Parse(args[1:])
	if c.Input == "" && fs.NArg() > 0 {
		c.Input = fs.Arg(0)
	}
	if c.Input == "" {
		fs.Usage()
		os.Exit(1)
	}
	cmd.Setup(c)
	if err := Scan(c, *asJSON); err != nil {
		cmd.Fatal(err)
	}
}

func init() { cmd.Register("scan", "list embedded assets without extracting", Main) }
