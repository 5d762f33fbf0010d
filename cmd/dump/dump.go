package dump

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/lunixbochs/assetdump/cmd"
	"github.com/lunixbochs/assetdump/dump"
	"github.com/lunixbochs/assetdump/emit"
	"github.com/lunixbochs/assetdump/index"
	"github.com/lunixbochs/assetdump/logger"
	"github.com/lunixbochs/assetdump/models"
)

// Result summarizes a Dump run.
type Result struct {
	Found, Written, Skipped int
}

func openSinks(c *models.Config, fs afero.Fs) (emit.Sink, error) {
	var sinks []emit.Sink
	if c.Output != "" {
		sinks = append(sinks, emit.NewDirSink(fs, c.Output))
	}
	if c.Archive != "" {
		f, err := fs.Create(c.Archive)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		archive, err := emit.NewArchiveSink(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		sinks = append(sinks, archive)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return emit.Multi(sinks...), nil
}

func openIndex(c *models.Config, fs afero.Fs, s *dump.Session) (*index.Writer, error) {
	f, err := fs.Create(c.Index)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	w, err := index.NewWriter(f, index.Header{
		Format:     s.Variant.Format.String(),
		Arch:       s.Loader.Arch(),
		RegionOff:  s.Variant.Scan.Off,
		RegionSize: s.Variant.Scan.Size,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Dump extracts every asset of c.Input into the configured sinks on fs.
func Dump(ctx context.Context, c *models.Config, fs afero.Fs) (*Result, error) {
	p := models.NewPrinter(c)
	s, err := dump.Open(c.Input, c.ArchHint)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	p.Println("Scanning for assets...")
	assets, err := s.Assets()
	p.Printf("Scanning completed. Found %d assets\n", len(assets))
	if err != nil {
		return nil, err
	}
	res := &Result{Found: len(assets)}
	stats := s.Stats()
	logger.Debug("scan finished", "candidates", stats.Candidates, "accepted", stats.Accepted)

	if err := emitAll(ctx, c, fs, s, assets, res); err != nil {
		return res, err
	}
	if res.Skipped > 0 {
		p.Println(p.Warn(fmt.Sprintf("Skipped %d assets", res.Skipped)))
	}
	p.Println("Done :)")
	return res, nil
}

// emitAll decodes assets on c.Workers goroutines and writes them to the
// configured sinks and index.
func emitAll(ctx context.Context, c *models.Config, fs afero.Fs, s *dump.Session, assets []*models.Asset, res *Result) error {
	payloads, err := dump.ExtractAll(ctx, assets, c.Workers)
	if err != nil {
		return err
	}
	sink, err := openSinks(c, fs)
	if err != nil {
		return err
	}
	var idx *index.Writer
	if c.Index != "" {
		if idx, err = openIndex(c, fs, s); err != nil {
			sink.Close()
			return err
		}
	}
	err = writeAll(c, models.NewPrinter(c), sink, idx, payloads, res)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if idx != nil {
		if cerr := idx.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// writeAll stores payloads in scan order so a repeated name ends up with
// the content of its last descriptor.
func writeAll(c *models.Config, p *models.Printer, sink emit.Sink, idx *index.Writer, payloads []dump.Payload, res *Result) error {
	for _, pl := range payloads {
		err := pl.Err
		if err == nil {
			err = sink.Put(pl.Asset.Name, pl.Data)
		}
		if err != nil {
			if !c.KeepGoing {
				return errors.Wrapf(err, "asset %q at %#x", pl.Asset.Name, pl.Asset.Offset)
			}
			logger.Warn("skipping asset", "name", pl.Asset.Name, "offset", pl.Asset.Offset, "err", err)
			p.Printf("%s %s\n", p.Err("Skip asset:"), pl.Asset.Name)
			res.Skipped++
			continue
		}
		if idx != nil {
			if err := idx.Write(index.RecordFor(pl.Asset, len(pl.Data))); err != nil {
				return err
			}
		}
		res.Written++
		p.Printf("Dump asset: %s\n", p.Name(pl.Asset.Name))
	}
	return nil
}

func Main(args []string) {
	c := cmd.NewConfig()
	fs := cmd.NewFlagSet(args[0], "[options] -i <exe> -o <dir>")
	fs.StringVar(&c.Input, "i", "", "input executable")
	fs.StringVar(&c.Output, "o", "", "output directory")
	fs.StringVar(&c.Archive, "archive", "", "also write assets to this .tar.zst file")
	fs.StringVar(&c.Index, "index", "", "write a scan index to this file")
	fs.IntVar(&c.Workers, "j", c.Workers, "parallel decompression workers (0 = one per CPU)")
	fs.BoolVar(&c.KeepGoing, "keep-going", false, "skip assets that fail to decompress or write instead of aborting")
	cmd.CommonFlags(fs, c)
	fs.Parse(args[1:])
	if c.Input == "" && fs.NArg() > 0 {
		c.Input = fs.Arg(0)
	}
	if c.Input == "" || (c.Output == "" && c.Archive == "") {
		fs.Usage()
		os.Exit(1)
	}
	cmd.Setup(c)
	if _, err := Dump(context.Background(), c, afero.NewOsFs()); err != nil {
		cmd.Fatal(err)
	}
}

func init() { cmd.Register("dump", "extract embedded assets to a directory", Main) }
