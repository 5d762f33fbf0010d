package dump

import (
	"bytes"
	"context"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lunixbochs/assetdump/models"
)

var errEmptyStream = errors.New("empty brotli stream")

func newDecoder(z []byte) (io.Reader, error) {
	// the reader treats an empty source as a clean EOF
	if len(z) == 0 {
		return nil, errEmptyStream
	}
	return brotli.NewReader(bytes.NewReader(z)), nil
}

// Decompress runs z through the brotli decoder and requires the stream to
// end exactly at the end of z.
func Decompress(z []byte) ([]byte, error) {
	r, err := newDecoder(z)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "brotli")
	}
	return out, nil
}

// decodedSize decodes z without keeping the output.
func decodedSize(z []byte) (int, error) {
	r, err := newDecoder(z)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return 0, errors.Wrap(err, "brotli")
	}
	return int(n), nil
}

// Extract decodes the compressed bytes of a.
func Extract(a *models.Asset) ([]byte, error) {
	out, err := Decompress(a.Compressed)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decompress %s", a.Name)
	}
	return out, nil
}

type Payload struct {
	Asset *models.Asset
	Data  []byte
	Err   error
}

// ExtractAll decompresses assets on up to workers goroutines. Payloads are
// returned in the order of assets; per-asset failures are reported in
// Payload.Err and do not stop the others.
func ExtractAll(ctx context.Context, assets []*models.Asset, workers int) ([]Payload, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]Payload, len(assets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, a := range assets {
		i, a := i, a // per-iteration copies; go.mod targets go1.21
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := Extract(a)
			out[i] = Payload{Asset: a, Data: data, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return out, nil
}
