package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FetchAll downloads every URL into destDir, at most concurrency at a time.
// ZIP archives are extracted into destDir. The returned paths are in URL
// order, with archive contents in place of the archive.
func FetchAll(ctx context.Context, f Fetcher, urls []string, destDir string, concurrency int) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "fetcher: create dest dir")
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([][]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			name, err := fileName(rawURL)
			if err != nil {
				return err
			}
			dst := filepath.Join(destDir, name)

			n, err := f.DownloadToFile(gctx, rawURL, dst)
			if err != nil {
				return eris.Wrapf(err, "fetcher: download %s", rawURL)
			}
			zap.L().Info("fetcher: downloaded",
				zap.String("url", rawURL),
				zap.String("path", dst),
				zap.Int64("bytes", n),
			)

			if !strings.EqualFold(filepath.Ext(dst), ".zip") {
				results[i] = []string{dst}
				return nil
			}
			files, err := ExtractZIP(dst, destDir)
			if err != nil {
				return eris.Wrapf(err, "fetcher: extract %s", dst)
			}
			results[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var paths []string
	for _, r := range results {
		paths = append(paths, r...)
	}
	return paths, nil
}

func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", eris.Errorf("fetcher: no file name in %q", rawURL)
	}
	return name, nil
}
