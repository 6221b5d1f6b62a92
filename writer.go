package pubstatic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// WriteStats summarizes a Write call.
type WriteStats struct {
	Pages  int
	Images int
	Bytes  int64
}

// StaticFiles maps the public URL of every file the site publishes to its
// file node: post images, files embedded or linked from post and notebook
// bodies, remote files attached to a post's document, and the author image.
func StaticFiles(res *BuildResult) map[string]*FileNode {
	out := make(map[string]*FileNode)
	add := func(files ...*FileNode) {
		for _, f := range files {
			if f != nil {
				out[ImageURL(f)] = f
			}
		}
	}
	add(res.Author)
	for _, p := range res.Posts {
		add(p.Image, p.SocialImage)
		add(p.Files...)
		if res.Graph == nil {
			continue
		}
		for _, id := range res.Graph.Children(p.Parent) {
			if f, ok := res.Graph.File(id); ok && f.Source == remoteSource {
				add(f)
			}
		}
	}
	for _, n := range res.Notebooks {
		add(n.Files...)
	}
	for _, p := range res.Projects {
		add(p.Files...)
	}
	return out
}

// Write renders every page of res into the output directory along with the
// feed, sitemap, robots.txt, stylesheet and referenced images. The output
// directory is recreated on every call.
func (a *App) Write(ctx context.Context, res *BuildResult) (WriteStats, error) {
	var stats WriteStats
	out, err := filepath.Abs(a.path(a.Config.OutputDir))
	if err != nil {
		return stats, err
	}
	root, err := filepath.Abs(a.root)
	if err != nil {
		return stats, err
	}
	if out == root || strings.HasPrefix(root, out+string(filepath.Separator)) {
		return stats, fmt.Errorf("pubstatic: refusing to write into %s: it contains the project", out)
	}
	if err := os.RemoveAll(out); err != nil {
		return stats, fmt.Errorf("pubstatic: clean %s: %w", out, err)
	}

	for _, page := range res.Pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		cmp, err := a.PageComponent(res, page)
		if err != nil {
			return stats, err
		}
		target, err := outputPath(out, path.Join(page.Path, "index.html"))
		if err != nil {
			return stats, err
		}
		n, err := writeFile(target, func(w io.Writer) error { return cmp.Render(ctx, w) })
		if err != nil {
			return stats, fmt.Errorf("pubstatic: write page %s: %w", page.Path, err)
		}
		stats.Pages++
		stats.Bytes += n
	}

	extras := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"rss.xml", func(w io.Writer) error { return a.WriteRSS(w, res.Posts, res.BuiltAt) }},
		{"sitemap.xml", func(w io.Writer) error { return a.WriteSitemap(w, res) }},
		{"robots.txt", a.WriteRobots},
		{"404.html", func(w io.Writer) error { return a.Views.NotFound(a.SiteView(res)).Render(ctx, w) }},
		{"style.css", embeddedCopy(stylesheetPath)},
		{"math.js", embeddedCopy(mathScriptPath)},
	}
	for _, x := range extras {
		n, err := writeFile(filepath.Join(out, x.name), x.write)
		if err != nil {
			return stats, fmt.Errorf("pubstatic: write %s: %w", x.name, err)
		}
		stats.Bytes += n
	}

	for url, f := range StaticFiles(res) {
		n, err := a.writeImage(out, url, f)
		if err != nil {
			return stats, err
		}
		stats.Images++
		stats.Bytes += n
	}

	a.Logger.Infof("wrote %d pages and %d images (%s) to %s",
		stats.Pages, stats.Images, humanize.Bytes(uint64(stats.Bytes)), out)
	return stats, nil
}

func embeddedCopy(name string) func(io.Writer) error {
	return func(w io.Writer) error {
		data, err := fs.ReadFile(EmbeddedAssets, name)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}

// writeImage copies f to its public URL under out, downscaling raster
// images wider than the configured maximum.
func (a *App) writeImage(out, url string, f *FileNode) (int64, error) {
	data, err := os.ReadFile(f.AbsolutePath)
	if err != nil {
		return 0, fmt.Errorf("pubstatic: read image %s: %w", f.AbsolutePath, err)
	}
	processed, w, h, err := ProcessImage(data, a.Config.ImageMaxWidth)
	if err != nil {
		a.Logger.Debugf("copying %s unprocessed: %v", f.AbsolutePath, err)
		processed = data
	} else if len(processed) != len(data) {
		a.Logger.Debugf("resized %s to %dx%d (%s -> %s)", displayName(f), w, h,
			humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(len(processed))))
	}
	target, err := outputPath(out, url)
	if err != nil {
		return 0, err
	}
	return writeFile(target, func(dst io.Writer) error {
		_, err := dst.Write(processed)
		return err
	})
}

// outputPath joins the slash-separated rel onto out. Paths that clean to a
// location outside out are rejected.
func outputPath(out, rel string) (string, error) {
	target := filepath.Join(out, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, out+string(filepath.Separator)) {
		return "", fmt.Errorf("pubstatic: %s resolves outside %s", rel, out)
	}
	return target, nil
}

func displayName(f *FileNode) string {
	if f.URL != "" {
		return f.URL
	}
	return f.RelativePath
}

// writeFile creates target and its parent directories and fills it with fn.
func writeFile(target string, fn func(io.Writer) error) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	file, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: file}
	bw := bufio.NewWriter(cw)
	if err := fn(bw); err != nil {
		file.Close()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return 0, err
	}
	return cw.n, file.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
