package pubstatic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/eringen/pubstatic/markdown"
)

const (
	jpegQuality     = 80
	maxRemoteSize   = 20 << 20 // 20MB
	remoteSubdir    = "remote"
	remoteSource    = "__remote"
	staticURLPrefix = "/static/"
)

// RemoteFetcher downloads remote images into the cache directory and
// remembers them in the build store so later builds skip the download.
type RemoteFetcher struct {
	client *http.Client
	dir    string
	store  *Store
}

// NewRemoteFetcher creates a fetcher writing under dir. store may be nil.
func NewRemoteFetcher(client *http.Client, dir string, store *Store) *RemoteFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteFetcher{client: client, dir: dir, store: store}
}

// Fetch returns a file node for rawURL owned by parentID, downloading it
// unless a cached copy is still on disk.
func (f *RemoteFetcher) Fetch(ctx context.Context, rawURL, parentID string) (*FileNode, error) {
	if f.store != nil {
		if rec, err := f.store.GetRemoteFile(rawURL); err == nil {
			if info, statErr := os.Stat(rec.Path); statErr == nil {
				return remoteNode(rawURL, parentID, rec.Path, info.Size(), rec.Width, rec.Height), nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status code %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(data) > maxRemoteSize {
		return nil, fmt.Errorf("fetch %s: larger than %d bytes", rawURL, maxRemoteSize)
	}

	dir := filepath.Join(f.dir, remoteSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create remote cache dir: %w", err)
	}
	name := CreateNodeID(rawURL) + remoteExt(rawURL, resp.Header.Get("Content-Type"))
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", abs, err)
	}

	w, h := 0, 0
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		w, h = cfg.Width, cfg.Height
	}
	if f.store != nil {
		if err := f.store.SaveRemoteFile(RemoteFile{
			URL:         rawURL,
			Path:        abs,
			ContentType: resp.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Width:       w,
			Height:      h,
			FetchedAt:   time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, err
		}
	}
	return remoteNode(rawURL, parentID, abs, int64(len(data)), w, h), nil
}

func remoteNode(rawURL, parentID, abs string, size int64, w, h int) *FileNode {
	abs = filepath.ToSlash(abs)
	return &FileNode{
		ID:           CreateNodeID("remote:" + rawURL + ":" + parentID),
		Parent:       parentID,
		Source:       remoteSource,
		AbsolutePath: abs,
		RelativePath: path.Base(abs),
		Dir:          path.Dir(abs),
		Ext:          strings.ToLower(path.Ext(abs)),
		Size:         size,
		URL:          rawURL,
		Width:        w,
		Height:       h,
	}
}

// remoteExt picks a file extension from the URL path, falling back to the
// response content type.
func remoteExt(rawURL, contentType string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if ext := strings.ToLower(path.Ext(rawURL)); imageExts[ext] || ext == ".svg" || ext == ".webp" {
		return ext
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		case "image/svg+xml":
			return ".svg"
		}
	}
	return ".bin"
}

// materializeImage resolves an image frontmatter value. URLs are fetched
// and attached to the document; anything else is looked up relative to the
// document's directory. Failures resolve to nil.
func (a *App) materializeImage(ctx context.Context, g *Graph, doc *Document, value string) *FileNode {
	if value == "" {
		return nil
	}
	if ValidURL(value) {
		node, err := a.fetcher.Fetch(ctx, value, doc.ID)
		if err != nil {
			a.Logger.Warnf("remote image for %s: %v", doc.RelativePath, err)
			return nil
		}
		g.AddFile(node)
		return node
	}
	return ResolveRelativeImage(g, doc, value)
}

// ResolveRelativeImage matches value, relative to the document's directory,
// against the indexed file nodes.
func ResolveRelativeImage(g *Graph, doc *Document, value string) *FileNode {
	abs := path.Join(doc.Dir, filepath.ToSlash(value))
	if f, ok := g.FileByPath(abs); ok {
		return f
	}
	return nil
}

// ResolveBodyRef resolves a src or href from a rendered body to an indexed
// file. Absolute URLs, site paths, fragments and links to other Markdown
// documents are not files and resolve to nil.
func ResolveBodyRef(g *Graph, doc *Document, ref string) *FileNode {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return nil
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case "", ".md", ".mdx":
		return nil
	}
	return ResolveRelativeImage(g, doc, u.Path)
}

// linkBodyFiles points relative references in a rendered body at the
// published copies of the files they name and returns those files.
// Unresolved references are left as written.
func (a *App) linkBodyFiles(g *Graph, doc *Document, body string) (string, []*FileNode, error) {
	var files []*FileNode
	seen := make(map[string]bool)
	out, err := markdown.RewriteAssets(body, func(ref string) (markdown.Asset, bool) {
		f := ResolveBodyRef(g, doc, ref)
		if f == nil {
			return markdown.Asset{}, false
		}
		if !seen[f.ID] {
			seen[f.ID] = true
			files = append(files, f)
		}
		w, h := fitWidth(f.Width, f.Height, a.Config.ImageMaxWidth)
		return markdown.Asset{URL: ImageURL(f), Width: w, Height: h}, true
	})
	if err != nil {
		return "", nil, fmt.Errorf("pubstatic: %s: %w", doc.RelativePath, err)
	}
	return out, files, nil
}

// ImageURL is the public path a file node is published under.
func ImageURL(f *FileNode) string {
	if f == nil {
		return ""
	}
	return staticURLPrefix + f.ID[:8] + "/" + path.Base(f.AbsolutePath)
}

// ProcessImage decodes a raster image and downscales it to maxWidth when it
// is wider. PNGs stay PNG and JPEGs stay JPEG. GIFs and images that need no
// resize are returned unchanged.
func ProcessImage(data []byte, maxWidth int) ([]byte, int, int, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth || format == "gif" {
		return data, w, h, nil
	}

	newH := max(1, h*maxWidth/w)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), maxWidth, newH, nil
}
