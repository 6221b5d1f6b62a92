package pubstatic

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
)

var markdownExts = map[string]bool{".md": true, ".mdx": true}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// EnsureContentDirs creates the posts, notebooks and assets directories
// under root if they are missing.
func EnsureContentDirs(root string, cfg SiteConfig) error {
	for _, dir := range []string{cfg.ContentPath, cfg.NotebookPath, cfg.AssetPath} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("pubstatic: create content dir %s: %w", dir, err)
		}
	}
	return nil
}

// SourceFilesystem walks a content root, adds every file to the graph and
// parses Markdown/MDX files into documents. The source name is the root as
// configured, so posts and notebooks can be told apart later.
func (a *App) SourceFilesystem(g *Graph, source string) error {
	dir := filepath.Join(a.root, source)
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("pubstatic: resolve %s: %w", dir, err)
	}
	if _, err := os.Stat(absRoot); os.IsNotExist(err) {
		a.Logger.Debugf("content root %s does not exist, skipping", source)
		return nil
	}
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("pubstatic: walk %s: %w", path, walkErr)
		}
		if d.IsDir() {
			if path != absRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		file := &FileNode{
			ID:           CreateNodeID("file:" + path),
			Source:       source,
			AbsolutePath: filepath.ToSlash(path),
			RelativePath: filepath.ToSlash(rel),
			Dir:          filepath.ToSlash(filepath.Dir(path)),
			Ext:          ext,
			Size:         info.Size(),
		}
		if imageExts[ext] {
			file.Width, file.Height = imageSize(path)
		}
		g.AddFile(file)

		if !markdownExts[ext] {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("pubstatic: read %s: %w", path, err)
		}
		doc, err := ParseDocument(file, src)
		if err != nil {
			a.Logger.Warnf("skipping %s: %v", file.RelativePath, err)
			return nil
		}
		g.AddDocument(doc)
		return nil
	})
}

// ParseDocument splits frontmatter from body for a Markdown/MDX file node.
func ParseDocument(file *FileNode, src []byte) (*Document, error) {
	var fm Frontmatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return &Document{
		ID:           CreateNodeID(file.ID + " >>> Mdx"),
		FileID:       file.ID,
		Source:       file.Source,
		RelativePath: file.RelativePath,
		Dir:          file.Dir,
		Frontmatter:  fm,
		Body:         body,
	}, nil
}

func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
