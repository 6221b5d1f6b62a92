package pubstatic

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// nodeNamespace seeds name-based node ids so the same input yields the same
// id across builds.
var nodeNamespace = uuid.MustParse("6f1c3f5e-7a8b-4d3e-9c1a-2b5d8e4f7a10")

// CreateNodeID returns a deterministic id for the given key.
func CreateNodeID(key string) string {
	return uuid.NewSHA1(nodeNamespace, []byte(key)).String()
}

// ContentDigest hashes any JSON-encodable value.
func ContentDigest(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Graph is the in-memory content graph of one build. It is written during
// sourcing and node materialization and read afterwards.
type Graph struct {
	mu        sync.RWMutex
	files     map[string]*FileNode
	filesAbs  map[string]*FileNode
	docs      []*Document
	posts     map[string]*BlogPost
	notebooks map[string]*Notebook
	projects  map[string]*Project
	children  map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		files:     make(map[string]*FileNode),
		filesAbs:  make(map[string]*FileNode),
		posts:     make(map[string]*BlogPost),
		notebooks: make(map[string]*Notebook),
		projects:  make(map[string]*Project),
		children:  make(map[string][]string),
	}
}

// AddFile indexes a file node by id and absolute path.
func (g *Graph) AddFile(f *FileNode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files[f.ID] = f
	if f.AbsolutePath != "" {
		g.filesAbs[f.AbsolutePath] = f
	}
	if f.Parent != "" {
		g.children[f.Parent] = append(g.children[f.Parent], f.ID)
	}
}

// File returns a file node by id.
func (g *Graph) File(id string) (*FileNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.files[id]
	return f, ok
}

// FileByPath returns the file node indexed at an absolute path.
func (g *Graph) FileByPath(abs string) (*FileNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.filesAbs[abs]
	return f, ok
}

// Files returns every file node sorted by absolute path.
func (g *Graph) Files() []*FileNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*FileNode, 0, len(g.files))
	for _, f := range g.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbsolutePath < out[j].AbsolutePath })
	return out
}

// AddDocument records a parsed source document.
func (g *Graph) AddDocument(d *Document) {
	g.mu.Lock()
	g.docs = append(g.docs, d)
	g.children[d.FileID] = append(g.children[d.FileID], d.ID)
	g.mu.Unlock()
}

// Documents returns documents in sourcing order.
func (g *Graph) Documents() []*Document {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]*Document(nil), g.docs...)
}

// AddPost records a derived blog post and links it to its parent.
func (g *Graph) AddPost(p *BlogPost) {
	g.mu.Lock()
	g.posts[p.ID] = p
	g.children[p.Parent] = append(g.children[p.Parent], p.ID)
	g.mu.Unlock()
}

// AddNotebook records a derived notebook and links it to its parent.
func (g *Graph) AddNotebook(n *Notebook) {
	g.mu.Lock()
	g.notebooks[n.ID] = n
	g.children[n.Parent] = append(g.children[n.Parent], n.ID)
	g.mu.Unlock()
}

// AddProject records a derived project and links it to its parent.
func (g *Graph) AddProject(p *Project) {
	g.mu.Lock()
	g.projects[p.ID] = p
	g.children[p.Parent] = append(g.children[p.Parent], p.ID)
	g.mu.Unlock()
}

// Post returns a blog post by id.
func (g *Graph) Post(id string) (*BlogPost, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.posts[id]
	return p, ok
}

// Notebook returns a notebook by id.
func (g *Graph) Notebook(id string) (*Notebook, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.notebooks[id]
	return n, ok
}

// Children returns the ids of nodes linked under parent.
func (g *Graph) Children(parent string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.children[parent]...)
}

// Posts returns blog posts sorted by date then title, descending, capped at limit.
func (g *Graph) Posts(limit int) []*BlogPost {
	g.mu.RLock()
	out := make([]*BlogPost, 0, len(g.posts))
	for _, p := range g.posts {
		out = append(out, p)
	}
	g.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return entryLess(out[i].Date, out[i].Title, out[i].ID, out[j].Date, out[j].Title, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Notebooks returns notebooks sorted by date then title, descending, capped at limit.
func (g *Graph) Notebooks(limit int) []*Notebook {
	g.mu.RLock()
	out := make([]*Notebook, 0, len(g.notebooks))
	for _, n := range g.notebooks {
		out = append(out, n)
	}
	g.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return entryLess(out[i].Date, out[i].Title, out[i].ID, out[j].Date, out[j].Title, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Projects returns projects sorted by date then title, descending.
func (g *Graph) Projects() []*Project {
	g.mu.RLock()
	out := make([]*Project, 0, len(g.projects))
	for _, p := range g.projects {
		out = append(out, p)
	}
	g.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return entryLess(out[i].Date, out[i].Title, out[i].ID, out[j].Date, out[j].Title, out[j].ID)
	})
	return out
}

// AuthorImage returns the file named name under the author root.
func (g *Graph) AuthorImage(root, name string) (*FileNode, bool) {
	if name == "" {
		return nil, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, f := range g.files {
		if f.Source == root && f.RelativePath == name {
			return f, true
		}
	}
	return nil, false
}
