package pubstatic

import (
	"testing"
	"time"
)

func TestCreateNodeID(t *testing.T) {
	a := CreateNodeID("doc >>> MdxBlogPost")
	if a != CreateNodeID("doc >>> MdxBlogPost") {
		t.Error("CreateNodeID should be deterministic")
	}
	if a == CreateNodeID("doc >>> MdxNotebook") {
		t.Error("different keys should give different ids")
	}
	if len(a) != 36 {
		t.Errorf("CreateNodeID() = %q, want a UUID", a)
	}
}

func TestContentDigest(t *testing.T) {
	p := BlogPost{Title: "A", Tags: []string{"x"}}
	d := ContentDigest(p)
	if d != ContentDigest(p) || len(d) != 32 {
		t.Errorf("ContentDigest() = %q, want a stable md5 hex", d)
	}
	p.Title = "B"
	if ContentDigest(p) == d {
		t.Error("digest should change with content")
	}
}

func TestGraphSortsPosts(t *testing.T) {
	g := NewGraph()
	day := func(d int) time.Time { return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC) }
	g.AddPost(&BlogPost{ID: "1", Parent: "d1", Title: "A", Date: day(1)})
	g.AddPost(&BlogPost{ID: "2", Parent: "d2", Title: "B", Date: day(3)})
	g.AddPost(&BlogPost{ID: "3", Parent: "d3", Title: "C", Date: day(3)})
	g.AddPost(&BlogPost{ID: "4", Parent: "d4", Title: "D", Date: day(2)})

	want := []string{"3", "2", "4", "1"}
	got := g.Posts(0)
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("Posts()[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
	if capped := g.Posts(2); len(capped) != 2 {
		t.Errorf("Posts(2) returned %d posts, want 2", len(capped))
	}
	if kids := g.Children("d2"); len(kids) != 1 || kids[0] != "2" {
		t.Errorf("Children(d2) = %v, want [2]", kids)
	}
}

func TestGraphFiles(t *testing.T) {
	g := NewGraph()
	g.AddFile(&FileNode{ID: "b", AbsolutePath: "/x/b.png"})
	g.AddFile(&FileNode{ID: "a", AbsolutePath: "/x/a.png", Parent: "doc"})

	if f, ok := g.FileByPath("/x/a.png"); !ok || f.ID != "a" {
		t.Errorf("FileByPath() = %v, %v", f, ok)
	}
	files := g.Files()
	if len(files) != 2 || files[0].ID != "a" {
		t.Errorf("Files() = %v, want sorted by path", files)
	}
	if kids := g.Children("doc"); len(kids) != 1 {
		t.Errorf("Children(doc) = %v", kids)
	}
}

func TestStaticFilesIncludesRemoteChildren(t *testing.T) {
	g := NewGraph()
	cover := &FileNode{ID: "cover-0001", AbsolutePath: "/c/hello/cover.png"}
	remote := &FileNode{ID: "remote-0001", Parent: "doc", Source: remoteSource, AbsolutePath: "/cache/r.jpg"}
	g.AddFile(cover)
	g.AddFile(remote)

	res := &BuildResult{Graph: g, Posts: []*BlogPost{{ID: "p", Parent: "doc", Image: cover}}}
	files := StaticFiles(res)
	if len(files) != 2 {
		t.Fatalf("StaticFiles() returned %d files, want 2", len(files))
	}
	if files[ImageURL(remote)] != remote {
		t.Errorf("remote child %s missing", ImageURL(remote))
	}
}

func TestGraphProjectsAndAuthorImage(t *testing.T) {
	g := NewGraph()
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	g.AddProject(&Project{ID: "old", Title: "Old", Date: day(1)})
	g.AddProject(&Project{ID: "new", Title: "New", Date: day(5)})
	if got := g.Projects(); len(got) != 2 || got[0].ID != "new" {
		t.Errorf("Projects() = %v, want newest first", got)
	}

	g.AddFile(&FileNode{ID: "a1", Source: "content/author", RelativePath: "author.png", AbsolutePath: "/s/content/author/author.png"})
	g.AddFile(&FileNode{ID: "a2", Source: "content/posts", RelativePath: "author.png", AbsolutePath: "/s/content/posts/author.png"})
	if f, ok := g.AuthorImage("content/author", "author.png"); !ok || f.ID != "a1" {
		t.Errorf("AuthorImage() = %v, %v, want a1", f, ok)
	}
	if _, ok := g.AuthorImage("content/author", "missing.png"); ok {
		t.Error("AuthorImage() found a missing file")
	}
}
