package pubstatic

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("pubstatic: not found")

// Entry kinds stored in the nodes table.
const (
	KindPost     = "post"
	KindNotebook = "notebook"
	KindProject  = "project"
)

// RemoteFile is a downloaded remote image remembered across builds.
type RemoteFile struct {
	URL         string
	Path        string
	ContentType string
	Size        int64
	Width       int
	Height      int
	FetchedAt   string
}

// StoredNode is the persisted summary of a derived post or notebook.
type StoredNode struct {
	ID          string
	Kind        string
	Slug        string
	Title       string
	Date        string
	Tags        []string
	Excerpt     string
	ReadingTime string
	Digest      string
}

// BuildRecord summarizes one finished build.
type BuildRecord struct {
	ID         int64
	FinishedAt string
	Posts      int
	Notebooks  int
	Pages      int
	DurationMS int64
}

// Store wraps a SQLite database holding the remote file cache and a
// snapshot of the last build's nodes.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS remote_files (
    url TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    content_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    reading_time TEXT NOT NULL,
    digest TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
CREATE TABLE IF NOT EXISTS builds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    finished_at TEXT NOT NULL,
    posts INTEGER NOT NULL,
    notebooks INTEGER NOT NULL,
    pages INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL
);
`)
	return err
}

// GetRemoteFile returns the cached download for url.
func (s *Store) GetRemoteFile(url string) (RemoteFile, error) {
	rf := RemoteFile{URL: url}
	err := s.db.QueryRow(`SELECT path, content_type, size, width, height, fetched_at FROM remote_files WHERE url = ?`, url).
		Scan(&rf.Path, &rf.ContentType, &rf.Size, &rf.Width, &rf.Height, &rf.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RemoteFile{}, ErrNotFound
	}
	if err != nil {
		return RemoteFile{}, err
	}
	return rf, nil
}

// SaveRemoteFile upserts a cached download.
func (s *Store) SaveRemoteFile(rf RemoteFile) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO remote_files (url, path, content_type, size, width, height, fetched_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rf.URL, rf.Path, rf.ContentType, rf.Size, rf.Width, rf.Height, rf.FetchedAt)
	if err != nil {
		return fmt.Errorf("pubstatic: save remote file: %w", err)
	}
	return nil
}

// ReplaceNodes swaps the stored snapshot of one kind for nodes.
func (s *Store) ReplaceNodes(kind string, nodes []StoredNode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM nodes WHERE kind = ?`, kind); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO nodes (id, kind, slug, title, date, tags, excerpt, reading_time, digest) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, n := range nodes {
		if _, err := stmt.Exec(n.ID, kind, n.Slug, n.Title, n.Date, JoinTagString(n.Tags), n.Excerpt, n.ReadingTime, n.Digest); err != nil {
			return fmt.Errorf("pubstatic: store node %s: %w", n.Slug, err)
		}
	}
	return tx.Commit()
}

// ListNodes returns stored nodes of kind ordered by date then title,
// descending. If tag is non-empty, results are filtered to nodes carrying it.
func (s *Store) ListNodes(kind, tag string) ([]StoredNode, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT id, kind, slug, title, date, tags, excerpt, reading_time, digest FROM nodes WHERE kind = ? ORDER BY date DESC, title DESC`, kind)
	} else {
		normalizedTag := strings.ToLower(strings.TrimSpace(tag))
		rows, err = s.db.Query(`SELECT id, kind, slug, title, date, tags, excerpt, reading_time, digest FROM nodes WHERE kind = ? AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC, title DESC`, kind, normalizedTag)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []StoredNode
	for rows.Next() {
		var n StoredNode
		var tags string
		if err := rows.Scan(&n.ID, &n.Kind, &n.Slug, &n.Title, &n.Date, &tags, &n.Excerpt, &n.ReadingTime, &n.Digest); err != nil {
			return nil, err
		}
		n.Tags = ParseTags(tags)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// RecordBuild appends a build summary.
func (s *Store) RecordBuild(b BuildRecord) error {
	_, err := s.db.Exec(`INSERT INTO builds (finished_at, posts, notebooks, pages, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		b.FinishedAt, b.Posts, b.Notebooks, b.Pages, b.DurationMS)
	return err
}

// LastBuild returns the most recent build summary.
func (s *Store) LastBuild() (BuildRecord, error) {
	var b BuildRecord
	err := s.db.QueryRow(`SELECT id, finished_at, posts, notebooks, pages, duration_ms FROM builds ORDER BY id DESC LIMIT 1`).
		Scan(&b.ID, &b.FinishedAt, &b.Posts, &b.Notebooks, &b.Pages, &b.DurationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, ErrNotFound
	}
	return b, err
}

// JoinTagString stores tags as a comma-delimited string (",nlp,aws,") so a
// single tag can be matched with instr.
func JoinTagString(tags []string) string {
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
