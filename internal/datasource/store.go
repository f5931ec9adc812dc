package datasource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no node exists at a path.
var ErrNotFound = errors.New("node not found")

// Node is one leaf of the tree.
type Node struct {
	Path      string          `json:"path"`
	Value     json.RawMessage `json:"value"`
	Rev       string          `json:"rev"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store keeps the JSON tree as flat leaf rows in SQLite.
type Store struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS nodes (
		path       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		rev        TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (s *Store) newRev(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// CleanPath normalizes p to "/a/b" form. The root is "".
func CleanPath(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// Get returns the leaf at path.
func (s *Store) Get(ctx context.Context, path string) (Node, error) {
	n := Node{Path: CleanPath(path)}
	var value, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT value, rev, updated_at FROM nodes WHERE path = ?`, n.Path,
	).Scan(&value, &n.Rev, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, ErrNotFound
	}
	if err != nil {
		return Node{}, fmt.Errorf("get %s: %w", n.Path, err)
	}
	n.Value = json.RawMessage(value)
	n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return n, nil
}

// Put stores a leaf. Objects are flattened into one leaf per scalar and a
// JSON null deletes the subtree, so a write replaces whatever was at path.
// A leaf stored at an ancestor of path is removed, since it would shadow
// the new subtree.
func (s *Store) Put(ctx context.Context, path string, value json.RawMessage) error {
	path = CleanPath(path)
	if path == "" {
		return fmt.Errorf("put: refusing to replace the root")
	}
	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Errorf("put %s: invalid JSON: %w", path, err)
	}

	leaves := map[string]any{}
	flatten(path, decoded, leaves)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteTree(ctx, tx, path); err != nil {
		return err
	}
	for _, a := range ancestors(path) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE path = ?`, a); err != nil {
			return fmt.Errorf("delete %s: %w", a, err)
		}
	}
	now := time.Now().UTC()
	for p, v := range leaves {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (path, value, rev, updated_at) VALUES (?, ?, ?, ?)`,
			p, string(raw), s.newRev(now), now.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert %s: %w", p, err)
		}
	}
	return tx.Commit()
}

// Delete removes path and everything below it. Deleting a missing path is
// not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	path = CleanPath(path)
	if path == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM nodes`)
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := deleteTree(ctx, tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

// SQLite substr counts characters, not bytes.
func deleteTree(ctx context.Context, tx *sql.Tx, path string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM nodes WHERE path = ? OR substr(path, 1, ?) = ?`,
		path, utf8.RuneCountInString(path)+1, path+"/",
	); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// List returns the leaves under prefix ordered by path.
func (s *Store) List(ctx context.Context, prefix string) ([]Node, error) {
	prefix = CleanPath(prefix)
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, value, rev, updated_at FROM nodes
		 WHERE ? = '' OR path = ? OR substr(path, 1, ?) = ?
		 ORDER BY path`,
		prefix, prefix, utf8.RuneCountInString(prefix)+1, prefix+"/",
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Node
	for rows.Next() {
		var n Node
		var value, updated string
		if err := rows.Scan(&n.Path, &value, &n.Rev, &updated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		n.Value = json.RawMessage(value)
		n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, n)
	}
	return out, rows.Err()
}

// Tree returns the value at path: the leaf itself, or an object assembled
// from the leaves below it. A missing path yields nil.
func (s *Store) Tree(ctx context.Context, path string) (any, error) {
	path = CleanPath(path)
	if path != "" {
		n, err := s.Get(ctx, path)
		if err == nil {
			var v any
			if err := json.Unmarshal(n.Value, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
			return v, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	nodes, err := s.List(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	root := map[string]any{}
	for _, n := range nodes {
		var v any
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", n.Path, err)
		}
		rel := strings.Split(strings.TrimPrefix(n.Path, path+"/"), "/")
		insert(root, rel, v)
	}
	return root, nil
}

// ancestors returns the proper prefixes of a clean path, shortest first.
func ancestors(path string) []string {
	var out []string
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			out = append(out, path[:i])
		}
	}
	return out
}

func flatten(path string, v any, out map[string]any) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for k, child := range t {
			flatten(path+"/"+k, child, out)
		}
	case []any:
		for i, child := range t {
			flatten(fmt.Sprintf("%s/%d", path, i), child, out)
		}
	default:
		out[path] = t
	}
}

func insert(root map[string]any, rel []string, v any) {
	cur := root
	for _, key := range rel[:len(rel)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[rel[len(rel)-1]] = v
}
