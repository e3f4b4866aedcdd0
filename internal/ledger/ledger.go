// Package ledger persists one metadata row per successful find, backed by
// SQLite. The hunting core hands it plain structured data; formatting and
// notification are left to consumers of the `finds` listing.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

// Find is one recorded successful find.
type Find struct {
	ID         string               `json:"id"`
	Species    uint16               `json:"species"`
	Name       string               `json:"name"`
	PV         uint32               `json:"pv"`
	ShinyValue uint16               `json:"shiny_value"`
	Nature     string               `json:"nature"`
	Effort     pokerec.EffortValues `json:"effort"`
	Attempts   int                  `json:"attempts"`
	Elapsed    time.Duration        `json:"elapsed"`
	Location   string               `json:"location"`
	Method     string               `json:"method"`
	Snapshot   string               `json:"snapshot,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// RecordParams holds parameters for recording a find.
type RecordParams struct {
	Rec        *pokerec.Record
	ShinyValue uint16
	Attempts   int
	Elapsed    time.Duration
	Location   string
	Method     string
	Snapshot   string
}

// ListParams holds parameters for listing finds.
type ListParams struct {
	Species string
	Limit   int
}

// Ledger is the SQLite-backed find store.
type Ledger struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates the ledger database at the given path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	l := &Ledger{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

func (l *Ledger) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), l.entropy).String()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS finds (
		id          TEXT PRIMARY KEY,
		species     INTEGER NOT NULL,
		name        TEXT NOT NULL,
		pv          INTEGER NOT NULL,
		shiny_value INTEGER NOT NULL,
		nature      TEXT NOT NULL,
		effort      TEXT NOT NULL,
		attempts    INTEGER NOT NULL,
		elapsed_ms  INTEGER NOT NULL,
		location    TEXT NOT NULL,
		method      TEXT NOT NULL,
		snapshot    TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_finds_species ON finds(species);
	CREATE INDEX IF NOT EXISTS idx_finds_created ON finds(created_at DESC);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record inserts a find row and returns it.
func (l *Ledger) Record(ctx context.Context, p RecordParams) (*Find, error) {
	if p.Rec == nil {
		return nil, fmt.Errorf("record find: nil record")
	}

	f := &Find{
		ID:         l.newID(),
		Species:    p.Rec.Species,
		Name:       pokerec.SpeciesName(p.Rec.Species),
		PV:         p.Rec.PV,
		ShinyValue: p.ShinyValue,
		Nature:     pokerec.NatureName(p.Rec.Nature),
		Effort:     p.Rec.Effort,
		Attempts:   p.Attempts,
		Elapsed:    p.Elapsed,
		Location:   p.Location,
		Method:     p.Method,
		Snapshot:   p.Snapshot,
		CreatedAt:  time.Now().UTC(),
	}

	effort, _ := json.Marshal(f.Effort)
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO finds (id, species, name, pv, shiny_value, nature, effort,
			attempts, elapsed_ms, location, method, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Species, f.Name, f.PV, f.ShinyValue, f.Nature, string(effort),
		f.Attempts, f.Elapsed.Milliseconds(), f.Location, f.Method,
		f.Snapshot, f.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("record find: %w", err)
	}
	return f, nil
}

// List returns finds, most recent first.
func (l *Ledger) List(ctx context.Context, p ListParams) ([]Find, error) {
	q := `SELECT id, species, name, pv, shiny_value, nature, effort,
		attempts, elapsed_ms, location, method, snapshot, created_at
		FROM finds`
	var args []any
	if p.Species != "" {
		q += ` WHERE name = ? COLLATE NOCASE`
		args = append(args, p.Species)
	}
	q += ` ORDER BY created_at DESC`
	if p.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list finds: %w", err)
	}
	defer rows.Close()

	var out []Find
	for rows.Next() {
		var f Find
		var effort, created string
		var elapsedMS int64
		var snapshot sql.NullString
		if err := rows.Scan(&f.ID, &f.Species, &f.Name, &f.PV, &f.ShinyValue,
			&f.Nature, &effort, &f.Attempts, &elapsedMS, &f.Location,
			&f.Method, &snapshot, &created); err != nil {
			return nil, fmt.Errorf("scan find: %w", err)
		}
		json.Unmarshal([]byte(effort), &f.Effort)
		f.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		f.Snapshot = snapshot.String
		f.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
