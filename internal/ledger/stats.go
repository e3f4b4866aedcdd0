package ledger

import (
	"context"
	"os"
)

// Stats holds ledger statistics.
type Stats struct {
	DBPath      string         `json:"db_path"`
	DBSizeBytes int64          `json:"db_size_bytes"`
	TotalFinds  int            `json:"total_finds"`
	Species     []SpeciesStats `json:"species"`
}

// SpeciesStats holds per-species aggregates.
type SpeciesStats struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	AvgAttempts int    `json:"avg_attempts"`
	MinAttempts int    `json:"min_attempts"`
	MaxAttempts int    `json:"max_attempts"`
}

// Stats returns ledger statistics.
func (l *Ledger) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM finds`).Scan(&st.TotalFinds)

	rows, err := l.db.QueryContext(ctx, `
		SELECT name, COUNT(*) as cnt,
			CAST(AVG(attempts) AS INTEGER), MIN(attempts), MAX(attempts)
		FROM finds
		GROUP BY name ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sp SpeciesStats
		rows.Scan(&sp.Name, &sp.Count, &sp.AvgAttempts, &sp.MinAttempts, &sp.MaxAttempts)
		st.Species = append(st.Species, sp)
	}

	return st, rows.Err()
}
