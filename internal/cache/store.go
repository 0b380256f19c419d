package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/fjalar/setningar/internal/sentence"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists Job/Sentence results (SPEC_FULL §4.10), mirroring
// server/dao/sqlite's single-file-per-table-group layout. It is used only
// by internal/apiserver and cmd/greinaserver: the core parsing pipeline
// never imports this package (spec.md §5, parsing stays pure CPU work).
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the SQLite file at path and
// ensures its schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT NOT NULL PRIMARY KEY,
		started_at INTEGER NOT NULL,
		sentence_count INTEGER NOT NULL,
		parsed_count INTEGER NOT NULL,
		avg_ambiguity REAL NOT NULL,
		parse_time_ms INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS sentences (
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		text TEXT NOT NULL,
		score REAL NOT NULL,
		flat_tree BLOB,
		err_index INTEGER,
		PRIMARY KEY (job_id, idx)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveJob persists job and every one of its sentences in a single
// transaction, replacing any prior rows for the same job id.
func (s *Store) SaveJob(ctx context.Context, job *sentence.Job) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError(err)
	}
	defer tx.Rollback()

	startedAt := time.Now()
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO jobs
		(id, started_at, sentence_count, parsed_count, avg_ambiguity, parse_time_ms)
		VALUES (?, ?, ?, ?, ?, ?);`,
		job.ID.String(),
		startedAt.Unix(),
		job.Stats.SentenceCount,
		job.Stats.ParsedCount,
		job.Stats.AvgAmbiguity,
		job.Stats.ParseTime.Milliseconds(),
	)
	if err != nil {
		return wrapDBError(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE job_id = ?;`, job.ID.String()); err != nil {
		return wrapDBError(err)
	}

	for i, sent := range job.Sentences {
		var flatTree []byte
		if sent.Tree != nil {
			flatTree = rezi.EncBinary(flatTreeBlob{Flat: sent.Tree.Flat()})
		}
		var errIndex sql.NullInt64
		if sent.Err != nil {
			errIndex = sql.NullInt64{Int64: int64(sent.Err.Index), Valid: true}
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO sentences
			(job_id, idx, text, score, flat_tree, err_index)
			VALUES (?, ?, ?, ?, ?, ?);`,
			job.ID.String(), i, sent.Text, sent.Score,
			flatTree, errIndex,
		)
		if err != nil {
			return wrapDBError(err)
		}
	}

	return tx.Commit()
}

// StoredSentence is one row of the sentences table, decoded back out of
// its rezi-encoded blob form.
type StoredSentence struct {
	Index    int
	Text     string
	Score    float64
	FlatTree string
	ErrIndex *int
}

// StoredJob is a previously saved job's aggregate row plus its sentences,
// in index order.
type StoredJob struct {
	ID            uuid.UUID
	StartedAt     time.Time
	SentenceCount int
	ParsedCount   int
	AvgAmbiguity  float64
	ParseTime     time.Duration
	Sentences     []StoredSentence
}

// GetJob fetches a previously stored job by id, or ErrNotFound.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (StoredJob, error) {
	var out StoredJob
	var startedAt int64
	var parseTimeMS int64

	row := s.db.QueryRowContext(ctx, `SELECT started_at, sentence_count, parsed_count, avg_ambiguity, parse_time_ms
		FROM jobs WHERE id = ?;`, id.String())
	if err := row.Scan(&startedAt, &out.SentenceCount, &out.ParsedCount, &out.AvgAmbiguity, &parseTimeMS); err != nil {
		return out, wrapDBError(err)
	}
	out.ID = id
	out.StartedAt = time.Unix(startedAt, 0)
	out.ParseTime = time.Duration(parseTimeMS) * time.Millisecond

	rows, err := s.db.QueryContext(ctx, `SELECT idx, text, score, flat_tree, err_index
		FROM sentences WHERE job_id = ? ORDER BY idx;`, id.String())
	if err != nil {
		return out, wrapDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var sent StoredSentence
		var raw []byte
		var errIndex sql.NullInt64
		if err := rows.Scan(&sent.Index, &sent.Text, &sent.Score, &raw, &errIndex); err != nil {
			return out, wrapDBError(err)
		}
		if len(raw) > 0 {
			var blob flatTreeBlob
			if _, err := rezi.DecBinary(raw, &blob); err != nil {
				return out, fmt.Errorf("cache: decoding flat_tree snapshot for job %s sentence %d: %w", id, sent.Index, err)
			}
			sent.FlatTree = blob.Flat
		}
		if errIndex.Valid {
			idx := int(errIndex.Int64)
			sent.ErrIndex = &idx
		}
		out.Sentences = append(out.Sentences, sent)
	}
	if err := rows.Err(); err != nil {
		return out, wrapDBError(err)
	}

	return out, nil
}

// flatTreeBlob is the rezi-encodable wrapper around a sentence's flat tree
// string. Like Snapshot it implements MarshalBinary/UnmarshalBinary,
// because rezi.EncBinary/DecBinary need an
// encoding.BinaryMarshaler/Unmarshaler to round-trip through; unlike
// Snapshot it uses no gob and stores the string's raw bytes.
type flatTreeBlob struct {
	Flat string
}

func (b flatTreeBlob) MarshalBinary() ([]byte, error) {
	return []byte(b.Flat), nil
}

func (b *flatTreeBlob) UnmarshalBinary(data []byte) error {
	b.Flat = string(data)
	return nil
}
