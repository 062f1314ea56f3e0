package history

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/catalog/history/db"

	"github.com/andybalholm/brotli"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/catalog/history")

var ErrNoSnapshots = errors.New("no snapshots recorded")

type Summary struct {
	ID    int64
	Time  time.Time
	Label string
	Count int
}

type Snapshot struct {
	Summary
	Games []catalog.Game
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func wrapOpen(err error) error {
	return fmt.Errorf("open history: %w", err)
}

// Open opens (creating if needed) the sqlite database at path and applies
// the schema. ":memory:" is accepted.
func Open(path string) (Store, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return Store{}, wrapOpen(err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, wrapOpen(err)
	}
	// sqlite only supports one writer at a time
	database.SetMaxOpenConns(1)
	_, err = database.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		database.Close()
		return Store{}, wrapOpen(err)
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return Store{}, wrapOpen(err)
	}

	return NewStore(database), nil
}

// NewStore wraps a database that already has the schema applied.
func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func (s Store) Close() error {
	return s.db.Close()
}

func compress(contents []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	_, err := w.Write(contents)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(contents []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(contents)))
}

// Snapshot records the current state of a catalog under label and returns
// the new snapshot id.
func (s Store) Snapshot(ctx context.Context, label string, games []catalog.Game) (int64, error) {
	ctx, span := tracer.Start(ctx, "Snapshot")
	defer span.End()

	encoded, err := catalog.Encode(games)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	compressed, err := compress(encoded)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	id, err := s.qry.CreateSnapshot(ctx, db.CreateSnapshotParams{
		CreatedAt: time.Now().UnixMilli(),
		Label:     label,
		GameCount: int64(len(games)),
		Contents:  compressed,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Int("games", len(games)),
	)
	return id, nil
}

func fromRow(row db.Snapshot) (Snapshot, error) {
	contents, err := decompress(row.Contents)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decompress snapshot %d: %w", row.ID, err)
	}
	games, err := catalog.Decode(contents)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", row.ID, err)
	}
	return Snapshot{
		Summary: Summary{
			ID:    row.ID,
			Time:  time.UnixMilli(row.CreatedAt),
			Label: row.Label,
			Count: int(row.GameCount),
		},
		Games: games,
	}, nil
}

func (s Store) Get(ctx context.Context, id int64) (Snapshot, error) {
	row, err := s.qry.GetSnapshot(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", id, ErrNoSnapshots)
	}
	if err != nil {
		return Snapshot{}, err
	}
	return fromRow(row)
}

func (s Store) Latest(ctx context.Context) (Snapshot, error) {
	row, err := s.qry.GetLatestSnapshot(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshots
	}
	if err != nil {
		return Snapshot{}, err
	}
	return fromRow(row)
}

// List returns up to limit snapshot summaries, newest first. A limit <= 0
// lists everything.
func (s Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.qry.ListSnapshots(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(rows))
	for i, r := range rows {
		out[i] = Summary{
			ID:    r.ID,
			Time:  time.UnixMilli(r.CreatedAt),
			Label: r.Label,
			Count: int(r.GameCount),
		}
	}
	return out, nil
}

// SinceLatest compares games against the most recent snapshot and returns
// that snapshot's summary. With no snapshot recorded every game counts as
// added and the summary is zero.
func (s Store) SinceLatest(ctx context.Context, games []catalog.Game) (catalog.Diff, Summary, error) {
	latest, err := s.Latest(ctx)
	if errors.Is(err, ErrNoSnapshots) {
		return catalog.Compare(nil, games), Summary{}, nil
	}
	if err != nil {
		return catalog.Diff{}, Summary{}, err
	}
	return catalog.Compare(latest.Games, games), latest.Summary, nil
}
