package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Snapshot struct {
	ID        int64
	CreatedAt int64
	Label     string
	GameCount int64
	Contents  []byte
}

type SnapshotSummary struct {
	ID        int64
	CreatedAt int64
	Label     string
	GameCount int64
}

const createSnapshot = `insert into snapshot(created_at, label, game_count, contents)
values (?, ?, ?, ?)
returning id`

type CreateSnapshotParams struct {
	CreatedAt int64
	Label     string
	GameCount int64
	Contents  []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSnapshot,
		arg.CreatedAt,
		arg.Label,
		arg.GameCount,
		arg.Contents,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getSnapshot = `select id, created_at, label, game_count, contents from snapshot
where id = ?`

func (q *Queries) GetSnapshot(ctx context.Context, id int64) (Snapshot, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot, id)
	var i Snapshot
	err := row.Scan(
		&i.ID,
		&i.CreatedAt,
		&i.Label,
		&i.GameCount,
		&i.Contents,
	)
	return i, err
}

const getLatestSnapshot = `select id, created_at, label, game_count, contents from snapshot
order by id desc
limit 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := q.db.QueryRowContext(ctx, getLatestSnapshot)
	var i Snapshot
	err := row.Scan(
		&i.ID,
		&i.CreatedAt,
		&i.Label,
		&i.GameCount,
		&i.Contents,
	)
	return i, err
}

const listSnapshots = `select id, created_at, label, game_count from snapshot
order by id desc
limit ?`

func (q *Queries) ListSnapshots(ctx context.Context, limit int64) ([]SnapshotSummary, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshots, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SnapshotSummary
	for rows.Next() {
		var i SnapshotSummary
		if err := rows.Scan(
			&i.ID,
			&i.CreatedAt,
			&i.Label,
			&i.GameCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
