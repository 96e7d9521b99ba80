package store

import (
	"context"
	"fmt"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

const mirrorBatch = 500

const insertFilm = `INSERT INTO films (id, title, directors, year) VALUES ($1, $2, $3, $4)`

const createFilms = `CREATE TABLE IF NOT EXISTS films (
	id        INTEGER PRIMARY KEY,
	title     TEXT    NOT NULL,
	directors TEXT    NOT NULL DEFAULT '',
	year      INTEGER
)`

// Mirror copies committed snapshots into a Postgres table.
type Mirror struct {
	dsn string
}

// MirrorFromConfig returns nil when no DSN is configured.
func MirrorFromConfig() *Mirror {
	dsn := viper.GetString(key.MirrorPostgresDSN)
	if dsn == "" {
		return nil
	}
	return &Mirror{dsn: dsn}
}

// Replace makes the films table hold exactly the snapshot, in one transaction.
func (m *Mirror) Replace(ctx context.Context, snap *snapshot.Snapshot) error {
	cfg, err := pgxpool.ParseConfig(m.dsn)
	if err != nil {
		return fmt.Errorf("mirror dsn: %w", err)
	}
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mirror connect: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createFilms); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM films`); err != nil {
		return err
	}

	for n, b := range mirrorBatches(snap.Films) {
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("mirror batch %d: %w", n, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Infof("mirrored %d films to postgres", snap.Len())
	return nil
}

// mirrorBatches splits films into insert batches of at most mirrorBatch rows.
// The table is emptied first, so every id is inserted once.
func mirrorBatches(films []film.Film) []*pgx.Batch {
	var batches []*pgx.Batch
	for i := 0; i < len(films); i += mirrorBatch {
		b := &pgx.Batch{}
		for _, f := range films[i:min(i+mirrorBatch, len(films))] {
			var year *int
			if y, ok := f.Year.Get(); ok {
				year = &y
			}
			b.Queue(insertFilm, f.ID, f.Title, f.Directors, year)
		}
		batches = append(batches, b)
	}
	return batches
}
