package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/model"
	"github.com/xxxsen/meetagent/internal/pkg/errors"
	"github.com/xxxsen/meetagent/internal/vectorstore"
)

type pgConfig struct {
	DSN string `json:"dsn"`
}

// Store keeps one table per collection plus a metadata table recording the
// configured dimension and metric.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const metaTable = `
	CREATE TABLE IF NOT EXISTS vector_collections (
		name TEXT PRIMARY KEY,
		dim INT NOT NULL,
		metric TEXT NOT NULL
	)
`

func (s *Store) EnsureCollection(ctx context.Context, name string, dim int, metric string) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("ensure vector extension: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, metaTable); err != nil {
		return fmt.Errorf("ensure meta table: %w", err)
	}
	var existing int
	err := s.db.GetContext(ctx, &existing, `SELECT dim FROM vector_collections WHERE name = $1`, name)
	if err == nil {
		logutil.GetLogger(ctx).Info("collection exists", zap.String("collection", name), zap.Int("dim", existing))
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	createTable := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, embedding vector(%d), payload JSONB)`,
		pq.QuoteIdentifier(name), dim,
	)
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create collection table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO vector_collections (name, dim, metric) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
		name, dim, metric,
	); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("collection created", zap.String("collection", name), zap.Int("dim", dim))
	return nil
}

func (s *Store) CollectionDim(ctx context.Context, name string) (int, error) {
	var dim int
	err := s.db.GetContext(ctx, &dim, `SELECT dim FROM vector_collections WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return 0, errors.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return dim, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, points []model.Point) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, embedding, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, payload = EXCLUDED.payload`,
		pq.QuoteIdentifier(collection),
	)
	for _, p := range points {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, p.ID, pgv.NewVector(p.Vector), payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, collection string, vector []float32, topK int) ([]model.RetrievalHit, error) {
	if topK <= 0 {
		topK = 5
	}
	query := fmt.Sprintf(
		`SELECT id, 1 - (embedding <=> $1) AS score, payload FROM %s ORDER BY embedding <=> $1 LIMIT $2`,
		pq.QuoteIdentifier(collection),
	)
	rows, err := s.db.QueryContext(ctx, query, pgv.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var hits []model.RetrievalHit
	for rows.Next() {
		var (
			hit  model.RetrievalHit
			blob []byte
		)
		if err := rows.Scan(&hit.ID, &hit.Score, &blob); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			if err := json.Unmarshal(blob, &hit.Payload); err != nil {
				return nil, err
			}
		}
		if hit.Payload == nil {
			hit.Payload = map[string]interface{}{}
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func createStore(args interface{}) (vectorstore.Store, error) {
	cfg := pgConfig{}
	if err := vectorstore.DecodeConfig(args, &cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector dsn is required")
	}
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func init() {
	vectorstore.Register("pgvector", createStore)
}
