package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/btch-engine/internal/domain"
)

var ErrResultNotFound = errors.New("archived game not found")

// Entry is an archived game as stored.
type Entry struct {
	domain.GameResult
	MovesSAN []string
	ECO      string
	Opening  string
	PGN      string
}

func newEntry(r domain.GameResult) Entry {
	a := Annotate(r.Moves)
	return Entry{GameResult: r, MovesSAN: a.SAN, ECO: a.ECO, Opening: a.Opening, PGN: buildPGN(r, a)}
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS games (
    game_id       TEXT PRIMARY KEY,
    white_id      TEXT NOT NULL,
    black_id      TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    winner_id     TEXT NOT NULL DEFAULT '',
    moves         JSONB NOT NULL,
    moves_san     JSONB NOT NULL,
    eco           TEXT NOT NULL DEFAULT '',
    opening       TEXT NOT NULL DEFAULT '',
    pgn           TEXT NOT NULL,
    final_board   TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

// Repository archives finished games in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the games table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

// SaveResult upserts a finished game.
func (r *Repository) SaveResult(ctx context.Context, res domain.GameResult) error {
	if r == nil || r.db == nil {
		return nil
	}
	e := newEntry(res)
	movesRaw, _ := json.Marshal(e.Moves)
	sanRaw, _ := json.Marshal(e.MovesSAN)

	q := `INSERT INTO games (
        game_id, white_id, black_id, result, result_method, winner_id,
        moves, moves_san, eco, opening, pgn, final_board, started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
      ) ON CONFLICT (game_id) DO UPDATE SET
        white_id=EXCLUDED.white_id,
        black_id=EXCLUDED.black_id,
        result=EXCLUDED.result,
        result_method=EXCLUDED.result_method,
        winner_id=EXCLUDED.winner_id,
        moves=EXCLUDED.moves,
        moves_san=EXCLUDED.moves_san,
        eco=EXCLUDED.eco,
        opening=EXCLUDED.opening,
        pgn=EXCLUDED.pgn,
        final_board=EXCLUDED.final_board,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		e.GameID, e.WhiteID, e.BlackID,
		strings.TrimSpace(e.Result), strings.TrimSpace(e.Method), e.Winner,
		string(movesRaw), string(sanRaw), e.ECO, e.Opening, e.PGN, e.FinalText,
		e.StartedAt, e.EndedAt, e.Duration.Milliseconds(),
	)
	return err
}

func (r *Repository) Get(ctx context.Context, gameID string) (Entry, error) {
	q := `SELECT game_id, white_id, black_id, result, result_method, winner_id,
        moves, moves_san, eco, opening, pgn, final_board, started_at, ended_at, duration_ms
      FROM games WHERE game_id = $1`
	var (
		e          Entry
		movesRaw   []byte
		sanRaw     []byte
		durationMS int64
	)
	err := r.db.QueryRowContext(ctx, q, gameID).Scan(
		&e.GameID, &e.WhiteID, &e.BlackID, &e.Result, &e.Method, &e.Winner,
		&movesRaw, &sanRaw, &e.ECO, &e.Opening, &e.PGN, &e.FinalText, &e.StartedAt, &e.EndedAt, &durationMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrResultNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal(movesRaw, &e.Moves); err != nil {
		return Entry{}, fmt.Errorf("decode moves: %w", err)
	}
	if err := json.Unmarshal(sanRaw, &e.MovesSAN); err != nil {
		return Entry{}, fmt.Errorf("decode san moves: %w", err)
	}
	e.Duration = time.Duration(durationMS) * time.Millisecond
	return e, nil
}
