package game

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/btch-engine/internal/snapshot"
)

const defaultTTL = 24 * time.Hour

// RedisStore keeps the record as JSON under btch:game:<id> and the history as a list
// of JSON snapshots under btch:game:<id>:snaps.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore uses ttl for both keys. Zero keeps games forever; negative selects
// the default.
func NewRedisStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if ttl < 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{rdb: rdb, ttl: ttl, logger: logger}
}

func gameKey(id string) string  { return "btch:game:" + strings.TrimSpace(id) }
func snapsKey(id string) string { return gameKey(id) + ":snaps" }

func (s *RedisStore) SaveGame(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return ErrInvalidArgs
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, gameKey(rec.ID), raw, s.ttl).Err(); err != nil {
		return err
	}
	// Keep the snapshot list alive as long as the record.
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, snapsKey(rec.ID), s.ttl).Err(); err != nil {
			s.logger.Warn("snapshot_ttl_refresh_error", zap.String("game_id", rec.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *RedisStore) LoadGame(ctx context.Context, id string) (Record, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Commit appends snap and rewrites rec in one MULTI. The snapshot list is watched so
// that two writers racing for the same ply cannot both succeed.
func (s *RedisStore) Commit(ctx context.Context, rec Record, snap *snapshot.Snapshot) error {
	if strings.TrimSpace(rec.ID) == "" {
		return ErrInvalidArgs
	}
	if snap == nil {
		return s.SaveGame(ctx, rec)
	}
	if snap.GameID != rec.ID {
		return fmt.Errorf("%w: snapshot for %s committed with record %s", ErrInvalidArgs, snap.GameID, rec.ID)
	}
	return s.commitTx(ctx, rec, *snap)
}

func (s *RedisStore) commitTx(ctx context.Context, rec Record, snap snapshot.Snapshot) error {
	key := snapsKey(snap.GameID)
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	recRaw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.LLen(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if int64(snap.Ply) != n {
			return fmt.Errorf("%w: game %s has %d snapshots, got ply %d", ErrPlyConflict, snap.GameID, n, snap.Ply)
		}
		pipe := tx.TxPipeline()
		pipe.RPush(ctx, key, raw)
		pipe.Set(ctx, gameKey(rec.ID), recRaw, s.ttl)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		_, err = pipe.Exec(ctx)
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		s.logger.Warn("snapshot_append_conflict", zap.String("game_id", snap.GameID), zap.Int("ply", snap.Ply))
		return fmt.Errorf("%w: game %s ply %d", ErrPlyConflict, snap.GameID, snap.Ply)
	}
	return err
}

func (s *RedisStore) Snapshots(ctx context.Context, gameID string, from, to int) ([]snapshot.Snapshot, error) {
	if from < 0 {
		from = 0
	}
	stop := int64(to)
	if to < 0 {
		stop = -1
	}
	items, err := s.rdb.LRange(ctx, snapsKey(gameID), int64(from), stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]snapshot.Snapshot, 0, len(items))
	for _, item := range items {
		var snap snapshot.Snapshot
		if err := json.Unmarshal([]byte(item), &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", snapshot.ErrMalformedSnapshot, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *RedisStore) Latest(ctx context.Context, gameID string) (snapshot.Snapshot, error) {
	item, err := s.rdb.LIndex(ctx, snapsKey(gameID), -1).Result()
	if errors.Is(err, redis.Nil) {
		return snapshot.Snapshot{}, fmt.Errorf("%w: game %s", ErrNoSnapshot, gameID)
	}
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(item), &snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %v", snapshot.ErrMalformedSnapshot, err)
	}
	return snap, nil
}

// ParseRedisURL accepts redis:// and rediss:// URLs with an optional /<db> path.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("redis db %q: %w", p, err)
		}
		db = n
	}
	pass, _ := u.User.Password()
	opts := &redis.Options{Addr: u.Host, Password: pass, DB: db}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname(), MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}
