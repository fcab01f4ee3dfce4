package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/item"
	"github.com/pixil98/go-mud-items/internal/player"
)

// SQLiteStore is the database-backed persistence collaborator. Item
// sequences are stored as JSON columns; the item_instances table keeps
// the referential bookkeeping EnsureItemInstance relies on.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS containers (
			container_id   TEXT PRIMARY KEY,
			source_type    TEXT NOT NULL,
			capacity_slots INTEGER NOT NULL,
			lock_state     TEXT NOT NULL,
			items          TEXT NOT NULL,
			metadata       TEXT,
			decay_at       INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			player_id TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			inventory TEXT,
			equipped  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS item_instances (
			instance_id TEXT PRIMARY KEY,
			item_id     TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetContainer(ctx context.Context, id string) (*container.Container, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT container_id, source_type, capacity_slots, lock_state, items, metadata, decay_at
		 FROM containers WHERE container_id = ?`, id)

	var (
		c        container.Container
		itemsRaw string
		metaRaw  sql.NullString
		decayAt  sql.NullInt64
	)
	err := row.Scan(&c.ContainerId, (*string)(&c.SourceType), &c.CapacitySlots,
		(*string)(&c.LockState), &itemsRaw, &metaRaw, &decayAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading container %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(itemsRaw), &c.Items); err != nil {
		return nil, fmt.Errorf("decoding container %s items: %w", id, err)
	}
	if metaRaw.Valid && metaRaw.String != "" {
		if err := json.Unmarshal([]byte(metaRaw.String), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decoding container %s metadata: %w", id, err)
		}
	}
	if decayAt.Valid {
		t := time.Unix(decayAt.Int64, 0).UTC()
		c.DecayAt = &t
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating container %s: %w", id, err)
	}
	return &c, nil
}

func (s *SQLiteStore) CreateContainer(ctx context.Context, c *container.Container) error {
	items, meta, decay, err := encodeContainer(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO containers (container_id, source_type, capacity_slots, lock_state, items, metadata, decay_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ContainerId, string(c.SourceType), c.CapacitySlots, string(c.LockState), items, meta, decay)
	if err != nil {
		return fmt.Errorf("creating container %s: %w", c.ContainerId, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateContainer(ctx context.Context, id string, items []*item.Stack) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE containers SET items = ? WHERE container_id = ?`, string(raw), id)
	if err != nil {
		return fmt.Errorf("updating container %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("container %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteContainer(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM containers WHERE container_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting container %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ListContainers(ctx context.Context) ([]*container.Container, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT container_id FROM containers`)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*container.Container, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetContainer(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *SQLiteStore) EnsureItemInstance(ctx context.Context, st *item.Stack) error {
	if st == nil {
		return fmt.Errorf("stack is required")
	}
	if st.InstanceId == "" {
		st.InstanceId = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO item_instances (instance_id, item_id) VALUES (?, ?)
		 ON CONFLICT(instance_id) DO UPDATE SET item_id = excluded.item_id`,
		st.InstanceId, st.ItemId)
	if err != nil {
		return fmt.Errorf("ensuring instance %s: %w", st.InstanceId, err)
	}
	return nil
}

func (s *SQLiteStore) SavePlayer(ctx context.Context, p *player.Player) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating player: %w", err)
	}

	inv, err := json.Marshal(p.Inventory)
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}
	eq, err := json.Marshal(p.Equipped)
	if err != nil {
		return fmt.Errorf("encoding equipment: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (player_id, name, inventory, equipped) VALUES (?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET name = excluded.name,
			inventory = excluded.inventory, equipped = excluded.equipped`,
		p.Id, p.Name, string(inv), string(eq))
	if err != nil {
		return fmt.Errorf("saving player %s: %w", p.Id, err)
	}
	return nil
}

// GetPlayer reads a player record back, validating its shape.
func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (*player.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT player_id, name, inventory, equipped FROM players WHERE player_id = ?`, id)

	var (
		p      player.Player
		invRaw sql.NullString
		eqRaw  sql.NullString
	)
	err := row.Scan(&p.Id, &p.Name, &invRaw, &eqRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading player %s: %w", id, err)
	}

	if invRaw.Valid && invRaw.String != "" {
		if err := json.Unmarshal([]byte(invRaw.String), &p.Inventory); err != nil {
			return nil, fmt.Errorf("decoding player %s inventory: %w", id, err)
		}
	}
	if eqRaw.Valid && eqRaw.String != "" {
		if err := json.Unmarshal([]byte(eqRaw.String), &p.Equipped); err != nil {
			return nil, fmt.Errorf("decoding player %s equipment: %w", id, err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating player %s: %w", id, err)
	}
	return &p, nil
}

func encodeContainer(c *container.Container) (items, meta string, decay any, err error) {
	rawItems, err := json.Marshal(c.Items)
	if err != nil {
		return "", "", nil, fmt.Errorf("encoding items: %w", err)
	}
	items = string(rawItems)

	if c.Metadata != nil {
		rawMeta, err := json.Marshal(c.Metadata)
		if err != nil {
			return "", "", nil, fmt.Errorf("encoding metadata: %w", err)
		}
		meta = string(rawMeta)
	}

	if c.DecayAt != nil {
		decay = c.DecayAt.Unix()
	}
	return items, meta, decay, nil
}
