package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityFactory/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_address  TEXT PRIMARY KEY,
	token0        TEXT NOT NULL,
	token1        TEXT NOT NULL,
	fee           INTEGER NOT NULL,
	tick_spacing  INTEGER NOT NULL,
	salt          TEXT NOT NULL,
	pool_index    BIGINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (token0, token1, fee)
);
CREATE TABLE IF NOT EXISTS pool_events (
	seq         BIGINT PRIMARY KEY,
	contract    TEXT NOT NULL,
	event_name  TEXT NOT NULL,
	emitted_at  TEXT NOT NULL,
	data        JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS pool_states (
	pool_address    TEXT PRIMARY KEY,
	token0          TEXT NOT NULL,
	token1          TEXT NOT NULL,
	reserve0        NUMERIC NOT NULL,
	reserve1        NUMERIC NOT NULL,
	total_supply    NUMERIC NOT NULL,
	fee_protocol0   SMALLINT NOT NULL,
	fee_protocol1   SMALLINT NOT NULL,
	protocol_fees0  NUMERIC NOT NULL,
	protocol_fees1  NUMERIC NOT NULL,
	owner           TEXT NOT NULL,
	state_digest    TEXT NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS pool_stats (
	pool_address         TEXT PRIMARY KEY,
	swap_count           BIGINT NOT NULL,
	mint_count           BIGINT NOT NULL,
	burn_count           BIGINT NOT NULL,
	volume0              NUMERIC NOT NULL,
	volume1              NUMERIC NOT NULL,
	fee0                 NUMERIC NOT NULL,
	fee1                 NUMERIC NOT NULL,
	protocol_collected0  NUMERIC NOT NULL,
	protocol_collected1  NUMERIC NOT NULL,
	reserve0             NUMERIC NOT NULL,
	reserve1             NUMERIC NOT NULL,
	first_seq            BIGINT NOT NULL,
	last_seq             BIGINT NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for pools, events and stats.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertPools inserts or updates pool records.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool_address, token0, token1, fee, tick_spacing, salt, pool_index, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (pool_address)
			DO UPDATE SET
				token0 = EXCLUDED.token0,
				token1 = EXCLUDED.token1,
				fee = EXCLUDED.fee,
				tick_spacing = EXCLUDED.tick_spacing,
				salt = EXCLUDED.salt,
				pool_index = EXCLUDED.pool_index,
				updated_at = now()
		`,
			pool.Address,
			pool.Token0,
			pool.Token1,
			int64(pool.Fee),
			pool.TickSpacing,
			pool.Salt,
			int64(pool.Index),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolStates stores the latest ledger snapshot of each pool.
func (s *Store) UpsertPoolStates(ctx context.Context, states []model.PoolState) error {
	if len(states) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, st := range states {
		batch.Queue(`
			INSERT INTO pool_states (
				pool_address, token0, token1, reserve0, reserve1, total_supply,
				fee_protocol0, fee_protocol1, protocol_fees0, protocol_fees1, owner, state_digest, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
			ON CONFLICT (pool_address)
			DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				fee_protocol0 = EXCLUDED.fee_protocol0,
				fee_protocol1 = EXCLUDED.fee_protocol1,
				protocol_fees0 = EXCLUDED.protocol_fees0,
				protocol_fees1 = EXCLUDED.protocol_fees1,
				owner = EXCLUDED.owner,
				state_digest = EXCLUDED.state_digest,
				updated_at = now()
		`,
			st.Address,
			st.Token0,
			st.Token1,
			st.Reserve0,
			st.Reserve1,
			st.TotalSupply,
			int16(st.FeeProtocol0),
			int16(st.FeeProtocol1),
			st.ProtocolFees0,
			st.ProtocolFees1,
			st.Owner,
			st.StateDigest,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range states {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvents stores event records, ignoring sequence numbers already present.
func (s *Store) InsertEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return fmt.Errorf("marshal event data: %w", err)
		}
		batch.Queue(`
			INSERT INTO pool_events (seq, contract, event_name, emitted_at, data)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (seq) DO NOTHING
		`,
			int64(ev.Seq),
			ev.Contract,
			ev.EventName,
			ev.EmittedAt,
			data,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPoolStats inserts or updates aggregated pool stats.
func (s *Store) UpsertPoolStats(ctx context.Context, stats []model.PoolStats) error {
	if len(stats) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, st := range stats {
		batch.Queue(`
			INSERT INTO pool_stats (
				pool_address, swap_count, mint_count, burn_count, volume0, volume1, fee0, fee1,
				protocol_collected0, protocol_collected1, reserve0, reserve1, first_seq, last_seq, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now())
			ON CONFLICT (pool_address)
			DO UPDATE SET
				swap_count = EXCLUDED.swap_count,
				mint_count = EXCLUDED.mint_count,
				burn_count = EXCLUDED.burn_count,
				volume0 = EXCLUDED.volume0,
				volume1 = EXCLUDED.volume1,
				fee0 = EXCLUDED.fee0,
				fee1 = EXCLUDED.fee1,
				protocol_collected0 = EXCLUDED.protocol_collected0,
				protocol_collected1 = EXCLUDED.protocol_collected1,
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				first_seq = LEAST(pool_stats.first_seq, EXCLUDED.first_seq),
				last_seq = EXCLUDED.last_seq,
				updated_at = now()
		`,
			st.PoolAddress,
			int64(st.SwapCount),
			int64(st.MintCount),
			int64(st.BurnCount),
			st.Volume0,
			st.Volume1,
			st.Fee0,
			st.Fee1,
			st.ProtocolCollected0,
			st.ProtocolCollected1,
			st.Reserve0,
			st.Reserve1,
			int64(st.FirstSeq),
			int64(st.LastSeq),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range stats {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
