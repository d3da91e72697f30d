package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds the connection parameters for the warehouse.
type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Database  string
	Warehouse string
	Schema    string
	Role      string
}

// Snowflake implements Warehouse on top of the gosnowflake database/sql
// driver.
type Snowflake struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSnowflake opens a connection pool to Snowflake. The connection is lazy;
// use Ping to verify reachability.
func NewSnowflake(cfg SnowflakeConfig, logger *slog.Logger) (*Snowflake, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Warehouse: cfg.Warehouse,
		Schema:    cfg.Schema,
		Role:      cfg.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("build snowflake dsn: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}
	db.SetConnMaxIdleTime(30 * time.Minute)

	return &Snowflake{db: db, logger: logger}, nil
}

// Query runs the given SQL and returns all rows as column-keyed records.
// The row count is unbounded; truncation is the caller's concern.
func (s *Snowflake) Query(ctx context.Context, query string) ([]map[string]any, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute warehouse query: %w", err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "warehouse query executed",
		slog.Int("rows", len(records)),
		slog.Duration("duration", time.Since(start)),
	)

	return records, nil
}

// Ping verifies the warehouse is reachable.
func (s *Snowflake) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Snowflake) Close() error {
	return s.db.Close()
}

// scanRows converts a sql.Rows result set into column-keyed records. Byte
// slices are converted to strings so records marshal to readable JSON.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	records := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
