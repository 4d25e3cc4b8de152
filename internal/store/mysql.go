// Package store loads order datasets from MySQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"sales-dashboard/internal/models"
)

var (
	ErrIncompleteDSN = errors.New("store: dsn needs user, host and database")
	ErrInvalidTable  = errors.New("store: invalid table name")

	tablePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// MySQLSource reads orders from a table with the same columns as the CSV
// export. It satisfies services.OrderSource.
type MySQLSource struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Open connects to the database named by dsn. Both native driver DSNs and
// mysql:// or mariadb:// URLs are accepted.
func Open(ctx context.Context, dsn, table string, logger *slog.Logger) (*MySQLSource, error) {
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if logger == nil {
		logger = slog.Default()
	}

	native, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", native)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return &MySQLSource{db: db, table: table, logger: logger}, nil
}

func (s *MySQLSource) Name() string {
	return "mysql:" + s.table
}

func (s *MySQLSource) Close() error {
	return s.db.Close()
}

// LoadOrders reads every row of the table. Rows with a NULL order date keep a
// zero OrderDate and are dropped later by the metric computations.
func (s *MySQLSource) LoadOrders(ctx context.Context) ([]models.Order, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, selectOrders(s.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o    models.Order
			date sql.NullTime
		)
		if err := rows.Scan(
			&o.OrderID, &o.CustomerID, &date, &o.TotalPrice, &o.Payment,
			&o.ProductName, &o.Quantity, &o.Age, &o.Gender, &o.State, &o.City, &o.OrderYear,
		); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		if date.Valid {
			o.OrderDate = date.Time.UTC()
			if o.OrderYear == 0 {
				o.OrderYear = o.OrderDate.Year()
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("orders loaded from mysql",
		"table", s.table,
		"rows", len(orders),
		"duration", time.Since(start),
	)
	return orders, nil
}

func selectOrders(table string) string {
	return fmt.Sprintf(`
		SELECT
			order_id,
			customer_id,
			order_date,
			COALESCE(total_price, 0),
			COALESCE(payment, 0),
			COALESCE(product_name, ''),
			COALESCE(quantity, 0),
			COALESCE(age, 0),
			COALESCE(gender, ''),
			COALESCE(state, ''),
			COALESCE(city, ''),
			COALESCE(order_year, 0)
		FROM %s
		WHERE order_id IS NOT NULL AND customer_id IS NOT NULL
	`, table)
}

// toMySQLDSN converts URL style DSNs to the driver format and forces the
// options LoadOrders depends on.
func toMySQLDSN(dsn string) (string, error) {
	var cfg *mysql.Config

	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		cfg = mysql.NewConfig()
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
			return "", ErrIncompleteDSN
		}
	} else {
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		cfg = parsed
	}

	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}
