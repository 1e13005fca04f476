// Package pricebook provides read-only connectivity to the group's MS SQL
// Server pricebook. It is used to benchmark proposed sales prices against the
// list prices published by other regional entities.
package pricebook

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/ami-aftermarket/quotation-api/internal/config"
	"github.com/ami-aftermarket/quotation-api/internal/domain"
)

const (
	// Default retry configuration for connection attempts
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	// Default health check timeout
	defaultHealthCheckTimeout = 5 * time.Second
)

// regionTables maps region codes to their pricebook table name suffixes
var regionTables = map[string]string{
	"BKC":  "bkc",
	"PRPD": "prpd",
	"KIPL": "kipl",
	"KSC":  "ksc",
	"KAC":  "kac",
}

// RegionalPrice is one pricebook row for a part in a regional entity
type RegionalPrice struct {
	Region     string
	PartNumber string
	UnitPrice  float64
	Currency   string
	ValidFrom  time.Time
}

// Client provides read-only access to the MS SQL Server pricebook.
// It manages connection pooling and exposes typed benchmark queries.
type Client struct {
	db           *sql.DB
	config       *config.PricebookConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the pricebook connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new pricebook client with the given configuration.
// Returns nil if the pricebook is not enabled or not configured.
// The client establishes a connection pool with retry logic for transient failures.
func NewClient(cfg *config.PricebookConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Pricebook connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Pricebook enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing pricebook connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.ConnMaxLifetime),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	// Attempt connection with retry logic
	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting pricebook connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open pricebook connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		// Test connection with ping
		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("Pricebook ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		logger.Info("Pricebook connection established",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to pricebook after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the config.
// URL format expected: host:port/database or host:port (uses default database)
func buildConnectionString(cfg *config.PricebookConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433" // Default SQL Server port
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the pricebook connection.
// Should be called during application shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing pricebook connection")

	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close pricebook connection", zap.Error(err))
		return fmt.Errorf("failed to close pricebook connection: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the pricebook connection.
// Returns detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{
			Status: "disabled",
		}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("Pricebook health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// priceTableName returns the fully qualified pricebook table name for a
// region code.
func priceTableName(region string) (string, error) {
	suffix, ok := regionTables[strings.ToUpper(region)]
	if !ok {
		return "", fmt.Errorf("unknown region code: %s", region)
	}
	return fmt.Sprintf("dbo.pricebook_%s_listprice", suffix), nil
}

// RegionalPrices returns the current list price for a part in each region
// that publishes one. Regions without a row for the part are skipped.
func (c *Client) RegionalPrices(ctx context.Context, partNumber string) ([]RegionalPrice, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("pricebook client not initialized")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	var prices []RegionalPrice

	for _, region := range domain.PricebookRegions {
		price, err := c.regionPrice(ctx, region, partNumber)
		if err != nil {
			return nil, err
		}
		if price != nil {
			prices = append(prices, *price)
		}
	}

	c.logger.Debug("Pricebook benchmark completed",
		zap.String("part_number", partNumber),
		zap.Int("regions_with_price", len(prices)),
		zap.Duration("duration", time.Since(start)),
	)

	return prices, nil
}

// regionPrice fetches the newest valid list price for a part in one region.
// Returns nil without error when the region has no row for the part.
func (c *Client) regionPrice(ctx context.Context, region, partNumber string) (*RegionalPrice, error) {
	table, err := priceTableName(region)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT TOP 1 part_number, unit_price, currency, valid_from
		FROM %s
		WHERE part_number = @p1 AND valid_from <= SYSUTCDATETIME()
		ORDER BY valid_from DESC`, table)

	row := c.db.QueryRowContext(ctx, query, sql.Named("p1", partNumber))

	price := RegionalPrice{Region: region}
	err = row.Scan(&price.PartNumber, &price.UnitPrice, &price.Currency, &price.ValidFrom)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Pricebook query failed",
			zap.Error(err),
			zap.String("region", region),
			zap.String("part_number", partNumber),
		)
		return nil, fmt.Errorf("pricebook query for region %s failed: %w", region, err)
	}

	return &price, nil
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}
