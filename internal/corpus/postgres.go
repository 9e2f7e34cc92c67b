package corpus

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/guard-bot/internal/models"
)

//go:embed schema.sql
var schema embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresCorpus keeps the training examples in a single append-only table
// and renders them back in the same line form the file corpus uses.
type PostgresCorpus struct {
	db *sql.DB
}

func NewPostgresCorpus(config DatabaseConfig) (*PostgresCorpus, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	c := &PostgresCorpus{db: db}
	if err := c.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return c, nil
}

func (c *PostgresCorpus) initializeSchema() error {
	schemaSQL, err := schema.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	if _, err := c.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}
	return nil
}

func (c *PostgresCorpus) Append(ctx context.Context, ex models.Example) error {
	if !ex.Label.Valid() {
		return fmt.Errorf("invalid label %q", ex.Label)
	}

	query := `INSERT INTO training_examples (label, text) VALUES ($1, $2)`
	if _, err := c.db.ExecContext(ctx, query, string(ex.Label), models.CollapseText(ex.Text)); err != nil {
		return fmt.Errorf("error inserting training example: %w", err)
	}
	return nil
}

func (c *PostgresCorpus) Lines(ctx context.Context) ([]string, error) {
	query := `SELECT label, text FROM training_examples ORDER BY id`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying training examples: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var label, text string
		if err := rows.Scan(&label, &text); err != nil {
			return nil, fmt.Errorf("error scanning training example: %w", err)
		}
		lines = append(lines, label+" "+text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training examples: %w", err)
	}
	return lines, nil
}

func (c *PostgresCorpus) Close() error {
	return c.db.Close()
}
