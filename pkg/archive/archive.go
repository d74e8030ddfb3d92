// Package archive keeps a SQLite copy of the classified articles table.
package archive

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/newspulse/newspulse/pkg/domain"
)

//go:embed schema.sql
var schema string

// Archive wraps the database connection
type Archive struct {
	conn *sqlx.DB
}

// articleRow maps a classified article onto the articles table
type articleRow struct {
	Seq          int64  `db:"seq"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	Content      string `db:"content"`
	URL          string `db:"url"`
	PublishedAt  string `db:"published_at"`
	Source       string `db:"source"`
	CleanContent string `db:"clean_content"`
	Category     string `db:"category"`
	Sentiment    string `db:"sentiment"`
	Entities     string `db:"entities"`
}

// New opens the database and creates the schema if needed
func New(ctx context.Context, dsn string) (*Archive, error) {
	if dsn == "" {
		dsn = "file:newspulse.db?cache=shared&mode=rwc"
	}

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Archive{conn: conn}, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.conn.Close()
}

// Ping verifies the database connection
func (a *Archive) Ping(ctx context.Context) error {
	return a.conn.PingContext(ctx)
}

// Save replaces the archived table with rows in one transaction, keeping their order.
// Lock contention is retried with backoff.
func (a *Archive) Save(ctx context.Context, rows []domain.ClassifiedArticle) error {
	var saveErr error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		saveErr = a.save(ctx, rows)
		if isLockError(saveErr) {
			return saveErr // retry
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save articles: %w", err)
	}
	return saveErr
}

func (a *Archive) save(ctx context.Context, rows []domain.ClassifiedArticle) error {
	return a.inTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM articles"); err != nil {
			return fmt.Errorf("clear articles: %w", err)
		}

		query := `INSERT INTO articles (seq, title, description, content, url, published_at, source,
			clean_content, category, sentiment, entities)
			VALUES (:seq, :title, :description, :content, :url, :published_at, :source,
			:clean_content, :category, :sentiment, :entities)`
		for i, r := range rows {
			if _, err := tx.NamedExecContext(ctx, query, toRow(int64(i), r)); err != nil {
				return fmt.Errorf("insert article %d: %w", i, err)
			}
		}
		return nil
	})
}

// Load returns archived articles in insert order
func (a *Archive) Load(ctx context.Context) ([]domain.ClassifiedArticle, error) {
	var rows []articleRow
	query := `SELECT seq, title, description, content, url, published_at, source,
		clean_content, category, sentiment, entities FROM articles ORDER BY seq`
	if err := a.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	res := make([]domain.ClassifiedArticle, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.toDomain())
	}
	return res, nil
}

// Count returns the number of archived articles
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// inTransaction executes a function within a database transaction
func (a *Archive) inTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := a.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback also failed: %s)", err, rbErr.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func toRow(seq int64, a domain.ClassifiedArticle) articleRow {
	return articleRow{
		Seq:          seq,
		Title:        a.Title,
		Description:  a.Description,
		Content:      a.Content,
		URL:          a.URL,
		PublishedAt:  a.PublishedAt,
		Source:       a.Source,
		CleanContent: a.CleanContent,
		Category:     string(a.Category),
		Sentiment:    string(a.Sentiment),
		Entities:     a.Entities,
	}
}

func (r articleRow) toDomain() domain.ClassifiedArticle {
	return domain.ClassifiedArticle{
		CleanedArticle: domain.CleanedArticle{
			Article: domain.Article{
				Title:       r.Title,
				Description: r.Description,
				Content:     r.Content,
				URL:         r.URL,
				PublishedAt: r.PublishedAt,
				Source:      r.Source,
			},
			CleanContent: r.CleanContent,
		},
		Category:  domain.Category(r.Category),
		Sentiment: domain.Sentiment(r.Sentiment),
		Entities:  r.Entities,
	}
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
