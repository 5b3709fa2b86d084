// Package sqlite stores strings in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"stringanalyzer/application/ports"
	"stringanalyzer/domain/core/entities"
	"stringanalyzer/domain/core/filters"
	"stringanalyzer/domain/core/valueobjects"
	pkgerrors "stringanalyzer/pkg/errors"
	"stringanalyzer/pkg/utils"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Schema creates the strings table
const Schema = `
CREATE TABLE IF NOT EXISTS strings (
	id                      TEXT PRIMARY KEY,
	value                   TEXT NOT NULL,
	length                  INTEGER NOT NULL,
	is_palindrome           INTEGER NOT NULL,
	unique_characters       INTEGER NOT NULL,
	word_count              INTEGER NOT NULL,
	character_frequency_map TEXT NOT NULL,
	created_at              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_strings_created_at ON strings (created_at, id);
`

// Query constants
const (
	insertQuery = `
		INSERT INTO strings (id, value, length, is_palindrome, unique_characters, word_count, character_frequency_map, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectColumns = `SELECT id, value, length, is_palindrome, unique_characters, word_count, character_frequency_map, created_at FROM strings`

	getByIDQuery = selectColumns + ` WHERE id = ?`

	existsQuery = `SELECT EXISTS(SELECT 1 FROM strings WHERE id = ?)`

	deleteQuery = `DELETE FROM strings WHERE id = ?`
)

// Open opens the database at path and applies the schema
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// StringRepository implements ports.StringRepository on database/sql
type StringRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ ports.StringRepository = (*StringRepository)(nil)

// NewStringRepository creates a repository over an open database
func NewStringRepository(db *sql.DB, logger *zap.Logger) *StringRepository {
	return &StringRepository{db: db, logger: logger}
}

func (r *StringRepository) Insert(ctx context.Context, record *entities.StringRecord) error {
	p := record.Properties()
	freq, err := json.Marshal(p.CharacterFrequencyMap)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal character frequency map").WithCause(err)
	}

	_, err = r.db.ExecContext(ctx, insertQuery,
		record.ID().String(),
		record.Value(),
		p.Length,
		p.IsPalindrome,
		p.UniqueCharacters,
		p.WordCount,
		string(freq),
		utils.FormatRFC3339(record.CreatedAt()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.NewDuplicateError("String already exists in the system")
		}
		r.logger.Error("Failed to insert string", zap.String("id", record.ID().String()), zap.Error(err))
		return pkgerrors.NewDatabaseError("insert", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func (r *StringRepository) GetByID(ctx context.Context, id valueobjects.ContentHash) (*entities.StringRecord, error) {
	record, err := scanRecord(r.db.QueryRowContext(ctx, getByIDQuery, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("string")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get", err)
	}
	return record, nil
}

func (r *StringRepository) Exists(ctx context.Context, id valueobjects.ContentHash) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsQuery, id.String()).Scan(&exists); err != nil {
		return false, pkgerrors.NewDatabaseError("exists", err)
	}
	return exists, nil
}

// Find pushes every predicate into SQL except a non-ASCII character needle,
// which SQLite's lower() cannot fold, and which is applied after the query.
func (r *StringRepository) Find(ctx context.Context, filter filters.Filter) ([]*entities.StringRecord, error) {
	query, args, inProcess := buildFindQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("find", err)
	}
	defer rows.Close()

	records := make([]*entities.StringRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("find", err)
		}
		if inProcess && !filter.MatchesValue(record.Value()) {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("find", err)
	}

	return records, nil
}

func buildFindQuery(filter filters.Filter) (string, []interface{}, bool) {
	var where []string
	var args []interface{}
	inProcess := false

	if filter.IsPalindrome != nil {
		where = append(where, "is_palindrome = ?")
		args = append(args, *filter.IsPalindrome)
	}
	if filter.WordCount != nil {
		where = append(where, "word_count = ?")
		args = append(args, *filter.WordCount)
	}
	if filter.MinLength != nil {
		where = append(where, "length >= ?")
		args = append(args, *filter.MinLength)
	}
	if filter.MaxLength != nil {
		where = append(where, "length <= ?")
		args = append(args, *filter.MaxLength)
	}

	if needles := filter.Needles(); needles != nil {
		if allASCII(needles) {
			clauses := make([]string, 0, len(needles))
			for _, n := range needles {
				clauses = append(clauses, "instr(lower(value), ?) > 0")
				args = append(args, n)
			}
			where = append(where, "("+strings.Join(clauses, " OR ")+")")
		} else {
			inProcess = true
		}
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	return query, args, inProcess
}

func allASCII(needles []string) bool {
	for _, n := range needles {
		for i := 0; i < len(n); i++ {
			if n[i] >= utf8.RuneSelf {
				return false
			}
		}
	}
	return true
}

func (r *StringRepository) Delete(ctx context.Context, id valueobjects.ContentHash) error {
	res, err := r.db.ExecContext(ctx, deleteQuery, id.String())
	if err != nil {
		return pkgerrors.NewDatabaseError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewDatabaseError("delete", err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError("string")
	}
	return nil
}

func (r *StringRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return pkgerrors.NewUnavailableError("sqlite").WithCause(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*entities.StringRecord, error) {
	var (
		rawID, value, freqJSON, createdAt string
		props                             valueobjects.Properties
	)
	if err := row.Scan(
		&rawID,
		&value,
		&props.Length,
		&props.IsPalindrome,
		&props.UniqueCharacters,
		&props.WordCount,
		&freqJSON,
		&createdAt,
	); err != nil {
		return nil, err
	}

	id, err := valueobjects.NewContentHashFromString(rawID)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(freqJSON), &props.CharacterFrequencyMap); err != nil {
		return nil, fmt.Errorf("invalid character_frequency_map for %s: %w", rawID, err)
	}
	at, err := utils.ParseRFC3339(createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for %s: %w", rawID, err)
	}
	props.SHA256Hash = id.String()

	return entities.ReconstructStringRecord(id, value, props, at)
}
