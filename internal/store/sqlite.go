package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no startup has the requested id
var ErrNotFound = errors.New("startup not found")

// Store handles database operations for the startup catalog
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const entryColumns = `id, owner_id, name, logo, pitch, ask, equity, stage, team_size, industries, ai_score, added,
	founder_name, founder_avatar, founder_verified, column_id, progress, next_action, last_activity,
	expected_close, invested_amount, investment_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*domain.CatalogEntry, error) {
	var (
		e          domain.CatalogEntry
		industries string
		progress   sql.NullInt64
		column     string
	)
	err := r.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Logo, &e.Pitch, &e.Ask, &e.Equity, &e.Stage, &e.TeamSize,
		&industries, &e.AIScore, &e.Added, &e.Founder.Name, &e.Founder.Avatar, &e.Founder.Verified, &column,
		&progress, &e.NextAction, &e.LastActivity, &e.ExpectedClose, &e.InvestedAmount, &e.InvestmentDate,
		&e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(industries), &e.Industries); err != nil {
		return nil, fmt.Errorf("decode industries: %w", err)
	}
	if progress.Valid {
		p := int(progress.Int64)
		e.Progress = &p
	}
	e.Column = domain.ColumnID(column)
	e.Status = domain.StatusActive
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]domain.CatalogEntry, error) {
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan startup: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate startups: %w", err)
	}
	return entries, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertEntry(x execer, e *domain.CatalogEntry) error {
	industries, err := json.Marshal(nonNil(e.Industries))
	if err != nil {
		return fmt.Errorf("encode industries: %w", err)
	}
	_, err = x.Exec(
		"INSERT INTO startups ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.OwnerID, e.Name, e.Logo, e.Pitch, e.Ask, e.Equity, e.Stage, e.TeamSize, string(industries),
		e.AIScore, e.Added, e.Founder.Name, e.Founder.Avatar, e.Founder.Verified, string(e.Column),
		progressValue(e.Progress), e.NextAction, e.LastActivity, e.ExpectedClose, e.InvestedAmount,
		e.InvestmentDate, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert startup: %w", err)
	}
	return nil
}

// AddStartup lists a startup in the catalog, generating an id if it has none
func (s *Store) AddStartup(ownerID string, column domain.ColumnID, st domain.Startup) (*domain.CatalogEntry, error) {
	if column == "" {
		column = domain.ColumnInterested
	}
	e := &domain.CatalogEntry{
		Startup:   st.Clone(),
		OwnerID:   ownerID,
		Column:    column,
		CreatedAt: time.Now().UTC(),
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.Status = domain.StatusActive

	if err := insertEntry(s.db, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetStartup retrieves a catalog entry by ID
func (s *Store) GetStartup(id string) (*domain.CatalogEntry, error) {
	e, err := scanEntry(s.db.QueryRow("SELECT "+entryColumns+" FROM startups WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get startup %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get startup: %w", err)
	}
	return e, nil
}

// ListStartups returns catalog entries, oldest first, with pagination
func (s *Store) ListStartups(limit, offset int) ([]domain.CatalogEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM startups ORDER BY created_at, id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list startups: %w", err)
	}
	return scanEntries(rows)
}

// ListByOwner returns the startups a founder account listed
func (s *Store) ListByOwner(ownerID string) ([]domain.CatalogEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM startups WHERE owner_id = ? ORDER BY created_at, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list owner startups: %w", err)
	}
	return scanEntries(rows)
}

// SearchStartups performs a simple text search over name, pitch and industries
func (s *Store) SearchStartups(query string) ([]domain.CatalogEntry, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM startups WHERE name LIKE ? OR pitch LIKE ? OR industries LIKE ? ORDER BY created_at, id",
		like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("search startups: %w", err)
	}
	return scanEntries(rows)
}

// UpdateStartup overwrites the editable fields of an entry
func (s *Store) UpdateStartup(e domain.CatalogEntry) error {
	industries, err := json.Marshal(nonNil(e.Industries))
	if err != nil {
		return fmt.Errorf("encode industries: %w", err)
	}
	res, err := s.db.Exec(`
		UPDATE startups SET name = ?, logo = ?, pitch = ?, ask = ?, equity = ?, stage = ?, team_size = ?,
			industries = ?, ai_score = ?, added = ?, founder_name = ?, founder_avatar = ?, founder_verified = ?,
			column_id = ?, progress = ?, next_action = ?, last_activity = ?, expected_close = ?,
			invested_amount = ?, investment_date = ?
		WHERE id = ?`,
		e.Name, e.Logo, e.Pitch, e.Ask, e.Equity, e.Stage, e.TeamSize, string(industries), e.AIScore, e.Added,
		e.Founder.Name, e.Founder.Avatar, e.Founder.Verified, string(e.Column), progressValue(e.Progress),
		e.NextAction, e.LastActivity, e.ExpectedClose, e.InvestedAmount, e.InvestmentDate, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update startup: %w", err)
	}
	return requireRow(res, e.ID)
}

// DeleteStartup removes an entry from the catalog
func (s *Store) DeleteStartup(id string) error {
	res, err := s.db.Exec("DELETE FROM startups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete startup: %w", err)
	}
	return requireRow(res, id)
}

// Count returns the number of catalog entries
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM startups").Scan(&n); err != nil {
		return 0, fmt.Errorf("count startups: %w", err)
	}
	return n, nil
}

// Import lists every startup of a seed under ownerID in one transaction
func (s *Store) Import(ownerID string, seed board.Seed) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	n := 0
	for _, col := range domain.DefaultColumns() {
		for _, st := range seed[col.ID] {
			e := &domain.CatalogEntry{Startup: st.Clone(), OwnerID: ownerID, Column: col.ID, CreatedAt: now.Add(time.Duration(n))}
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			if err := insertEntry(tx, e); err != nil {
				return 0, err
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// BoardSeed groups the catalog by column so a board can mount from it
func (s *Store) BoardSeed() (board.Seed, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM startups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("load board seed: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	seed := board.Seed{}
	for _, e := range entries {
		seed[e.Column] = append(seed[e.Column], e.Startup)
	}
	return seed, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("startup %s: %w", id, ErrNotFound)
	}
	return nil
}

func progressValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
