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
	"github.com/pbaille/ideas/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when an idea does not exist
var ErrNotFound = errors.New("idea not found")

// Store handles database operations
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

// AddIdea creates a new idea with zero likes and returns it
func (s *Store) AddIdea(title, description string, tags []string) (*domain.Idea, error) {
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.Exec(
		"INSERT INTO ideas (id, title, description, tags_json, likes, created_at) VALUES (?, ?, ?, ?, 0, ?)",
		id, title, description, string(tagsJSON), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert idea: %w", err)
	}

	return &domain.Idea{
		ID:          domain.IdeaID(id),
		Title:       title,
		Description: description,
		Tags:        tags,
		CreatedAt:   now.Format(time.RFC3339),
	}, nil
}

// GetIdea retrieves an idea by ID
func (s *Store) GetIdea(id string) (*domain.Idea, error) {
	row := s.db.QueryRow(
		"SELECT id, title, description, tags_json, likes, created_at FROM ideas WHERE id = ?",
		id,
	)
	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get idea: %w", err)
	}
	return idea, nil
}

// ListIdeas returns every idea, newest first
func (s *Store) ListIdeas() ([]domain.Idea, error) {
	rows, err := s.db.Query(
		"SELECT id, title, description, tags_json, likes, created_at FROM ideas ORDER BY rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []domain.Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	return ideas, nil
}

// LikeIdea increments the like counter and returns the updated idea
func (s *Store) LikeIdea(id string) (*domain.Idea, error) {
	res, err := s.db.Exec("UPDATE ideas SET likes = likes + 1 WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("like idea: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("like idea: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetIdea(id)
}

// DeleteIdea removes an idea
func (s *Store) DeleteIdea(id string) error {
	res, err := s.db.Exec("DELETE FROM ideas WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(sc scanner) (*domain.Idea, error) {
	var (
		idea      domain.Idea
		id        string
		tagsJSON  string
		createdAt time.Time
	)
	if err := sc.Scan(&id, &idea.Title, &idea.Description, &tagsJSON, &idea.Likes, &createdAt); err != nil {
		return nil, err
	}
	idea.ID = domain.IdeaID(id)
	idea.CreatedAt = createdAt.UTC().Format(time.RFC3339)

	// Unreadable tags degrade to an empty list
	if err := json.Unmarshal([]byte(tagsJSON), &idea.Tags); err != nil || idea.Tags == nil {
		idea.Tags = []string{}
	}
	return &idea, nil
}
