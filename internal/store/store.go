// Package store persists editor sessions and their generation history in
// sqlite. Session state is keyed by session id and read back fresh for
// every request, so no configuration object is ever shared between
// sessions or requests.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
)

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("session not found")

type Store struct {
	*sql.DB
}

// Open opens (creating if necessary) the store at path. The base schema
// is created inline; later schema changes ship as migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id        TEXT PRIMARY KEY,
			config_json       TEXT NOT NULL,
			created_at        BIGINT NOT NULL,
			updated_at        BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			generation_id     TEXT PRIMARY KEY,
			session_id        TEXT NOT NULL,
			robot_name        TEXT NOT NULL,
			drive_type        TEXT NOT NULL,
			document          TEXT NOT NULL,
			issues_json       TEXT NOT NULL,
			created_at        BIGINT NOT NULL,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
		CREATE INDEX IF NOT EXISTS idx_generations_session
			ON generations(session_id, created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db}, nil
}

// Session is one editor session's configuration snapshot.
type Session struct {
	ID        string       `json:"session_id"`
	Config    robot.Config `json:"config"`
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
}

// Generation is one recorded generation pass for a session.
type Generation struct {
	ID        string         `json:"generation_id"`
	SessionID string         `json:"session_id"`
	RobotName string         `json:"robot_name"`
	DriveType string         `json:"drive_type"`
	Document  string         `json:"document,omitempty"`
	Issues    []report.Issue `json:"issues"`
	CreatedAt int64          `json:"created_at"`
}

// CreateSession inserts a new session seeded with cfg and returns it.
func (s *Store) CreateSession(cfg robot.Config) (Session, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal config: %w", err)
	}

	sess := Session{
		ID:        uuid.New().String(),
		Config:    cfg,
		CreatedAt: time.Now().UnixNano(),
	}
	sess.UpdatedAt = sess.CreatedAt

	_, err = s.Exec(
		`INSERT INTO sessions (session_id, config_json, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, string(data), sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return sess, nil
}

// Session loads one session by id.
func (s *Store) Session(id string) (Session, error) {
	var sess Session
	var configJSON string
	err := s.QueryRow(
		`SELECT session_id, config_json, created_at, updated_at FROM sessions WHERE session_id = ?`, id,
	).Scan(&sess.ID, &configJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &sess.Config); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session config: %w", err)
	}
	return sess, nil
}

// UpdateConfig replaces the session's configuration snapshot.
func (s *Store) UpdateConfig(id string, cfg robot.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	res, err := s.Exec(
		`UPDATE sessions SET config_json = ?, updated_at = ? WHERE session_id = ?`,
		string(data), time.Now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RecordGeneration appends one generation outcome to a session's history.
func (s *Store) RecordGeneration(sessionID string, cfg robot.Config, document string, issues []report.Issue) (Generation, error) {
	if issues == nil {
		issues = []report.Issue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to marshal issues: %w", err)
	}

	gen := Generation{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		RobotName: cfg.Name,
		DriveType: string(cfg.DriveType),
		Document:  document,
		Issues:    issues,
		CreatedAt: time.Now().UnixNano(),
	}

	_, err = s.Exec(
		`INSERT INTO generations (generation_id, session_id, robot_name, drive_type, document, issues_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gen.ID, gen.SessionID, gen.RobotName, gen.DriveType, gen.Document, string(issuesJSON), gen.CreatedAt,
	)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to insert generation: %w", err)
	}
	return gen, nil
}

// History returns a session's generations, newest first, capped at limit
// (0 means a default of 50).
func (s *Store) History(sessionID string, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Query(
		`SELECT generation_id, session_id, robot_name, drive_type, document, issues_json, created_at
		 FROM generations WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	gens := []Generation{}
	for rows.Next() {
		var g Generation
		var issuesJSON string
		if err := rows.Scan(&g.ID, &g.SessionID, &g.RobotName, &g.DriveType, &g.Document, &issuesJSON, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		if err := json.Unmarshal([]byte(issuesJSON), &g.Issues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}
