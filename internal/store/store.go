package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/google/uuid"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// Store is the durable persistence layer for sessions, rounds, and premises.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres, pre-pings it, and configures the pool.
func Open(dsn string, cfg PoolConfig) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store: dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// FromDB wraps an already-open *sql.DB as a Store, bypassing Open's DSN
// parsing and pool configuration. Used by tests against go-sqlmock and by
// callers that manage the pool themselves.
func FromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Healthy issues a trivial query and reports reachability, for the
// /health/ready probe (spec §4.3, §6).
func (s *Store) Healthy(ctx context.Context) bool {
	if s == nil || s.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx) == nil
}

// scoped runs fn inside a transaction, guaranteeing rollback on any error
// or panic and commit only on a clean return (spec §4.3 "guaranteed
// release on all exit paths").
func (s *Store) scoped(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to begin transaction").
			WithDebug("operation", op).WithCause(err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		if ge, ok := err.(*ideaerrors.Error); ok {
			return ge
		}
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "operation failed").
			WithDebug("operation", op).WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to commit transaction").
			WithDebug("operation", op).WithCause(err)
	}
	committed = true
	return nil
}

// CreateSession persists a freshly created session.
func (s *Store) CreateSession(ctx context.Context, problem string) (*models.Session, *ideaerrors.Error) {
	sess := &models.Session{
		ID:        uuid.NewString(),
		Problem:   problem,
		Status:    models.SessionCreated,
		CreatedAt: time.Now(),
	}
	history, _ := json.Marshal(sess.History)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, problem, status, created_at, tokens_used, history)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		sess.ID, sess.Problem, sess.Status, sess.CreatedAt, sess.TokensUsed, history,
	)
	if err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to create session").WithCause(err)
	}
	sess.Status = models.SessionActive
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET status=$1 WHERE id=$2`, sess.Status, sess.ID); err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to activate session").WithCause(err)
	}
	return sess, nil
}

// GetSession loads a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, *ideaerrors.Error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, problem, status, created_at, resolved_at, tokens_used, history FROM sessions WHERE id=$1`, id)
	return scanSession(row)
}

// ListSessions returns a page of sessions, optionally filtered by status.
func (s *Store) ListSessions(ctx context.Context, status string, limit, offset int) ([]*models.Session, *ideaerrors.Error) {
	query := `SELECT id, problem, status, created_at, resolved_at, tokens_used, history FROM sessions`
	args := []any{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to list sessions").WithCause(err)
	}
	defer rows.Close()

	var result []*models.Session
	for rows.Next() {
		sess, serr := scanSessionRows(rows)
		if serr != nil {
			return nil, serr
		}
		result = append(result, sess)
	}
	return result, nil
}

// UpdateSessionTurn persists token usage and history after an agent turn.
func (s *Store) UpdateSessionTurn(ctx context.Context, id string, tokensUsed int, history []models.Message) *ideaerrors.Error {
	h, _ := json.Marshal(history)
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET tokens_used=$1, history=$2 WHERE id=$3`, tokensUsed, h, id)
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to update session turn").WithCause(err)
	}
	return nil
}

// ResolveSession marks a session resolved at the given time.
func (s *Store) ResolveSession(ctx context.Context, id string, at time.Time) *ideaerrors.Error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET status=$1, resolved_at=$2 WHERE id=$3`, models.SessionResolved, at, id)
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to resolve session").WithCause(err)
	}
	return nil
}

// CancelSession marks a session cancelled; the caller must have already
// checked it is active.
func (s *Store) CancelSession(ctx context.Context, id string) *ideaerrors.Error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET status=$1 WHERE id=$2`, models.SessionCancelled, id)
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to cancel session").WithCause(err)
	}
	return nil
}

// DeleteSession removes a session. The caller must have already checked
// it is not active (spec §3 "deletion is forbidden while status = active").
func (s *Store) DeleteSession(ctx context.Context, id string) *ideaerrors.Error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to delete session").WithCause(err)
	}
	return nil
}

// PresentRound durably commits a round and its three premises in one
// transaction — the source of truth is the buffer passed in, never
// re-submitted LLM arguments (spec §4.5 present_round).
func (s *Store) PresentRound(ctx context.Context, sessionID string, roundNumber int, summary string, buffered []models.BufferedPremise) ([]*models.Premise, *ideaerrors.Error) {
	var premises []*models.Premise
	err := s.scoped(ctx, "present_round", func(tx *sql.Tx) error {
		roundID := uuid.NewString()
		now := time.Now()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (id, session_id, round_number, summary, created_at) VALUES ($1,$2,$3,$4,$5)`,
			roundID, sessionID, roundNumber, summary, now); err != nil {
			return err
		}

		for i, bp := range buffered {
			p := &models.Premise{
				ID:                uuid.NewString(),
				SessionID:         sessionID,
				RoundID:           roundID,
				RoundNumber:       roundNumber,
				Position:          i,
				Title:             bp.Title,
				Body:              bp.Body,
				Type:              bp.Type,
				ViolatedAxiom:     bp.ViolatedAxiom,
				CrossDomainSource: bp.CrossDomainSource,
				CreatedAt:         now,
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO premises (id, session_id, round_id, round_number, position, title, body, premise_type, violated_axiom, cross_domain_source, created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				p.ID, p.SessionID, p.RoundID, p.RoundNumber, p.Position, p.Title, p.Body, p.Type, p.ViolatedAxiom, p.CrossDomainSource, p.CreatedAt); err != nil {
				return err
			}
			premises = append(premises, p)
		}
		return nil
	})
	if err != nil {
		return nil, err.(*ideaerrors.Error)
	}
	return premises, nil
}

// StorePremiseEvaluation overlays the user's score/comment/winner flag
// onto the most recently persisted premise matching title within the
// session (spec §4.5 store_premise).
func (s *Store) StorePremiseEvaluation(ctx context.Context, sessionID, title string, score *float64, comment string, isWinner bool) *ideaerrors.Error {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM premises WHERE session_id=$1 AND title=$2 ORDER BY created_at DESC LIMIT 1`,
		sessionID, title).Scan(&id)
	if err == sql.ErrNoRows {
		return ideaerrors.New(ideaerrors.CodeResourceNotFound, "no premise found with that title in this session")
	}
	if err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to look up premise").WithCause(err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE premises SET score=$1, user_comment=$2, is_winner=$3 WHERE id=$4`,
		score, comment, isWinner, id); err != nil {
		return ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to store premise evaluation").WithCause(err)
	}
	return nil
}

// QueryPremises returns premises for a session, optionally filtered.
func (s *Store) QueryPremises(ctx context.Context, sessionID string, roundNumber *int, premiseType string, limit int) ([]*models.Premise, *ideaerrors.Error) {
	query := `SELECT id, session_id, round_id, round_number, position, title, body, premise_type, violated_axiom, cross_domain_source, score, user_comment, is_winner, created_at FROM premises WHERE session_id=$1`
	args := []any{sessionID}
	if roundNumber != nil {
		args = append(args, *roundNumber)
		query += fmt.Sprintf(` AND round_number=$%d`, len(args))
	}
	if premiseType != "" {
		args = append(args, premiseType)
		query += fmt.Sprintf(` AND premise_type=$%d`, len(args))
	}
	// Ordered by round then position, not created_at: every premise in a
	// round is inserted with the same timestamp, so created_at alone
	// cannot recover presentation order (see Premise.Position).
	query += fmt.Sprintf(` ORDER BY round_number DESC, position ASC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to query premises").WithCause(err)
	}
	defer rows.Close()

	var result []*models.Premise
	for rows.Next() {
		p := &models.Premise{}
		if err := rows.Scan(&p.ID, &p.SessionID, &p.RoundID, &p.RoundNumber, &p.Position, &p.Title, &p.Body, &p.Type,
			&p.ViolatedAxiom, &p.CrossDomainSource, &p.Score, &p.UserComment, &p.IsWinner, &p.CreatedAt); err != nil {
			return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to scan premise").WithCause(err)
		}
		result = append(result, p)
	}
	return result, nil
}

func scanSession(row *sql.Row) (*models.Session, *ideaerrors.Error) {
	sess := &models.Session{}
	var history []byte
	err := row.Scan(&sess.ID, &sess.Problem, &sess.Status, &sess.CreatedAt, &sess.ResolvedAt, &sess.TokensUsed, &history)
	if err == sql.ErrNoRows {
		return nil, ideaerrors.New(ideaerrors.CodeResourceNotFound, "session not found")
	}
	if err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to load session").WithCause(err)
	}
	if len(history) > 0 {
		_ = json.Unmarshal(history, &sess.History)
	}
	return sess, nil
}

func scanSessionRows(rows *sql.Rows) (*models.Session, *ideaerrors.Error) {
	sess := &models.Session{}
	var history []byte
	if err := rows.Scan(&sess.ID, &sess.Problem, &sess.Status, &sess.CreatedAt, &sess.ResolvedAt, &sess.TokensUsed, &history); err != nil {
		return nil, ideaerrors.New(ideaerrors.CodeDatabaseError, "failed to scan session").WithCause(err)
	}
	if len(history) > 0 {
		_ = json.Unmarshal(history, &sess.History)
	}
	return sess, nil
}
