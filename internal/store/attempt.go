package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Attempt is one submitted answer.
type Attempt struct {
	ID         int
	Sequence   int64
	Timestamp  time.Time
	SessionID  string
	Question   int
	Outcome    string
	CodeLength int
}

// AttemptRepo records submitted answers.
type AttemptRepo interface {
	// AppendAttempt records a submission.
	AppendAttempt(ctx context.Context, a Attempt) error

	// RecentAttempts returns up to limit attempts, newest first.
	// A limit of 0 returns all attempts.
	RecentAttempts(ctx context.Context, limit int) ([]Attempt, error)
}

// attemptRepo implements AttemptRepo on the "attempts" table.
type attemptRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, a Attempt) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(AttemptsTable.Name).
		Columns("sequence", "timestamp", "session_id", "question", "outcome", "code_length").
		Values(seqNum, ts.UnixMilli(), a.SessionID, a.Question, a.Outcome, a.CodeLength).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "session_id", "question", "outcome", "code_length").
		From(entsql.Table(AttemptsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var ts int64
		if err := rows.Scan(&a.ID, &a.Sequence, &ts, &a.SessionID, &a.Question, &a.Outcome, &a.CodeLength); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Timestamp = time.UnixMilli(ts)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read attempts: %w", err)
	}
	return out, nil
}
