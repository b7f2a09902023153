// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/interviewlab/backend/internal/domain/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
    id TEXT PRIMARY KEY,
    interview_type TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    question_count INTEGER NOT NULL,
    average_score INTEGER NOT NULL,
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS answers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    interview_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question_text TEXT NOT NULL,
    modality TEXT NOT NULL,
    answer_text TEXT NOT NULL,
    overall_score INTEGER NOT NULL,
    degraded INTEGER NOT NULL,
    criteria TEXT NOT NULL,
    feedback TEXT NOT NULL,
    strengths TEXT NOT NULL,
    improvements TEXT NOT NULL,
    tips TEXT NOT NULL,
    FOREIGN KEY (interview_id) REFERENCES interviews(id) ON DELETE CASCADE
);
`

// SQLiteStore archives completed interviews. Live sessions never touch the
// database; a session is written here exactly once, after its last answer.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ArchiveSession writes a completed session and all of its answers in one
// transaction.
func (s *SQLiteStore) ArchiveSession(ctx context.Context, sess *interview.Session) error {
	if sess.State() != interview.StateCompleted {
		return fmt.Errorf("cannot archive interview in state %q", sess.State())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO interviews (id, interview_type, difficulty, question_count, average_score, started_at, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.Type, sess.Difficulty, len(sess.Questions), sess.AverageScore(), sess.CreatedAt, sess.CompletedAt,
	)
	if err != nil {
		return err
	}

	for i, q := range sess.Questions {
		resp, ok := sess.Responses[q.ID]
		if !ok {
			continue
		}
		eval := sess.Evaluations[q.ID]

		criteriaJSON, _ := json.Marshal(eval.Criteria)
		strengthsJSON, _ := json.Marshal(eval.Strengths)
		improvementsJSON, _ := json.Marshal(eval.Improvements)
		tipsJSON, _ := json.Marshal(eval.Tips)

		_, err = tx.ExecContext(ctx,
			`INSERT INTO answers (interview_id, question_id, position, question_text, modality, answer_text,
			    overall_score, degraded, criteria, feedback, strengths, improvements, tips)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, q.ID, i, q.Text, string(resp.Modality), resp.AnswerText(),
			eval.OverallScore, eval.Degraded, string(criteriaJSON), eval.FeedbackText,
			string(strengthsJSON), string(improvementsJSON), string(tipsJSON),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListArchived returns completed interviews, newest first.
func (s *SQLiteStore) ListArchived(ctx context.Context) ([]ArchivedInterview, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, interview_type, difficulty, question_count, average_score, started_at, completed_at FROM interviews ORDER BY completed_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []ArchivedInterview
	for rows.Next() {
		var a ArchivedInterview
		if err := rows.Scan(&a.ID, &a.InterviewType, &a.Difficulty, &a.QuestionCount, &a.AverageScore, &a.StartedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		interviews = append(interviews, a)
	}
	return interviews, rows.Err()
}

// GetAnswers returns the archived answers of one interview in question order.
func (s *SQLiteStore) GetAnswers(ctx context.Context, interviewID string) ([]ArchivedAnswer, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM interviews WHERE id = ?", interviewID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, position, question_text, modality, answer_text, overall_score, degraded,
		    criteria, feedback, strengths, improvements, tips
		 FROM answers WHERE interview_id = ? ORDER BY position`,
		interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []ArchivedAnswer
	for rows.Next() {
		var a ArchivedAnswer
		var criteriaJSON, strengthsJSON, improvementsJSON, tipsJSON string
		if err := rows.Scan(&a.QuestionID, &a.Position, &a.QuestionText, &a.Modality, &a.AnswerText,
			&a.OverallScore, &a.Degraded, &criteriaJSON, &a.FeedbackText,
			&strengthsJSON, &improvementsJSON, &tipsJSON); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(criteriaJSON), &a.Criteria)
		json.Unmarshal([]byte(strengthsJSON), &a.Strengths)
		json.Unmarshal([]byte(improvementsJSON), &a.Improvements)
		json.Unmarshal([]byte(tipsJSON), &a.Tips)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
