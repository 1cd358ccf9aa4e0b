package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

const submissionColumns = `id, submitter_id, submitter_name, submitter_email, title, content,
	language, images, region_id, status, reviewed_by, created_at`

func (s *Store) CreateSubmission(ctx context.Context, sub *model.Submission) (int64, error) {
	images, err := encodeList(sub.Images)
	if err != nil {
		return 0, err
	}
	lang := sub.Language
	if lang == "" {
		lang = "en"
	}
	status := sub.Status
	if status == "" {
		status = model.SubmissionPending
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO submissions (submitter_id, submitter_name, submitter_email, title, content,
	language, images, region_id, status, reviewed_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
`, nullableInt(sub.SubmitterID), nullIfEmpty(sub.SubmitterName), nullIfEmpty(sub.SubmitterEmail), sub.Title, sub.Content,
		lang, images, nullableInt(sub.RegionID), status, sub.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetSubmission(ctx context.Context, id int64) (model.Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	return scanSubmission(row)
}

func (s *Store) ListSubmissions(ctx context.Context, opts store.SubmissionListOpts) ([]model.Submission, error) {
	limit := clamp(opts.Limit, 1, 100)
	if opts.Limit == 0 {
		limit = 20
	}
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	args := []any{}
	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, opts.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, max(opts.Skip, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

func (s *Store) UpdateSubmissionStatus(ctx context.Context, id int64, status string, reviewerID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE submissions SET status = ?, reviewed_by = ? WHERE id = ?`, status, reviewerID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanSubmission(row scanner) (model.Submission, error) {
	var sub model.Submission
	var submitterID, regionID, reviewedBy sql.NullInt64
	var name, email, images sql.NullString
	var created int64
	if err := row.Scan(&sub.ID, &submitterID, &name, &email, &sub.Title, &sub.Content,
		&sub.Language, &images, &regionID, &sub.Status, &reviewedBy, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Submission{}, store.ErrNotFound
		}
		return model.Submission{}, err
	}
	sub.SubmitterID = int64Ptr(submitterID)
	sub.SubmitterName = name.String
	sub.SubmitterEmail = email.String
	sub.Images = decodeList(images)
	sub.RegionID = int64Ptr(regionID)
	sub.ReviewedBy = int64Ptr(reviewedBy)
	sub.CreatedAt = time.Unix(created, 0).UTC()
	return sub, nil
}
