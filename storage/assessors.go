package storage

import (
	"casebook/clinic"
	"context"
	"fmt"
)

// InsertAssessor inserts one assessor. The second return value is false when
// an assessor with the same code already exists.
func InsertAssessor(ctx context.Context, q Querier, assessor clinic.Assessor) (int64, bool, error) {
	const insertStmt = `
INSERT OR IGNORE INTO assessors (
	code,
	full_name,
	credentials,
	email
) VALUES (?, ?, ?, ?);`

	res, err := q.ExecContext(ctx, insertStmt, assessor.Code, assessor.FullName, assessor.Credentials, assessor.Email)
	if err != nil {
		return 0, false, fmt.Errorf("insert assessor %s: %w", assessor.Code, err)
	}

	return insertedID(res)
}

func FindAssessorIDByCode(ctx context.Context, q Querier, code string) (int64, bool, error) {
	return findIDByCode(ctx, q, "assessors", code)
}

func ListAssessors(ctx context.Context, q Querier) ([]clinic.Assessor, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, code, full_name, credentials, email
FROM assessors
ORDER BY full_name, id;
`)
	if err != nil {
		return nil, fmt.Errorf("query assessors: %w", err)
	}
	defer rows.Close()

	assessors := make([]clinic.Assessor, 0, 16)
	for rows.Next() {
		var assessor clinic.Assessor
		if err := rows.Scan(&assessor.ID, &assessor.Code, &assessor.FullName, &assessor.Credentials, &assessor.Email); err != nil {
			return nil, fmt.Errorf("scan assessor: %w", err)
		}
		assessors = append(assessors, assessor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessors: %w", err)
	}

	return assessors, nil
}

func (s *SQLiteStore) CountAssessors(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "assessors")
}
