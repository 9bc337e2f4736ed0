package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medicine-cabinet/internal/domain/doselogs"
)

type DoseLogsRepo struct {
	db *sql.DB
}

func NewDoseLogsRepo(db *sql.DB) *DoseLogsRepo {
	return &DoseLogsRepo{db: db}
}

func (r *DoseLogsRepo) Create(ctx context.Context, d doselogs.DoseLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (
			id, user_id, medicine_id,
			slot, quantity,
			log_date, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		d.ID,
		d.UserID,
		d.MedicineID,
		d.Slot,
		d.Quantity,
		d.LogDate,
		d.RecordedAt,
	)
	return err
}

// ListByUserAndDate trae el día completo del usuario sin filtrar por
// medicamento ni slot: alcanza con un índice simple (user_id, log_date).
func (r *DoseLogsRepo) ListByUserAndDate(ctx context.Context, userID string, day time.Time) ([]doselogs.DoseLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id, medicine_id,
			slot, quantity,
			log_date, recorded_at
		FROM dose_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY recorded_at ASC
	`, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doselogs.DoseLog, 0)
	for rows.Next() {
		var d doselogs.DoseLog
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.MedicineID,
			&d.Slot,
			&d.Quantity,
			&d.LogDate,
			&d.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}
