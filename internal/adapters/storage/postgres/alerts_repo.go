package postgres

import (
	"context"
	"database/sql"

	"medicine-cabinet/internal/domain/alerts"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

// Upsert con ON CONFLICT DO NOTHING: marcar dos veces conserva el shown_at
// original, que es exactamente la semántica idempotente que se necesita.
func (r *AlertsRepo) Upsert(ctx context.Context, a alerts.Ack) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expiry_alert_acks (
			id, user_id, medicine_id, shown_at
		) VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, medicine_id) DO NOTHING
	`,
		a.ID,
		a.UserID,
		a.MedicineID,
		a.ShownAt,
	)
	return err
}

func (r *AlertsRepo) Get(ctx context.Context, userID, medicineID string) (alerts.Ack, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, medicine_id, shown_at
		FROM expiry_alert_acks
		WHERE user_id = $1 AND medicine_id = $2
	`, userID, medicineID)

	var a alerts.Ack
	if err := row.Scan(&a.ID, &a.UserID, &a.MedicineID, &a.ShownAt); err != nil {
		if err == sql.ErrNoRows {
			return alerts.Ack{}, alerts.ErrNotFound
		}
		return alerts.Ack{}, err
	}
	return a, nil
}

func (r *AlertsRepo) ListByUser(ctx context.Context, userID string) ([]alerts.Ack, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, medicine_id, shown_at
		FROM expiry_alert_acks
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.Ack, 0)
	for rows.Next() {
		var a alerts.Ack
		if err := rows.Scan(&a.ID, &a.UserID, &a.MedicineID, &a.ShownAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
