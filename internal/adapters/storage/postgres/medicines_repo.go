package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"medicine-cabinet/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicines (
			id, owner_user_id,
			name, category,
			tablet_count, expiry_date,
			slots, low_stock_threshold,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Category,
		m.TabletCount,
		m.ExpiryDate,
		slotsToTextArray(m.Slots),
		m.LowStockThreshold,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = $2,
			category = $3,
			tablet_count = $4,
			expiry_date = $5,
			slots = $6,
			low_stock_threshold = $7,
			updated_at = $8
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Category,
		m.TabletCount,
		m.ExpiryDate,
		slotsToTextArray(m.Slots),
		m.LowStockThreshold,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, medicines.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, category,
			tablet_count, expiry_date,
			slots, low_stock_threshold,
			created_at, updated_at
		FROM medicines
		WHERE id = $1
	`, id)

	m, err := scanMedicine(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medicines.Medicine{}, medicines.ErrNotFound
		}
		return medicines.Medicine{}, err
	}
	return m, nil
}

func (r *MedicinesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	return r.list(ctx, `
		SELECT
			id, owner_user_id,
			name, category,
			tablet_count, expiry_date,
			slots, low_stock_threshold,
			created_at, updated_at
		FROM medicines
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
}

func (r *MedicinesRepo) ListAll(ctx context.Context) ([]medicines.Medicine, error) {
	return r.list(ctx, `
		SELECT
			id, owner_user_id,
			name, category,
			tablet_count, expiry_date,
			slots, low_stock_threshold,
			created_at, updated_at
		FROM medicines
		ORDER BY created_at ASC
	`)
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) list(ctx context.Context, query string, args ...any) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedicine(row rowScanner) (medicines.Medicine, error) {
	var m medicines.Medicine
	var slots []string

	// El driver stdlib de pgx entrega text[] como literal en formato texto;
	// database/sql no sabe asignarlo a *[]string. El codec de pgtype sí.
	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Category,
		&m.TabletCount,
		&m.ExpiryDate,
		pgtype.NewMap().SQLScanner(&slots),
		&m.LowStockThreshold,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medicines.Medicine{}, err
	}

	m.Slots = slots
	return m, nil
}

// helpers
func slotsToTextArray(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return in
}
