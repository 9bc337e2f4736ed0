package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"
)

// Driver falso que entrega las filas como lo hace el driver stdlib de pgx:
// las columnas array llegan como literal en formato texto, no como slice.

type fakeDriver struct {
	rows func() driver.Rows
}

func (d *fakeDriver) Open(string) (driver.Conn, error) {
	return &fakeConn{rows: d.rows}, nil
}

type fakeConn struct {
	rows func() driver.Rows
}

func (*fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (*fakeConn) Close() error                        { return nil }
func (*fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	return c.rows(), nil
}

type fakeRows struct {
	cols []string
	vals [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.i])
	r.i++
	return nil
}

var medicineCols = []string{
	"id", "owner_user_id",
	"name", "category",
	"tablet_count", "expiry_date",
	"slots", "low_stock_threshold",
	"created_at", "updated_at",
}

var fakePG = &fakeDriver{}

func init() { sql.Register("fake-pg", fakePG) }

func openFake(t *testing.T, rows func() driver.Rows) *sql.DB {
	t.Helper()
	fakePG.rows = rows
	db, err := sql.Open("fake-pg", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMedicinesRepo_GetByID_DecodesSlotsArray(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	db := openFake(t, func() driver.Rows {
		return &fakeRows{
			cols: medicineCols,
			vals: [][]driver.Value{{
				"med-1", "user-1",
				"Ibuprofen", "analgesic",
				int64(10), expiry,
				"{08:00,20:00}", int64(5),
				now, now,
			}},
		}
	})

	m, err := NewMedicinesRepo(db).GetByID(context.Background(), "med-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(m.Slots) != 2 || m.Slots[0] != "08:00" || m.Slots[1] != "20:00" {
		t.Fatalf("slots = %v, want [08:00 20:00]", m.Slots)
	}
	if m.TabletCount != 10 || m.LowStockThreshold != 5 {
		t.Errorf("tablet_count/threshold = %d/%d, want 10/5", m.TabletCount, m.LowStockThreshold)
	}
}

func TestMedicinesRepo_ListByOwner_EmptySlotsArray(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	db := openFake(t, func() driver.Rows {
		return &fakeRows{
			cols: medicineCols,
			vals: [][]driver.Value{{
				"med-1", "user-1",
				"Vitamin D", "",
				int64(30), now.AddDate(1, 0, 0),
				"{}", int64(5),
				now, now,
			}},
		}
	})

	items, err := NewMedicinesRepo(db).ListByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 medicine, got %d", len(items))
	}
	if len(items[0].Slots) != 0 {
		t.Errorf("slots = %v, want empty", items[0].Slots)
	}
}
