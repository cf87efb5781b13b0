package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS hospitals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			distance TEXT,
			eta TEXT,
			beds INTEGER NOT NULL CHECK (beds >= 0),
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS hospital_specialties (
			hospital_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			specialty TEXT NOT NULL,
			PRIMARY KEY (hospital_id, specialty),
			FOREIGN KEY (hospital_id) REFERENCES hospitals(id)
		);

		CREATE INDEX IF NOT EXISTS idx_specialties_hospital_id ON hospital_specialties(hospital_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) AddHospital(ctx context.Context, h *models.Hospital) error {
	if err := h.Location.Validate(); err != nil {
		return fmt.Errorf("hospital %s: %w", h.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hospitals (id, name, latitude, longitude, distance, eta, beds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Location.Lat, h.Location.Lng, h.Distance, h.ETA, h.Beds, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("error inserting hospital %s: %w", h.ID, err)
	}

	for i, sp := range h.Specialties {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hospital_specialties (hospital_id, position, specialty) VALUES (?, ?, ?)`,
			h.ID, i, sp,
		); err != nil {
			return fmt.Errorf("error inserting specialty %q for %s: %w", sp, h.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) GetHospital(ctx context.Context, id string) (*models.Hospital, error) {
	var h models.Hospital
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude, distance, eta, beds
		FROM hospitals WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.Location.Lat, &h.Location.Lng, &h.Distance, &h.ETA, &h.Beds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying hospital %s: %w", id, err)
	}

	specialties, err := s.specialties(ctx, "WHERE hospital_id = ?", id)
	if err != nil {
		return nil, err
	}
	h.Specialties = specialties[h.ID]
	return &h, nil
}

// ListHospitals returns hospitals in insertion order.
func (s *SQLiteDB) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, distance, eta, beds
		FROM hospitals ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying hospitals: %w", err)
	}

	var hospitals []models.Hospital
	for rows.Next() {
		var h models.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Location.Lat, &h.Location.Lng, &h.Distance, &h.ETA, &h.Beds); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning hospital: %w", err)
		}
		hospitals = append(hospitals, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	specialties, err := s.specialties(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range hospitals {
		hospitals[i].Specialties = specialties[hospitals[i].ID]
	}

	return hospitals, nil
}

func (s *SQLiteDB) specialties(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hospital_id, specialty FROM hospital_specialties `+where+` ORDER BY hospital_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying specialties: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, sp string
		if err := rows.Scan(&id, &sp); err != nil {
			return nil, fmt.Errorf("error scanning specialty: %w", err)
		}
		out[id] = append(out[id], sp)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) CountHospitals(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hospitals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting hospitals: %w", err)
	}
	return n, nil
}

// SeedHospitals inserts hs only when the directory table is empty.
// It reports how many rows were written.
func (s *SQLiteDB) SeedHospitals(ctx context.Context, hs []models.Hospital) (int, error) {
	n, err := s.CountHospitals(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i := range hs {
		if err := s.AddHospital(ctx, &hs[i]); err != nil {
			return i, err
		}
	}
	return len(hs), nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
