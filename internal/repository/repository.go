package repository

import (
	"context"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// HospitalRepository is the read side used by the hospital directory plus the
// write side used to seed it.
type HospitalRepository interface {
	AddHospital(ctx context.Context, h *models.Hospital) error
	GetHospital(ctx context.Context, id string) (*models.Hospital, error)
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	CountHospitals(ctx context.Context) (int, error)
}
