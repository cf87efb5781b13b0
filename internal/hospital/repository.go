package hospital

import (
	"context"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
	"github.com/mr1hm/go-ambulance-dashboard/internal/repository"
)

// RepositoryLoader reads the directory from the hospital store. Swapping it in
// for StaticLoader does not change any consumer of the Directory.
type RepositoryLoader struct {
	Repo repository.HospitalRepository
}

func (l RepositoryLoader) Load(ctx context.Context) ([]models.Hospital, error) {
	return l.Repo.ListHospitals(ctx)
}
