package hospital

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type directoryFile struct {
	Hospitals []models.Hospital `yaml:"hospitals" validate:"required,min=1,dive"`
}

// YAMLLoader reads the directory from a file shaped like:
//
//	hospitals:
//	  - id: "1"
//	    name: Kovai Medical Center
//	    location: {lat: 11.0329, lng: 76.9728}
//	    beds: 45
//	    specialties: [Emergency, Trauma]
type YAMLLoader struct {
	Path string
}

func (l YAMLLoader) Load(ctx context.Context) ([]models.Hospital, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", l.Path, err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) ([]models.Hospital, error) {
	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding hospital yaml: %w", err)
	}
	v := validator.New()
	if err := v.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid hospital yaml: %w", err)
	}
	return f.Hospitals, nil
}
