package models

type Hospital struct {
	ID          string     `json:"id" yaml:"id" validate:"required"`
	Name        string     `json:"name" yaml:"name" validate:"required"`
	Location    Coordinate `json:"location" yaml:"location"`
	Distance    string     `json:"distance" yaml:"distance"` // display label, e.g. "2.5 km"
	ETA         string     `json:"eta" yaml:"eta"`           // display label, e.g. "5 mins"
	Beds        int        `json:"beds" yaml:"beds" validate:"gte=0"`
	Specialties []string   `json:"specialties" yaml:"specialties" validate:"dive,required"`
}

// FindHospital returns the hospital with the given id, or false when the id is unknown.
func FindHospital(hospitals []Hospital, id string) (Hospital, bool) {
	for _, h := range hospitals {
		if h.ID == id {
			return h, true
		}
	}
	return Hospital{}, false
}
