package inventory

import (
	"github.com/jhoicas/mfg-console/internal/domain"
)

// ValidateDistinctLocations exige que primaria, secundaria y punto de uso no repitan ubicación.
func ValidateDistinctLocations(primaryID, secondaryID, pointOfUseID string) error {
	if primaryID != "" && primaryID == secondaryID {
		return domain.NewValidation("secondary_location", "la ubicación secundaria %s es igual a la primaria", secondaryID)
	}
	if primaryID != "" && primaryID == pointOfUseID {
		return domain.NewValidation("point_of_use_location", "el punto de uso %s es igual a la ubicación primaria", pointOfUseID)
	}
	if secondaryID != "" && secondaryID == pointOfUseID {
		return domain.NewValidation("point_of_use_location", "el punto de uso %s es igual a la ubicación secundaria", pointOfUseID)
	}
	return nil
}
