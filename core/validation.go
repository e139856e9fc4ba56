// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
)

// ValidateInstitution validates an Institution according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Name must not be empty
//   - Coords, when present, must be a valid coordinate
//
// Optional profile fields are never validated; malformed values are tolerated.
func ValidateInstitution(inst *Institution) error {
	if inst == nil {
		return fmt.Errorf("%w: institution is nil", ErrInvalidInstitution)
	}

	if inst.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInstitution, ErrEmptyID)
	}

	if inst.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInstitution, ErrEmptyName)
	}

	if inst.Coords != nil {
		if err := ValidateCoordinate(*inst.Coords); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInstitution, err)
		}
	}

	return nil
}

// ValidateCoordinate checks latitude and longitude ranges.
func ValidateCoordinate(c Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("%w: NaN component", ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %f", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// ValidateRadius checks that miles is one of the selectable radii.
func ValidateRadius(miles int) error {
	for _, opt := range RadiusOptions {
		if opt.Miles == miles {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrInvalidRadius, miles)
}

// FindSource returns the data source with the given id.
func FindSource(sources []DataSource, id string) (DataSource, error) {
	for _, s := range sources {
		if s.ID == id {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
}
