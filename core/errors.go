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

import "errors"

// Domain validation errors
var (
	// ErrInvalidInstitution indicates an Institution failed validation.
	ErrInvalidInstitution = errors.New("invalid institution")

	// ErrInvalidCoordinate indicates a Coordinate is outside WGS84 bounds.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrInvalidRadius indicates a radius that is not one of RadiusOptions.
	ErrInvalidRadius = errors.New("invalid radius")

	// ErrUnknownSource indicates a data source id that is not configured.
	ErrUnknownSource = errors.New("unknown data source")
)
