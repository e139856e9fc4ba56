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


package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/schoolfinder/core"
)

// MarshalInstitution serializes an Institution to bytes.
// The Distance annotation is never stored.
func MarshalInstitution(inst *core.Institution) []byte {
	stored := inst.WithoutDistance()
	buf := make([]byte, core.InstitutionMUS.Size(stored))
	core.InstitutionMUS.Marshal(stored, buf)
	return buf
}

// UnmarshalInstitution deserializes an Institution from bytes.
// An empty program list decodes as nil, the same as a freshly loaded record.
func UnmarshalInstitution(data []byte) (*core.Institution, error) {
	inst, _, err := core.InstitutionMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if len(inst.Programs) == 0 {
		inst.Programs = nil
	}
	return &inst, nil
}

// MarshalGeocodeResult serializes a GeocodeResult to bytes.
func MarshalGeocodeResult(result *core.GeocodeResult) []byte {
	buf := make([]byte, core.GeocodeResultMUS.Size(*result))
	core.GeocodeResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalGeocodeResult deserializes a GeocodeResult from bytes.
func UnmarshalGeocodeResult(data []byte) (*core.GeocodeResult, error) {
	result, _, err := core.GeocodeResultMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &result, nil
}

// MarshalPosition encodes a load-order position. Big endian keeps
// lexicographic key order equal to numeric order.
func MarshalPosition(pos uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, pos)
	return buf
}
