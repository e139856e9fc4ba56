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


package schoolfinder

import "errors"

var (
	// ErrLocationUnavailable is returned when the device location cannot be acquired.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrSuperseded is returned when a newer action replaced the state an operation was producing.
	ErrSuperseded = errors.New("superseded by a newer search")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrDirectoryRequired is returned when a session is created without a directory provider.
	ErrDirectoryRequired = errors.New("directory provider required")

	// ErrEngineRequired is returned when a session is created without a search engine.
	ErrEngineRequired = errors.New("search engine required")
)
