// SPDX-License-Identifier: ice License 1.0

package terror

// Public API.

type (
	Err struct {
		error
		Data map[string]any
	}
)
