// SPDX-License-Identifier: ice License 1.0

package internal

// Public API.

type (
	// Token is the payload extracted from a successfully verified token, no matter which authority issued it.
	Token struct {
		Claims     map[string]any
		UserID     string `json:"userId,omitempty"`
		Username   string `json:"username,omitempty"`
		Email      string `json:"email,omitempty"`
		GivenName  string `json:"givenName,omitempty"`
		FamilyName string `json:"familyName,omitempty"`
		Provider   string
	}
)
