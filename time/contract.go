// SPDX-License-Identifier: ice License 1.0

package time

import (
	"database/sql"
	"database/sql/driver"
	stdlibtime "time"

	"github.com/goccy/go-json"
)

// Public API.

type (
	Time struct {
		*stdlibtime.Time
	}
)

// Private API.

var (
	_ json.UnmarshalerContext = (*Time)(nil)
	_ json.MarshalerContext   = (*Time)(nil)
	_ sql.Scanner             = (*Time)(nil)
	_ driver.Valuer           = (*Time)(nil)
)
