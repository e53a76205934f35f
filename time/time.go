// SPDX-License-Identifier: ice License 1.0

package time

import (
	"context"
	"database/sql/driver"
	"strconv"
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/siwa/log"
)

func Now() *Time {
	now := stdlibtime.Now().UTC()

	return &Time{
		Time: &now,
	}
}

func New(time stdlibtime.Time) *Time {
	return &Time{
		Time: &time,
	}
}

func (t *Time) Scan(src any) error {
	switch val := src.(type) {
	case stdlibtime.Time:
		utc := val.UTC()
		t.Time = &utc

		return nil
	case nil:
		t.Time = nil

		return nil
	default:
		return errors.Errorf("unexpected type %T for Time", src)
	}
}

func (t *Time) Value() (driver.Value, error) {
	if t == nil || t.Time == nil {
		return nil, nil //nolint:nilnil // The driver expects it like that.
	}

	return t.Time.UTC(), nil
}

func (t *Time) MarshalJSON(_ context.Context) ([]byte, error) {
	if t.UnixNano() == 0 {
		return []byte("null"), nil
	}
	if t.Location() != stdlibtime.UTC {
		*t.Time = t.Time.UTC()
	}

	//nolint:wrapcheck // We're just proxying it.
	return t.Time.MarshalJSON()
}

func (t *Time) UnmarshalJSON(_ context.Context, bytes []byte) (err error) {
	t.unmarshallUint64(bytes)
	if t.Time != nil {
		return nil
	}

	return t.unmarshallString(bytes)
}

func (t *Time) unmarshallUint64(data []byte) {
	for _, b := range data {
		if b < 48 || b > 57 {
			return
		}
	}
	millisOrNanos, err := strconv.Atoi(string(data))
	log.Panic(err) //nolint:revive // That's the point.
	t.Time = new(stdlibtime.Time)
	if len(data) == 13 { //nolint:gomnd // There's no magic here, there are 13 digits in a millisecond based timestamp.
		*t.Time = stdlibtime.UnixMilli(int64(millisOrNanos)).UTC()
	} else {
		*t.Time = stdlibtime.Unix(0, int64(millisOrNanos)).UTC()
	}
}

func (t *Time) unmarshallString(bytes []byte) error {
	data := string(bytes)
	if data == "null" || data == `""` || data == "" {
		return nil
	}
	time, err := stdlibtime.Parse(`"`+stdlibtime.RFC3339Nano+`"`, data)
	if err != nil {
		return errors.Wrapf(err, "invalid time format: %v", data)
	}
	t.Time = new(stdlibtime.Time)
	*t.Time = time.UTC()

	return nil
}
