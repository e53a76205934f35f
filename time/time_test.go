// SPDX-License-Identifier: ice License 1.0

package time

import (
	"context"
	"testing"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // It's better to keep it together.
func TestTime(t *testing.T) {
	t.Parallel()
	type tmpStruct struct {
		CreatedAt *Time `json:"createdAt"`
	}
	time1, err := stdlibtime.Parse(stdlibtime.RFC3339Nano, "2006-01-02T15:04:05.999999999Z")
	require.NoError(t, err)
	t1 := tmpStruct{CreatedAt: New(time1)}
	bytes, err := json.MarshalContext(context.Background(), t1)
	require.NoError(t, err)
	assert.Equal(t, `{"createdAt":"2006-01-02T15:04:05.999999999Z"}`, string(bytes))
	var t2 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1}`), &t2))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1).UTC())}, t2)
	bytes, err = json.MarshalContext(context.Background(), &tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 0).UTC())})
	require.NoError(t, err)
	assert.Equal(t, `{"createdAt":null}`, string(bytes))
	var t21 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1655303440552373000}`), &t21))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1655303440552373000).UTC())}, t21)
	var t22 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1655303440552}`), &t22))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1655303440552000000).UTC())}, t22)
	var t3 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":"2006-01-02T15:04:05.999999999Z"}`), &t3))
	assert.Equal(t, t1, t3)
	bytes, err = json.MarshalContext(context.Background(), tmpStruct{CreatedAt: Now()})
	require.NoError(t, err)
	assert.Regexp(t, `{"createdAt":".+"}`, string(bytes))
}

func TestTimeScanValue(t *testing.T) {
	t.Parallel()
	loc := stdlibtime.FixedZone("UTC+3", 3*60*60)
	src := stdlibtime.Date(2024, 5, 1, 12, 30, 0, 0, loc)
	scanned := new(Time)
	require.NoError(t, scanned.Scan(src))
	assert.Equal(t, src.UTC(), *scanned.Time)
	val, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, src.UTC(), val)
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned.Time)
	var nilTime *Time
	val, err = nilTime.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
	require.Error(t, new(Time).Scan("not a time"))
}
