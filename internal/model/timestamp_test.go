package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-11-01T09:30:00Z", want: time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)},
		{in: "2026-11-01T09:30:00.250Z", want: time.Date(2026, 11, 1, 9, 30, 0, 250_000_000, time.UTC)},
		{in: "2026-11-01T12:30:00+03:00", want: time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)},
		{in: "2026-11-01t09:30:00z", want: time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)},
		{in: "2026-11-01T09:30:00", want: time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)},
		{in: "2026-11-01T09:30:00.5", want: time.Date(2026, 11, 1, 9, 30, 0, 500_000_000, time.UTC)},
		{in: "2026-11-01", want: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2026-11-01T23:59:60Z", wantErr: true},
		{in: "2026-13-45", wantErr: true},
		{in: "tomorrow", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimestamp)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestTaskCreate_UnmarshalJSON(t *testing.T) {
	var in TaskCreate
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","status":"done","due_date":"2026-11-01"}`), &in))
	assert.Equal(t, "t", in.Title)
	assert.Equal(t, StatusDone, in.Status)
	require.NotNil(t, in.DueDate)
	assert.True(t, in.DueDate.Equal(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)))

	var bad TaskCreate
	err := json.Unmarshal([]byte(`{"title":"t","due_date":"soon"}`), &bad)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestTaskUpdate_UnmarshalJSON(t *testing.T) {
	var in TaskUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":"2026-11-01T09:30:00"}`), &in))
	require.NotNil(t, in.Title)
	assert.Equal(t, "x", *in.Title)
	require.NotNil(t, in.DueDate)
	assert.True(t, in.DueDate.Equal(time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)))

	var empty TaskUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":null}`), &empty))
	assert.Nil(t, empty.DueDate)
}
