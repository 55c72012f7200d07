package history

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCreatedAt(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		loc  *time.Location
		want string
	}{
		{"utc", "2025-10-25T14:30:00Z", time.UTC, "25.10.2025, 14:30"},
		{"moscow", "2025-10-25T14:30:00Z", moscow, "25.10.2025, 17:30"},
		{"offset", "2025-10-25T14:30:00+03:00", time.UTC, "25.10.2025, 11:30"},
		{"fraction", "2025-01-02T03:04:05.123456", time.UTC, "02.01.2025, 03:04"},
		{"zoneless in location", "2025-10-25T14:30:00", moscow, "25.10.2025, 14:30"},
		{"space separated", "2025-10-25 09:05:00", time.UTC, "25.10.2025, 09:05"},
		{"garbage", "вчера", time.UTC, "вчера"},
		{"empty", "", time.UTC, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCreatedAt(tt.in, tt.loc))
		})
	}
}
