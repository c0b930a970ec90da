package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty means unset", value: "", want: time.Time{}},
		{name: "valid date", value: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "wrong layout", value: "01/03/2024", wantErr: true},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateFlag("since", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "--since")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestValidateFormat(t *testing.T) {
	orig := flagFormat
	defer func() { flagFormat = orig }()

	for _, valid := range []string{"", "text", "json", "csv"} {
		flagFormat = valid
		assert.NoError(t, validateFormat(nil, nil))
	}

	flagFormat = "markdown"
	err := validateFormat(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
