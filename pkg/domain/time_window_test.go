package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "compass/pkg/domain-errors"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeWindow
		wantErr bool
	}{
		{name: "short", input: "short", want: TimeWindowShort},
		{name: "long", input: "long", want: TimeWindowLong},
		{name: "empty", input: "", wantErr: true},
		{name: "duration-style value", input: "7d", wantErr: true},
		{name: "case matters", input: "Short", wantErr: true},
		{name: "padding matters", input: " short", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeWindow(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domainerrors.HasCode(err, domainerrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeWindows(t *testing.T) {
	assert.Equal(t, []TimeWindow{TimeWindowShort, TimeWindowLong}, TimeWindows())

	for _, w := range TimeWindows() {
		assert.NoError(t, w.Validate())
	}
}
