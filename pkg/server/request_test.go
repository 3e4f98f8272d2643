package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		set     bool
		wantErr bool
	}{
		{`5000`, 5000, true, false},
		{`5.5`, 5.5, true, false},
		{`"5000"`, 5000, true, false},
		{`" 4.25 "`, 4.25, true, false},
		{`""`, 0, false, false},
		{`null`, 0, false, false},
		{`"lots"`, 0, false, true},
		{`true`, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				N flexFloat `json:"n"`
			}
			err := json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.set, v.N.Set)
			assert.Equal(t, tt.want, v.N.Value)
		})
	}

	t.Run("Or", func(t *testing.T) {
		assert.Equal(t, 4.0, flexFloat{}.Or(4))
		assert.Equal(t, 7.0, flexFloat{Value: 7, Set: true}.Or(4))
	})

	t.Run("Missing", func(t *testing.T) {
		var v struct {
			N flexFloat `json:"n"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
		assert.False(t, v.N.Set)
	})
}
