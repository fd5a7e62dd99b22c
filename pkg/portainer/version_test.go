package portainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		status  Object
		wantErr error
	}{
		{name: "current release", status: Object{"Version": "2.19.4"}},
		{name: "minimum release", status: Object{"Version": "2.0.0"}},
		{name: "v prefix", status: Object{"Version": "v2.21.0"}},
		{name: "too old", status: Object{"Version": "1.24.2"}, wantErr: ErrUnsupportedServer},
		{name: "missing version", status: Object{"InstanceID": "x"}, wantErr: ErrDecode},
		{name: "version is not a string", status: Object{"Version": 2}, wantErr: ErrDecode},
		{name: "garbage version", status: Object{"Version": "latest"}, wantErr: ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckServerVersion(tt.status)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServerVersion(t *testing.T) {
	v, err := ServerVersion(Object{"Version": "2.19.4"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Major())
	assert.Equal(t, uint64(19), v.Minor())
	assert.Equal(t, uint64(4), v.Patch())
}
