package portainer

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// MinimumServerVersion is the oldest Portainer release whose API this client targets.
const MinimumServerVersion = "2.0.0"

var serverVersionConstraint = semver.MustParse(MinimumServerVersion)

// ServerVersion extracts the Version field of a GetStatus result.
func ServerVersion(status Object) (*semver.Version, error) {
	raw, ok := status["Version"].(string)
	if !ok || raw == "" {
		return nil, ErrDecode.Msg("status reply carried no Version")
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, ErrDecode.MsgErr(fmt.Sprintf("invalid server version %q", raw), err)
	}
	return v, nil
}

// CheckServerVersion reports ErrUnsupportedServer when the server described by a
// GetStatus result is older than MinimumServerVersion.
func CheckServerVersion(status Object) error {
	v, err := ServerVersion(status)
	if err != nil {
		return err
	}
	if v.LessThan(serverVersionConstraint) {
		return ErrUnsupportedServer.Msg(fmt.Sprintf("portainer %s is older than the minimum supported %s", v, MinimumServerVersion))
	}
	return nil
}
