package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissing = errors.New("missing required env")

type requirement struct {
	env string
	set bool
}

func check(reqs ...requirement) error {
	var missing []string
	for _, r := range reqs {
		if !r.set {
			missing = append(missing, r.env)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}

// ValidateClient reports the settings foodcli cannot run without.
func (c Config) ValidateClient() error {
	return check(
		requirement{"API_BASE_URL", c.APIBaseURL != ""},
		requirement{"CREDENTIALS_PATH", c.CredentialsPath != ""},
	)
}

// ValidateDevBackend reports the settings devbackend cannot run without.
func (c Config) ValidateDevBackend() error {
	return check(
		requirement{"JWT_SECRET", len(c.JWTSecret) > 0},
		requirement{"DEV_ADDR", c.DevAddr != ""},
	)
}
