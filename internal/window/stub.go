//go:build !windows

package window

import (
	"errors"
	"os/user"
)

// ErrUnsupported indicates the platform has no foreground-window API wired.
var ErrUnsupported = errors.New("foreground window detection is not supported on this platform")

// Provider is the non-Windows placeholder. Sessions and sync still work;
// only foreground sampling is unavailable.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Foreground() (string, string, error) {
	return "", "", ErrUnsupported
}

func (p *Provider) CurrentUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
