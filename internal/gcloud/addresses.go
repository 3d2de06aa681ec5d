package gcloud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tectonic-cli/tectonic/internal/execx"
)

// ErrAddressNotFound is returned when a global address does not exist.
var ErrAddressNotFound = errors.New("address not found")

// Address is the subset of `gcloud compute addresses describe` output the reconciler uses.
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// DescribeGlobalAddress reads a reserved global address.
func (c *Client) DescribeGlobalAddress(ctx context.Context, project, name string) (Address, error) {
	var addr Address
	err := c.describeJSON(ctx, &addr, "compute", "addresses", "describe", name, "--global", "--project", project)
	if err != nil {
		if isNotFound(err) {
			return Address{}, fmt.Errorf("%w: %s", ErrAddressNotFound, name)
		}
		return Address{}, fmt.Errorf("describe address %s: %w", name, err)
	}
	if strings.TrimSpace(addr.Address) == "" {
		return Address{}, fmt.Errorf("address %s has no IP assigned", name)
	}
	return addr, nil
}

// CreateGlobalAddress reserves a global address named name.
func (c *Client) CreateGlobalAddress(ctx context.Context, project, name string) error {
	if err := c.run(ctx, "compute", "addresses", "create", name, "--global", "--project", project); err != nil {
		return fmt.Errorf("create address %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var execErr *execx.Error
	if !errors.As(err, &execErr) {
		return false
	}
	return strings.Contains(strings.ToLower(execErr.Stderr), "not found")
}
