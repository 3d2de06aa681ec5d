// Package reconcile converges cluster and cloud resources of an environment towards its
// declared manifests using existence checks only.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/logging"
	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// AddressAPI reads and creates global static addresses.
type AddressAPI interface {
	DescribeGlobalAddress(ctx context.Context, project, name string) (gcloud.Address, error)
	CreateGlobalAddress(ctx context.Context, project, name string) error
}

// AddressRecord is the address bound to an entry point.
type AddressRecord struct {
	EntryPoint string
	// Name is the address and ingress name, <entry>-ingress.
	Name string
	IP   string
}

// Allocator gets or creates the global address of an entry point. It never deletes or
// modifies an existing address.
type Allocator struct {
	api     AddressAPI
	project string
	logger  *slog.Logger
}

// NewAllocator constructs an Allocator for project.
func NewAllocator(api AddressAPI, project string, logger *slog.Logger) *Allocator {
	return &Allocator{api: api, project: project, logger: logging.OrDiscard(logger)}
}

// Ensure returns the address of entry, creating it first when describe reports nothing.
// Any describe failure is treated as absence.
func (a *Allocator) Ensure(ctx context.Context, entry string) (AddressRecord, error) {
	name := manifest.IngressName(entry)

	addr, err := a.api.DescribeGlobalAddress(ctx, a.project, name)
	if err != nil {
		if !errors.Is(err, gcloud.ErrAddressNotFound) {
			a.logger.Warn("describe global address failed, treating it as absent", "address", name, "error", err)
		}
		a.logger.Info("creating global address", "address", name, "project", a.project)
		if err := a.api.CreateGlobalAddress(ctx, a.project, name); err != nil {
			return AddressRecord{}, fmt.Errorf("create address %s: %w", name, err)
		}
		addr, err = a.api.DescribeGlobalAddress(ctx, a.project, name)
		if err != nil {
			return AddressRecord{}, fmt.Errorf("describe address %s after create: %w", name, err)
		}
	}

	a.logger.Info("entry point address", "address", name, "ip", addr.Address)
	return AddressRecord{EntryPoint: entry, Name: name, IP: addr.Address}, nil
}
