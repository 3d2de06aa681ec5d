package bootstrap

import (
	"fmt"
	"io"

	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/reconcile"
	"github.com/tectonic-cli/tectonic/internal/status"
)

// Summary is the operator-facing result of a completed bootstrap.
type Summary struct {
	Environment string
	Project     string
	Addresses   []AddressSummary
	// ConfigErrorHint is set when the status report found pods stuck on configuration.
	ConfigErrorHint string
}

// AddressSummary is an entry point address and the URL wired to it, if any.
type AddressSummary struct {
	reconcile.AddressRecord
	URL    manifest.ConfiguredURL
	HasURL bool
}

// NewSummary collects records in allocation order. Missing URL wiring is not an error.
func NewSummary(layout manifest.Layout, project string, records []reconcile.AddressRecord, rep status.Report) *Summary {
	s := &Summary{Environment: layout.Environment(), Project: project, ConfigErrorHint: rep.Hint}
	for _, rec := range records {
		url, ok := layout.ConfiguredURL(rec.Name)
		s.Addresses = append(s.Addresses, AddressSummary{AddressRecord: rec, URL: url, HasURL: ok})
	}
	return s
}

// Print writes the summary to w.
func (s *Summary) Print(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Environment %s bootstrapped in project %s\n", s.Environment, s.Project)
	if len(s.Addresses) > 0 {
		printf("\nConfigure DNS records for these addresses:\n")
	}
	for _, a := range s.Addresses {
		printf("  %s\n", a.Name)
		printf("    address: %s\n", a.IP)
		if a.HasURL {
			printf("    %s in %s deployment: %s\n", a.URL.Variable, a.URL.Deployment, a.URL.Value)
		}
	}
	if s.ConfigErrorHint != "" {
		printf("\nCreateContainerConfigError: %s\n", s.ConfigErrorHint)
	}
	return err
}
