// Package workspace locates the tectonic deployment directory and derives paths inside it.
//
// Commands never change the process working directory. Every component receives a
// Workspace value and builds absolute paths from it.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the deployment directory inside a project checkout.
	DirName = "tectonic"

	environmentsDir = "environments"
	provisioningDir = "provisioning"
)

// ErrNotFound is returned when no deployment directory exists at or above the start directory.
var ErrNotFound = errors.New("tectonic directory not found")

// Workspace is a located deployment directory containing environments/ and provisioning/.
type Workspace struct {
	// Root is the absolute path of the deployment directory.
	Root string
}

// Locate walks up from start looking for a deployment directory. A directory qualifies when
// it contains tectonic/environments and tectonic/provisioning, or is itself such a directory.
func Locate(start string) (Workspace, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve %q: %w", start, err)
	}

	for {
		if isDeploymentDir(dir) {
			return Workspace{Root: dir}, nil
		}
		candidate := filepath.Join(dir, DirName)
		if isDeploymentDir(candidate) {
			return Workspace{Root: candidate}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Workspace{}, fmt.Errorf("%w (searched upwards from %s)", ErrNotFound, start)
		}
		dir = parent
	}
}

// EnvironmentsDir returns the directory holding one subdirectory per environment.
func (w Workspace) EnvironmentsDir() string {
	return filepath.Join(w.Root, environmentsDir)
}

// EnvironmentDir returns the directory of a single environment.
func (w Workspace) EnvironmentDir(environment string) string {
	return filepath.Join(w.Root, environmentsDir, environment)
}

// ProvisioningDir returns the terraform root module directory.
func (w Workspace) ProvisioningDir() string {
	return filepath.Join(w.Root, provisioningDir)
}

// DataDir returns the data-tier manifest directory of an environment.
func (w Workspace) DataDir(environment string) string {
	return filepath.Join(w.EnvironmentDir(environment), "data")
}

// ServicesDir returns the service-tier manifest directory of an environment.
func (w Workspace) ServicesDir(environment string) string {
	return filepath.Join(w.EnvironmentDir(environment), "services")
}

func isDeploymentDir(dir string) bool {
	return isDir(filepath.Join(dir, environmentsDir)) && isDir(filepath.Join(dir, provisioningDir))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
