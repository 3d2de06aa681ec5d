package gcloud

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoActiveIdentity is returned when gcloud has no active account.
	ErrNoActiveIdentity = errors.New("no active gcloud account")
	// ErrProjectUnreachable is returned when a project is unknown or not accessible.
	ErrProjectUnreachable = errors.New("unknown project or no access")
)

// Project is the subset of `gcloud projects describe` output the reconciler uses.
type Project struct {
	ProjectID      string `json:"projectId"`
	Name           string `json:"name"`
	ProjectNumber  string `json:"projectNumber"`
	LifecycleState string `json:"lifecycleState"`
}

// ActiveAccount returns the account gcloud is currently authenticated as.
func (c *Client) ActiveAccount(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "config", "get-value", "account")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoActiveIdentity, err)
	}
	account := strings.TrimSpace(string(out))
	if account == "" || account == "(unset)" {
		return "", ErrNoActiveIdentity
	}
	return account, nil
}

// DescribeProject confirms that project exists and is readable by the active account.
func (c *Client) DescribeProject(ctx context.Context, project string) (Project, error) {
	if strings.TrimSpace(project) == "" {
		return Project{}, fmt.Errorf("%w: project id is empty", ErrProjectUnreachable)
	}
	var p Project
	if err := c.describeJSON(ctx, &p, "projects", "describe", project); err != nil {
		return Project{}, fmt.Errorf("%w: %s: %w", ErrProjectUnreachable, project, err)
	}
	if p.LifecycleState != "" && p.LifecycleState != "ACTIVE" {
		return p, fmt.Errorf("%w: %s is %s", ErrProjectUnreachable, project, p.LifecycleState)
	}
	return p, nil
}
