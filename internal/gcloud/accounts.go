package gcloud

import (
	"context"
	"fmt"
)

// Account is one credentialed account from `gcloud auth list`.
type Account struct {
	Account string `json:"account"`
	Status  string `json:"status"`
}

// Active reports whether gcloud currently uses the account.
func (a Account) Active() bool { return a.Status == "ACTIVE" }

// Accounts lists the accounts gcloud holds credentials for.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.describeJSON(ctx, &accounts, "auth", "list"); err != nil {
		return nil, fmt.Errorf("list gcloud accounts: %w", err)
	}
	return accounts, nil
}

// SetAccount makes account the active gcloud account.
func (c *Client) SetAccount(ctx context.Context, account string) error {
	if err := c.run(ctx, "config", "set", "account", account); err != nil {
		return fmt.Errorf("set gcloud account %s: %w", account, err)
	}
	return nil
}
