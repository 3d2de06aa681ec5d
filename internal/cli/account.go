package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/interact"
)

// newAccountCommand creates the "account" subcommand that switches the active gcloud account.
func newAccountCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "account [name]",
		Short: "Switch the active gcloud account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := LoggerFromContext(ctx)
			cloud := gcloud.NewClient(opts.newRunner(logger))

			accounts, err := cloud.Accounts(ctx)
			if err != nil {
				return err
			}
			var names []string
			active := ""
			for _, a := range accounts {
				names = append(names, a.Account)
				if a.Active() {
					active = a.Account
				}
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				picked, ok, err := opts.terminal.Choose(ctx, "Account", names)
				if errors.Is(err, interact.ErrNonInteractive) {
					return printAccounts(opts, accounts)
				}
				if err != nil {
					return err
				}
				if !ok {
					logger.Info("no account selected")
					return nil
				}
				name = picked
			}

			if !slices.Contains(names, name) {
				return fmt.Errorf("unknown account %q, run `gcloud auth login %s` first", name, name)
			}
			if name == active {
				logger.Info("account already active", "account", name)
				return nil
			}
			if err := cloud.SetAccount(ctx, name); err != nil {
				return err
			}
			logger.Info("activated account", "account", name)
			return nil
		},
	}
}

func printAccounts(opts *Options, accounts []gcloud.Account) error {
	for _, a := range accounts {
		marker := " "
		if a.Active() {
			marker = "*"
		}
		if _, err := fmt.Fprintf(opts.out, "%s %s\n", marker, a.Account); err != nil {
			return err
		}
	}
	return nil
}
