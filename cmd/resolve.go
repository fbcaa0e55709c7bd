package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/server"
	"github.com/tranvictor/assoc/signature"
	"github.com/tranvictor/assoc/ui"
	"github.com/tranvictor/assoc/util"
	"github.com/tranvictor/assoc/util/addrbook"
)

type resolveOptions struct {
	verifyAll bool
	json      bool
	prompt    bool
	book      addrbook.AddressResolver
	now       func() time.Time
}

// verificationOutput is one entry of the --json --verify output.
type verificationOutput struct {
	Index int   `json:"index"`
	ID    int64 `json:"id"`
	*signature.Result
}

type resolveOutput struct {
	*engine.Result
	Verifications []verificationOutput `json:"verifications,omitempty"`
}

func runResolve(ctx context.Context, u ui.UI, svc server.Service, name string, opts resolveOptions) error {
	stop := u.Spinner(fmt.Sprintf("Resolving %s", name))
	res, err := svc.ResolveAssociations(ctx, name)
	stop()
	if err != nil {
		return err
	}
	self := *res.ForwardResolvedAddress
	associations := res.AssociationsData.Associations

	verified := map[int]*signature.Result{}
	if opts.verifyAll {
		stop := u.Spinner(fmt.Sprintf("Verifying %d signatures", len(associations)))
		for i, a := range associations {
			v, err := svc.VerifyAssociation(ctx, a, self)
			if err != nil {
				stop()
				return fmt.Errorf("verifying association %d: %w", a.ID, err)
			}
			verified[i] = v
		}
		stop()
	}

	if opts.json {
		out := resolveOutput{Result: res}
		for i, a := range associations {
			if v, ok := verified[i]; ok {
				out.Verifications = append(out.Verifications, verificationOutput{Index: i, ID: a.ID, Result: v})
			}
		}
		return u.JSON(out)
	}

	util.PrintResolutionDisplay(u, util.BuildResolutionDisplay(res, opts.book, verified, opts.now()))

	if opts.verifyAll || !opts.prompt || !u.Interactive() || len(associations) == 0 {
		return nil
	}
	choices := make([]string, 0, len(associations))
	for _, a := range associations {
		choices = append(choices, fmt.Sprintf("association %d (%s -> %s)", a.ID,
			assoccommon.ShortHex(a.InitiatorAddress.Hex()), assoccommon.ShortHex(a.ApproverAddress.Hex())))
	}
	idx := u.Choose(fmt.Sprintf("Verify which signature against %s?", self.Hex()), choices)
	if idx < 0 {
		return nil
	}
	// The deadline may have passed while the user was choosing.
	verifyCtx, cancel := commandContext(context.WithoutCancel(ctx))
	defer cancel()
	a := associations[idx]
	v, err := svc.VerifyAssociation(verifyCtx, a, self)
	if err != nil {
		return fmt.Errorf("verifying association %d: %w", a.ID, err)
	}
	util.PrintVerificationDisplay(u, util.BuildVerificationDisplay(a, v, opts.book))
	return nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Resolve a name and show its association document",
	Long: `Resolve <name> to an address, fetch the document its associations-url text record
points at and show whether the address takes part in any association.

With --verify every association's initiator signature is checked against the
resolved address. On a terminal you are otherwise offered to check one of them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.Root()
		e, closeNodes, err := newEngine(logger)
		if err != nil {
			return err
		}
		defer closeNodes()
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		return runResolve(ctx, ui.NewTerminalUI(), e, args[0], resolveOptions{
			verifyAll: config.VerifyAll,
			json:      config.JSONOutput,
			prompt:    config.Interactive,
			book:      addrbook.Default(),
			now:       time.Now,
		})
	},
}

func init() {
	resolveCmd.Flags().BoolVarP(&config.VerifyAll, "verify", "V", false, "Verify every association's signature against the resolved address")
	resolveCmd.Flags().BoolVarP(&config.Interactive, "prompt", "i", true, "Offer to verify one association when running on a terminal")
	AddVerificationFlags(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}
