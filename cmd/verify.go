package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/association"
	"github.com/tranvictor/assoc/config"
	"github.com/tranvictor/assoc/engine"
	"github.com/tranvictor/assoc/ens"
	"github.com/tranvictor/assoc/networks"
	"github.com/tranvictor/assoc/signature"
	"github.com/tranvictor/assoc/ui"
	"github.com/tranvictor/assoc/util"
	"github.com/tranvictor/assoc/util/addrbook"
)

// loadDocument reads file when given, otherwise fetches url.
func loadDocument(ctx context.Context, fetcher association.Fetcher, file, url string) (*association.Document, error) {
	switch {
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("couldn't read %s: %w", file, err)
		}
		return association.Decode(content)
	case url != "":
		return fetcher.Fetch(ctx, url)
	}
	return nil, fmt.Errorf("either --file or --url is required")
}

// expectedSigner takes an address as is and resolves anything else as a
// name.
func expectedSigner(ctx context.Context, resolver ens.Resolver, s string) (common.Address, error) {
	if util.IsAddress(s) {
		return util.ParseAddress(s)
	}
	if resolver == nil {
		return common.Address{}, fmt.Errorf("%q is not an address", s)
	}
	resolved, err := resolver.Resolve(ctx, s)
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't resolve signer %s: %w", s, err)
	}
	return resolved.Address, nil
}

func runVerify(ctx context.Context, u ui.UI, v engine.Verifier, doc *association.Document, id int64, expected common.Address, json bool, book addrbook.AddressResolver) error {
	a, ok := doc.Find(id)
	if !ok {
		return fmt.Errorf("the document has no association with id %d", id)
	}
	stop := u.Spinner(fmt.Sprintf("Verifying association %d", id))
	res, err := v.Verify(ctx, a, expected)
	stop()
	if err != nil {
		return err
	}
	if json {
		return u.JSON(res)
	}
	util.PrintVerificationDisplay(u, util.BuildVerificationDisplay(a, res, book))
	return nil
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the initiator signature of one association",
	Long: `Verify that the initiatorSignature of the association with --id in a local or
remote document was produced by --signer. The signer can be an address or a name.
Contract signers are checked through ERC-1271 on the selected network.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Signer == "" {
			return fmt.Errorf("--signer is required")
		}
		logger := log.Root()
		network := networks.CurrentNetwork()
		r, err := util.EthReader(network, config.Nodes)
		if err != nil {
			return err
		}
		defer r.Close()
		resolver, err := util.NameResolver(network, r, util.ResolverOverrides{
			UniversalResolver: config.UniversalResolver,
			TextResolver:      config.TextResolver,
		}, nil, logger)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		doc, err := loadDocument(ctx, association.NewHTTPFetcher(nil, logger), config.DocumentFile, config.DocumentURL)
		if err != nil {
			return err
		}
		expected, err := expectedSigner(ctx, resolver, config.Signer)
		if err != nil {
			return err
		}
		verifier := signature.NewVerifier(r, verifierOptions(logger)...)
		return runVerify(ctx, ui.NewTerminalUI(), verifier, doc, config.AssociationID, expected, config.JSONOutput, addrbook.Default())
	},
}

func init() {
	verifyCmd.Flags().Int64Var(&config.AssociationID, "id", 0, "id of the association to verify")
	verifyCmd.Flags().StringVarP(&config.Signer, "signer", "s", "", "expected signer, an address or a name")
	AddDocumentFlags(verifyCmd)
	AddVerificationFlags(verifyCmd)
	rootCmd.AddCommand(verifyCmd)
}
