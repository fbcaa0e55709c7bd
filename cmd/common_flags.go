package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/assoc/config"
)

// AddVerificationFlags adds the flags every command that checks signatures
// shares.
func AddVerificationFlags(c *cobra.Command) {
	c.Flags().
		BoolVarP(&config.RawMessage, "raw-message", "r", false, "Treat initiatorBytes as hex and sign over the decoded bytes instead of the literal text")
}

// AddDocumentFlags adds the flags that point a command at an association
// document without resolving a name.
func AddDocumentFlags(c *cobra.Command) {
	c.Flags().
		StringVarP(&config.DocumentFile, "file", "f", "", "Path to a local association document")
	c.Flags().
		StringVarP(&config.DocumentURL, "url", "u", "", "URL of an association document. Ignored when --file is given")
}
