package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign [document-id]",
	Short: "Sign a document with a signature image",
	Long: `Embed a signature image into the latest version of an approved
document and publish the result as a new version.

The image (PNG or JPEG) is placed on the first page of the PDF. After the
signed version uploads, the document transitions to signed.

Example:
  docuflow sign 7f3c... --signature signature.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

// signatureFile is the --signature flag.
var signatureFile string

func init() {
	signCmd.Flags().StringVarP(&signatureFile, "signature", "s", "", "Path to the signature image (required)")
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	if signatureService == nil {
		return errors.New("signature service not configured")
	}
	if signatureFile == "" {
		return errors.New("--signature is required")
	}

	image, err := os.ReadFile(signatureFile)
	if err != nil {
		return fmt.Errorf("read signature image: %w", err)
	}

	doc, err := signatureService.Sign(context.Background(), args[0], image)
	if err != nil {
		return err
	}

	latest, _ := doc.LatestVersion()
	cmd.Printf("Signed %s: version %d, status %s\n", doc.DocumentID, latest.VersionNumber, doc.Status)
	return nil
}
