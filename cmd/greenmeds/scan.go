package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/greenmeds/pkg/config"
	"github.com/hazyhaar/greenmeds/pkg/ocr"
)

var scanOpts lookupFlags

// newEngine builds the OCR engine; tests replace it.
var newEngine = func(c config.OCRConfig) ocr.Engine {
	return ocr.NewTesseract(c.TesseractPath, c.Language, c.Timeout())
}

var scanCmd = &cobra.Command{
	Use:   "scan IMAGE",
	Short: "Read a medicine name from a package photo and look it up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read image")
		}
		svc, err := newService()
		if err != nil {
			return err
		}

		text := ocr.NewAdapter(newEngine(cfg.OCR)).ExtractCandidateText(cmd.Context(), img)
		if !scanOpts.json {
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted text: %s\n", text)
		}
		return runLookup(cmd, svc, text, scanOpts)
	},
}

func init() {
	scanOpts.register(scanCmd)
	rootCmd.AddCommand(scanCmd)
}
