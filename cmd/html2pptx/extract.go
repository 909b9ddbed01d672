package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/porticus-lab/go-html-pptx/internal/scene"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.html|url>",
	Short: "Print the extracted slide scene as JSON",
	Long: `Render an HTML document and print the positioned elements of every
slide, in slide inches, without building a deck.

Example:
  html2pptx extract slides.html
  html2pptx extract -o scene.json slides.html`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", "", "Write JSON to file (default: stdout)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	c, _, logger, err := newConverter(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	src := args[0]
	var d *scene.Deck
	if isURL(src) {
		d, err = c.ExtractURL(ctx, src)
	} else {
		d, err = c.ExtractFile(ctx, src)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeScene(w, d); err != nil {
		return err
	}
	logger.Debug("scene extracted", "slides", len(d.Slides), "elements", d.ElementCount())
	return nil
}

// writeScene encodes d as indented JSON.
func writeScene(w io.Writer, d *scene.Deck) error {
	if err := json.MarshalWrite(w, d, jsontext.WithIndent("  "), json.Deterministic(true)); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
