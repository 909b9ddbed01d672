package main

import (
	"fmt"

	"github.com/spf13/cobra"

	htmlpptx "github.com/porticus-lab/go-html-pptx"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.html|url>",
	Short: "Convert an HTML document to a .pptx deck",
	Long: `Render an HTML file or web page and write it as a PowerPoint deck.

Example:
  html2pptx convert slides.html
  html2pptx convert -o talk.pptx https://example.com/slides`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "Output file (default: "+htmlpptx.DefaultFilename+")")
}

func runConvert(cmd *cobra.Command, args []string) error {
	c, cfg, logger, err := newConverter(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	path, err := deckPath(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	src := args[0]
	var res *htmlpptx.Result
	if isURL(src) {
		res, err = c.ConvertURL(ctx, src)
	} else {
		res, err = c.ConvertFile(ctx, src)
	}
	if err != nil {
		return err
	}

	if err := res.WriteToFile(path, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("deck written",
		"path", path,
		"slides", res.Slides(),
		"elements", res.Elements(),
		"skipped", res.Skipped(),
		"bytes", res.Len(),
	)
	return nil
}
