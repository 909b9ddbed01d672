package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/go-json-experiment/json"

	"github.com/porticus-lab/go-html-pptx/internal/dom"
)

const (
	svgNS = "http://www.w3.org/2000/svg"

	canvasExport = `function() { return this.toDataURL("image/png"); }`
	captureGroup = "html2pptx-capture"
)

// captureAll serialises every rendered outermost <svg> and every rendered
// <canvas> under root. Failures are stored on the node, not returned.
func captureAll(ctx context.Context, root *dom.Node) {
	root.Walk(func(n *dom.Node) bool {
		if !n.IsElement() || n.Layout == nil {
			return false
		}
		switch n.Tag {
		case "svg":
			uri, err := captureSVG(ctx, n)
			n.Capture = &dom.Capture{DataURI: uri, Err: err}
			return false
		case "canvas":
			uri, err := captureCanvas(ctx, n)
			n.Capture = &dom.Capture{DataURI: uri, Err: err}
			return false
		}
		return true
	})
	_ = runtime.ReleaseObjectGroup(captureGroup).Do(ctx)
}

func captureSVG(ctx context.Context, n *dom.Node) (string, error) {
	markup, err := cdpdom.GetOuterHTML().WithBackendNodeID(cdp.BackendNodeID(n.Handle)).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("serialising svg: %w", err)
	}
	return SVGDataURI(markup), nil
}

// SVGDataURI encodes standalone SVG markup, declaring the SVG namespace on
// the root when the inline markup omitted it.
func SVGDataURI(markup string) string {
	if !strings.Contains(markup, "xmlns=") {
		markup = strings.Replace(markup, "<svg", `<svg xmlns="`+svgNS+`"`, 1)
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(markup))
}

func captureCanvas(ctx context.Context, n *dom.Node) (string, error) {
	obj, err := cdpdom.ResolveNode().
		WithBackendNodeID(cdp.BackendNodeID(n.Handle)).
		WithObjectGroup(captureGroup).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving canvas: %w", err)
	}
	res, exc, err := runtime.CallFunctionOn(canvasExport).
		WithObjectID(obj.ObjectID).
		WithReturnByValue(true).
		Do(ctx)
	switch {
	case err != nil:
		return "", fmt.Errorf("exporting canvas: %w", err)
	case exc != nil:
		// Tainted canvases throw a SecurityError.
		return "", fmt.Errorf("exporting canvas: %w", exc)
	case res == nil:
		return "", errors.New("exporting canvas: no result")
	}
	var uri string
	if err := json.Unmarshal(res.Value, &uri); err != nil {
		return "", fmt.Errorf("exporting canvas: %w", err)
	}
	if !strings.HasPrefix(uri, "data:image/") {
		return "", errors.New("exporting canvas: empty bitmap")
	}
	return uri, nil
}
