package site

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdime/folio/internal/security"
	"github.com/pdime/folio/internal/util"
)

const (
	navContainerClass = "nav-container"
	maxPageBytes      = 16 << 20
)

// NavResult summarises a navigation fix run.
type NavResult struct {
	Updated int
	Skipped int
}

// FixNavigation rewrites the navigation block of every page in the output
// root so all pages share the current navigation.
func (g *Generator) FixNavigation() (*NavResult, error) {
	files, err := util.ListFiles(g.cfg.Paths.OutputDir, util.HasExt(".html"))
	if err != nil {
		return nil, err
	}

	result := &NavResult{}
	for _, f := range files {
		ok, err := g.fixPage(f)
		if err != nil {
			return nil, err
		}
		if ok {
			result.Updated++
			g.logger.Info("updated navigation", "file", filepath.Base(f))
		} else {
			result.Skipped++
			g.logger.Warn("no navigation container found", "file", filepath.Base(f))
		}
	}
	return result, nil
}

func (g *Generator) fixPage(path string) (bool, error) {
	data, err := security.ReadFileLimited(path, maxPageBytes)
	if err != nil {
		return false, err
	}

	nav, err := g.RenderNav(filepath.Base(path))
	if err != nil {
		return false, err
	}

	out, ok, err := ReplaceNavigation(data, nav)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", path, err)
	}
	if !ok {
		return false, nil
	}

	if err := os.WriteFile(path, out, 0o644); err != nil { // #nosec G306 - Site output is world-readable
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// ReplaceNavigation swaps the first div.nav-container in page for the nodes
// of fragment. It reports false, leaving page unchanged, when the page has no
// container.
func ReplaceNavigation(page, fragment []byte) ([]byte, bool, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse page: %w", err)
	}

	old := findNavContainer(doc)
	if old == nil {
		return page, false, nil
	}

	parent := old.Parent
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), parent)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse navigation: %w", err)
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, false, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), true, nil
}

func findNavContainer(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, navContainerClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNavContainer(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			return slices.Contains(strings.Fields(a.Val), class)
		}
	}
	return false
}
