package backend

import (
	"encoding/xml"
	"fmt"

	"github.com/gogpu/ggsnap/view"
)

// Root container kinds.
const (
	KindContainer = "container"
	KindCompose   = "compose"
)

// RootDocument is the synthetic layout document a session inflates. It
// declares a single root container at view.RootID:
//
//	<root id="ggsnap_root" kind="compose" width="match_parent" height="wrap_content"></root>
type RootDocument struct {
	XMLName xml.Name        `xml:"root"`
	ID      string          `xml:"id,attr"`
	Kind    string          `xml:"kind,attr"`
	Width   view.SizePolicy `xml:"width,attr"`
	Height  view.SizePolicy `xml:"height,attr"`
}

// NewRootDocument returns the document for a root container. Axes the mode
// shrinks wrap their content; every other axis matches the surface.
func NewRootDocument(composable bool, mode RenderingMode) RootDocument {
	d := RootDocument{ID: view.RootID, Kind: KindContainer}
	if composable {
		d.Kind = KindCompose
	}
	if mode.Horizontal == SizeShrink {
		d.Width = view.WrapContent
	}
	if mode.Vertical == SizeShrink {
		d.Height = view.WrapContent
	}
	return d
}

// Composable reports whether the root hosts a composition.
func (d RootDocument) Composable() bool { return d.Kind == KindCompose }

// Markup encodes the document.
func (d RootDocument) Markup() ([]byte, error) {
	return xml.Marshal(d)
}

// ParseRootDocument decodes and validates markup produced by Markup.
func ParseRootDocument(data []byte) (RootDocument, error) {
	var d RootDocument
	if err := xml.Unmarshal(data, &d); err != nil {
		return RootDocument{}, fmt.Errorf("backend: parse root document: %w", err)
	}
	if d.ID != view.RootID {
		return RootDocument{}, fmt.Errorf("backend: root document id %q, want %q", d.ID, view.RootID)
	}
	switch d.Kind {
	case KindContainer, KindCompose:
	default:
		return RootDocument{}, fmt.Errorf("backend: unknown root kind %q", d.Kind)
	}
	return d, nil
}

// inflate builds the root container the document declares.
func (d RootDocument) inflate() *view.Root {
	return view.NewRoot(d.Composable(), d.Width, d.Height)
}
