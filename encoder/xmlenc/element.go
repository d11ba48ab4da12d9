// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmlenc implements the XML NodeSet encoder (SPEC_FULL.md §4.8),
// grounded on the original's XMLEncoder.h tinyxml2-based imperative tree
// construction, expressed here as a small element tree rendered with
// Go's stdlib encoding/xml token writer (the idiomatic corpus-wide way
// of handling encoding/xml, confirmed elsewhere in the pack, e.g.
// ocochard-cmonit's XML parser) rather than struct-tag marshalling: the
// attribute-omission and element-ordering rules below don't map cleanly
// onto a single marshalled struct, so each node is built as an explicit
// tree and streamed token-by-token.
package xmlenc

import "encoding/xml"

// element is one XML element in the tree being built for the current
// node, or for the document frame (NamespaceUris/Aliases).
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*element
	text     string
}

func newElement(local string) *element {
	return &element{name: xml.Name{Local: local}}
}

func (e *element) setAttr(local, value string) *element {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
	return e
}

func (e *element) addChild(child *element) *element {
	e.children = append(e.children, child)
	return e
}

func (e *element) setText(text string) *element {
	e.text = text
	return e
}

// encode writes e and its subtree to enc using the token API, matching
// tinyxml2's recursive InsertNewChildElement/SetText tree walk.
func (e *element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: e.name, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, child := range e.children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: e.name})
}
