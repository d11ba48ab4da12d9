// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package xmlenc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/encoder"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

const nodeSetNamespace = "http://opcfoundation.org/UA/2011/03/UANodeSet.xsd"

var _ encoder.Encoder = (*XMLEncoder)(nil)

// XMLEncoder implements encoder.Encoder, emitting OPC UA NodeSet 1.04
// XML. It accumulates an element tree in memory across Begin/AddNode*/
// End (per SPEC_FULL.md §5's resource model: the tree is owned by the
// encoder until End, and dropped without being written on failure).
type XMLEncoder struct {
	out      io.Writer
	filename string
	tmpPath  string
	f        *os.File

	root         *element
	nodeElements []*element
}

// NewToWriter builds an XMLEncoder that streams directly to w. Since a
// plain io.Writer can't be atomically replaced, the write-then-rename
// safety net of §5 only applies to NewToFile.
func NewToWriter(w io.Writer) *XMLEncoder {
	return &XMLEncoder{out: w}
}

// NewToFile builds an XMLEncoder that writes to a temporary file beside
// filename and renames it into place only on a successful End, so a
// failed export never leaves a partial file under the target name
// (SPEC_FULL.md §5).
func NewToFile(filename string) *XMLEncoder {
	return &XMLEncoder{filename: filename}
}

// Begin opens the output (a temporary file beside the target when one
// was given) and starts the UANodeSet root element. The XML declaration
// and the two comment placeholders about unsupported Value/Definition
// elements are written by End (SPEC_FULL.md §4.8).
func (e *XMLEncoder) Begin() error {
	if e.filename != "" {
		dir := filepath.Dir(e.filename)
		tmp, err := os.CreateTemp(dir, ".nodeset-*.xml.tmp")
		if err != nil {
			return fmt.Errorf("xmlenc: create temp output file: %w", err)
		}
		e.f = tmp
		e.tmpPath = tmp.Name()
		e.out = tmp
	}

	e.root = newElement("UANodeSet")
	e.root.setAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	e.root.setAttr("xmlns:uax", "http://opcfoundation.org/UA/2008/02/Types.xsd")
	e.root.setAttr("xmlns:xsd", "http://www.w3.org/2001/XMLSchema")
	e.root.setAttr("xmlns", nodeSetNamespace)
	return nil
}

// AddNamespaces adds the <NamespaceUris> element, which must be the
// first child of <UANodeSet> when present (§4.8).
func (e *XMLEncoder) AddNamespaces(uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	nsElem := newElement("NamespaceUris")
	for _, uri := range uris {
		nsElem.addChild(newElement("Uri").setText(uri))
	}
	e.root.children = append([]*element{nsElem}, e.root.children...)
	return nil
}

// AddAliases adds the <Aliases> element, inserted after NamespaceUris if
// present, or as the first child otherwise (§4.8). aliases maps alias
// name to the NodeId's canonical text.
func (e *XMLEncoder) AddAliases(aliases map[string]string) error {
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	aliasElem := newElement("Aliases")
	for _, name := range names {
		aliasElem.addChild(newElement("Alias").setAttr("Alias", name).setText(aliases[name]))
	}

	insertAt := 0
	if len(e.root.children) > 0 && e.root.children[0].name.Local == "NamespaceUris" {
		insertAt = 1
	}
	e.root.children = append(e.root.children[:insertAt], append([]*element{aliasElem}, e.root.children[insertAt:]...)...)
	return nil
}

func (e *XMLEncoder) AddNodeObject(n *model.Node) error {
	el, err := e.buildInstanceElement("UAObject", n)
	if err != nil {
		return err
	}
	if v, ok := n.Attr(model.AttrEventNotifier); ok && !isDefaultEventNotifier(v) {
		i, _ := v.AsInt64()
		el.setAttr("EventNotifier", fmt.Sprintf("%d", i))
	}
	e.appendNode(el)
	return nil
}

func (e *XMLEncoder) AddNodeVariable(n *model.Node) error {
	el, err := e.buildInstanceElement("UAVariable", n)
	if err != nil {
		return err
	}
	e.applyVariableAttrs(el, n)
	e.appendNode(el)
	return nil
}

func (e *XMLEncoder) AddNodeObjectType(n *model.Node) error {
	el, err := e.buildTypeElement("UAObjectType", n)
	if err != nil {
		return err
	}
	e.appendNode(el)
	return nil
}

func (e *XMLEncoder) AddNodeVariableType(n *model.Node) error {
	el, err := e.buildTypeElement("UAVariableType", n)
	if err != nil {
		return err
	}
	e.applyVariableAttrs(el, n)
	e.appendNode(el)
	return nil
}

func (e *XMLEncoder) AddNodeReferenceType(n *model.Node) error {
	el, err := e.buildTypeElement("UAReferenceType", n)
	if err != nil {
		return err
	}
	if v, ok := n.Attr(model.AttrSymmetric); ok && !isDefaultSymmetric(v) {
		b, _ := v.AsBool()
		el.setAttr("Symmetric", fmt.Sprintf("%t", b))
	}
	if v, ok := n.Attr(model.AttrInverseName); ok {
		if s, ok := v.AsString(); ok && s != "" {
			el.addChild(newElement("InverseName").setText(s))
		}
	}
	e.appendNode(el)
	return nil
}

func (e *XMLEncoder) AddNodeDataType(n *model.Node) error {
	el, err := e.buildTypeElement("UADataType", n)
	if err != nil {
		return err
	}
	e.appendNode(el)
	return nil
}

// appendNode records el for emission inside <UANodeSet> after
// NamespaceUris/Aliases, in discovery order (§4.8).
func (e *XMLEncoder) appendNode(el *element) {
	e.nodeElements = append(e.nodeElements, el)
}

// buildInstanceElement implements AddNodeUAInstance from the original:
// required NodeId/BrowseName attributes, optional WriteMask/
// UserWriteMask/ParentNodeId, optional DisplayName/Description
// elements, and the required (possibly empty) References element.
func (e *XMLEncoder) buildInstanceElement(tag string, n *model.Node) (*element, error) {
	if n.NodeID.NodeId.IsNull() {
		return nil, fmt.Errorf("xmlenc: node missing required NodeId attribute")
	}
	if n.BrowseName == "" {
		return nil, fmt.Errorf("xmlenc: node %s missing required BrowseName attribute", n.NodeID)
	}
	el := newElement(tag)
	el.setAttr("NodeId", n.NodeID.String())
	el.setAttr("BrowseName", n.BrowseName)

	if v, ok := n.Attr(model.AttrWriteMask); ok && !isDefaultWriteMask(v) {
		i, _ := v.AsInt64()
		el.setAttr("WriteMask", fmt.Sprintf("%d", i))
	}
	if v, ok := n.Attr(model.AttrUserWriteMask); ok && !isDefaultWriteMask(v) {
		i, _ := v.AsInt64()
		el.setAttr("UserWriteMask", fmt.Sprintf("%d", i))
	}
	if parent, ok := n.ParentNodeID(); ok {
		el.setAttr("ParentNodeId", parent.String())
	}

	if n.DisplayName.Text != "" {
		dn := newElement("DisplayName").setText(n.DisplayName.Text)
		if n.DisplayName.Locale != "" {
			dn.setAttr("Locale", n.DisplayName.Locale)
		}
		el.addChild(dn)
	}
	if n.Description.Text != "" {
		desc := newElement("Description").setText(n.Description.Text)
		if n.Description.Locale != "" {
			desc.setAttr("Locale", n.Description.Locale)
		}
		el.addChild(desc)
	}

	for _, ref := range n.References {
		if ref.ReferenceType.IsNull() || ref.Target.NodeId.IsNull() {
			return nil, fmt.Errorf("xmlenc: node %s has a reference with an empty ReferenceType or target", n.NodeID)
		}
	}
	el.addChild(e.buildReferencesElement(n))
	return el, nil
}

// buildTypeElement implements AddNodeUAType: like buildInstanceElement,
// but with an optional IsAbstract attribute and no ParentNodeId (Type
// nodes never carry one, §4.8).
func (e *XMLEncoder) buildTypeElement(tag string, n *model.Node) (*element, error) {
	el, err := e.buildInstanceElement(tag, n)
	if err != nil {
		return nil, err
	}
	removeAttr(el, "ParentNodeId")
	if v, ok := n.Attr(model.AttrIsAbstract); ok && !isDefaultIsAbstract(v) {
		b, _ := v.AsBool()
		el.setAttr("IsAbstract", fmt.Sprintf("%t", b))
	}
	return el, nil
}

func removeAttr(el *element, name string) {
	out := el.attrs[:0]
	for _, a := range el.attrs {
		if a.Name.Local != name {
			out = append(out, a)
		}
	}
	el.attrs = out
}

// applyVariableAttrs adds the Variable/VariableType-specific attributes:
// DataType, ValueRank, ArrayDimensions, AccessLevel, UserAccessLevel,
// MinimumSamplingInterval, Historizing — each suppressed at its default
// per §4.8's table.
func (e *XMLEncoder) applyVariableAttrs(el *element, n *model.Node) {
	if v, ok := n.Attr(model.AttrDataType); ok {
		if s, ok := v.AsString(); ok {
			if parsed, err := nodeid.ParseNodeId(s); err == nil {
				if !parsed.Equal(nodeclass.BaseDataType) {
					if name, ok := nodeclass.AliasNameFor(parsed); ok {
						el.setAttr("DataType", name)
					} else {
						el.setAttr("DataType", parsed.String())
					}
				}
			} else {
				el.setAttr("DataType", s)
			}
		}
	}
	if v, ok := n.Attr(model.AttrValueRank); ok && !isDefaultValueRank(v) {
		i, _ := v.AsInt64()
		el.setAttr("ValueRank", fmt.Sprintf("%d", i))
	}
	if v, ok := n.Attr(model.AttrArrayDimensions); ok && !isDefaultArrayDimensions(v) {
		el.setAttr("ArrayDimensions", v.Text())
	}
	if v, ok := n.Attr(model.AttrAccessLevel); ok && !isDefaultAccessLevel(v) {
		i, _ := v.AsInt64()
		el.setAttr("AccessLevel", fmt.Sprintf("%d", i))
	}
	if v, ok := n.Attr(model.AttrUserAccessLevel); ok && !isDefaultAccessLevel(v) {
		i, _ := v.AsInt64()
		el.setAttr("UserAccessLevel", fmt.Sprintf("%d", i))
	}
	if v, ok := n.Attr(model.AttrMinimumSamplingInterval); ok && !isDefaultMinimumSamplingInterval(v) {
		f, _ := v.AsFloat64()
		el.setAttr("MinimumSamplingInterval", fmt.Sprintf("%g", f))
	}
	if v, ok := n.Attr(model.AttrHistorizing); ok && !isDefaultHistorizing(v) {
		b, _ := v.AsBool()
		el.setAttr("Historizing", fmt.Sprintf("%t", b))
	}
	// <Value> emission is out of scope; see the comment placeholder
	// emitted once by End (writeUnsupportedElementComments).
}

// buildReferencesElement builds the required (possibly empty)
// <References> element, one <Reference> child per rewritten reference
// (§4.8's reference emission rules).
func (e *XMLEncoder) buildReferencesElement(n *model.Node) *element {
	refsElem := newElement("References")
	for _, ref := range n.References {
		if ref.ReferenceType.IsNull() {
			continue
		}
		refElem := newElement("Reference")
		if name, ok := nodeclass.AliasNameFor(ref.ReferenceType); ok {
			refElem.setAttr("ReferenceType", name)
		} else {
			refElem.setAttr("ReferenceType", ref.ReferenceType.String())
		}
		if !ref.IsForward {
			refElem.setAttr("IsForward", "false")
		}
		refElem.setText(ref.Target.String())
		refsElem.addChild(refElem)
	}
	return refsElem
}

// End finalizes the document: appends all recorded node elements after
// NamespaceUris/Aliases, writes the XML declaration and tree, and — for
// file-backed encoders — renames the temp file into place. On any write
// error the temp file is removed rather than renamed (§5).
func (e *XMLEncoder) End() error {
	e.root.children = append(e.root.children, e.nodeElements...)

	enc := xml.NewEncoder(e.out)
	enc.Indent("", "  ")

	if _, err := io.WriteString(e.out, xml.Header); err != nil {
		return e.fail(err)
	}
	if err := e.writeUnsupportedElementComments(); err != nil {
		return e.fail(err)
	}
	if err := e.root.encode(enc); err != nil {
		return e.fail(err)
	}
	if err := enc.Flush(); err != nil {
		return e.fail(err)
	}

	if e.f != nil {
		if err := e.f.Close(); err != nil {
			return fmt.Errorf("xmlenc: close temp output file: %w", err)
		}
		if err := os.Rename(e.tmpPath, e.filename); err != nil {
			return fmt.Errorf("xmlenc: rename temp output file into place: %w", err)
		}
	}
	return nil
}

// writeUnsupportedElementComments emits the two comment placeholders the
// original's XMLEncoder::Begin writes via InsertNewComment, noting that
// <Value> and <Definition> are not currently emitted (§4.8, §9).
func (e *XMLEncoder) writeUnsupportedElementComments() error {
	_, err := io.WriteString(e.out,
		"<!-- Value elements are currently not supported -->\n"+
			"<!-- DataType Definition elements are currently not supported -->\n")
	return err
}

// fail removes the temp output file (if any) without renaming it into
// place, so a failed export never leaves a partial file under the
// target name.
func (e *XMLEncoder) fail(err error) error {
	if e.f != nil {
		_ = e.f.Close()
		_ = os.Remove(e.tmpPath)
	}
	return fmt.Errorf("xmlenc: %w", err)
}
