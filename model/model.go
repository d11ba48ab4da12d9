// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package model implements NodeIntermediateModel, the in-memory,
// rewriting-ready representation of one server node produced by the
// batched attribute/reference reader and consumed by the encoder
// (SPEC_FULL.md §3, §4.5).
package model

import (
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// AttributeID identifies an OPC UA attribute. The numeric values match
// the OPC UA standard attribute identifiers so logs and error messages
// naming an attribute id are directly cross-referenceable against the
// specification.
type AttributeID uint32

const (
	AttrNodeID                     AttributeID = 1
	AttrNodeClass                  AttributeID = 2
	AttrBrowseName                 AttributeID = 3
	AttrDisplayName                AttributeID = 4
	AttrDescription                AttributeID = 5
	AttrWriteMask                  AttributeID = 6
	AttrUserWriteMask              AttributeID = 7
	AttrIsAbstract                 AttributeID = 8
	AttrSymmetric                  AttributeID = 9
	AttrInverseName                AttributeID = 10
	AttrContainsNoLoops            AttributeID = 11
	AttrEventNotifier              AttributeID = 12
	AttrValue                      AttributeID = 13
	AttrDataType                   AttributeID = 14
	AttrValueRank                  AttributeID = 15
	AttrArrayDimensions            AttributeID = 16
	AttrAccessLevel                AttributeID = 17
	AttrUserAccessLevel            AttributeID = 18
	AttrMinimumSamplingInterval    AttributeID = 19
	AttrHistorizing                AttributeID = 20
	AttrExecutable                 AttributeID = 21
	AttrUserExecutable             AttributeID = 22
	AttrDataTypeDefinition         AttributeID = 23
)

// Reference is one edge of the node's reference list: a reference type,
// a direction, and a resolved target. BrowseName/DisplayName/NodeClass
// of the target are carried along because the browse driver already has
// them from the Browse response and re-reading them per reference would
// be wasteful; the rewriting pipeline and the encoder both rely on them
// (e.g. browse-path parent synthesis uses BrowseName, §4.6 step 6).
type Reference struct {
	ReferenceType nodeid.NodeId
	Target        nodeid.ExpandedNodeId
	IsForward     bool
	TargetClass   nodeclass.NodeClass
	BrowseName    string
}

// LocalizedText mirrors the OPC UA LocalizedText structure: an optional
// locale tag plus text.
type LocalizedText struct {
	Locale string
	Text   string
}

// Node is the NodeIntermediateModel: one exportable unit, built fresh per
// batch window and discarded after encoding (SPEC_FULL.md §3 Lifecycle).
type Node struct {
	NodeID      nodeid.ExpandedNodeId
	NodeClass   nodeclass.NodeClass
	BrowseName  string
	DisplayName LocalizedText
	Description LocalizedText
	Attributes  map[AttributeID]uavariant.Variant
	References  []Reference
}

// NewNode builds an empty Node for id/class, with an initialized
// Attributes map so callers never need a nil check before writing to it.
func NewNode(id nodeid.ExpandedNodeId, class nodeclass.NodeClass) *Node {
	return &Node{
		NodeID:     id,
		NodeClass:  class,
		Attributes: make(map[AttributeID]uavariant.Variant),
	}
}

// Attr returns the attribute's variant and whether it was present. An
// absent attribute is distinct from one explicitly set to its default
// value; the encoder's default-value suppression logic (§4.8) only
// applies to attributes that ARE present.
func (n *Node) Attr(id AttributeID) (uavariant.Variant, bool) {
	v, ok := n.Attributes[id]
	return v, ok
}

// SetAttr stores an attribute value, overwriting any prior value.
func (n *Node) SetAttr(id AttributeID, v uavariant.Variant) {
	n.Attributes[id] = v
}

// ParentNodeID implements the parent resolution rule of §4.6: for Type-
// class nodes, the target of the first inverse HasSubtype reference (or
// the zero value if none — types may omit ParentNodeId); for all other
// classes, the target of the first inverse hierarchical reference.
func (n *Node) ParentNodeID() (nodeid.ExpandedNodeId, bool) {
	for _, ref := range n.References {
		if ref.IsForward {
			continue
		}
		if n.NodeClass.IsType() {
			if ref.ReferenceType.Equal(nodeclass.HasSubtype) {
				return ref.Target, true
			}
			continue
		}
		if nodeclass.IsHierarchical(ref.ReferenceType) {
			return ref.Target, true
		}
	}
	return nodeid.ExpandedNodeId{}, false
}

// HasInverseHierarchical reports whether the node already carries any
// inverse reference the parent-resolution rule would accept, used by
// the start-node guarantee and browse-path parent synthesis stages
// (§4.6 steps 5-6) to decide whether synthesis is needed at all.
func (n *Node) HasInverseHierarchical() bool {
	_, ok := n.ParentNodeID()
	return ok
}

// AddReference appends ref to the node's reference list. The rewriting
// pipeline builds new slices rather than mutating in place when it needs
// to drop references, keeping each stage a pure function of its input.
func (n *Node) AddReference(ref Reference) {
	n.References = append(n.References, ref)
}
