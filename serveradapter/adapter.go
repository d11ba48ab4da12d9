// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package serveradapter defines the ServerAdapter interface: the single
// seam between the export core and a live (or simulated) OPC UA server
// (SPEC_FULL.md §4.1). The core never imports gopcua/opcua directly; it
// only ever holds a ServerAdapter.
package serveradapter

import (
	"context"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// ServerAdapter is the abstract transport the export core depends on.
// Every method is batched: input order must equal output order (§4.1's
// contract). Implementations are responsible for following browse
// continuation points transparently.
type ServerAdapter interface {
	// ReadNodeClasses returns the NodeClass of each requested node, in
	// the same order. A node the server doesn't recognize yields
	// nodeclass.Unspecified at that position, not an error.
	ReadNodeClasses(ctx context.Context, ids []nodeid.ExpandedNodeId) ([]NodeClassResult, error)

	// ReadNodeReferences returns, per requested node and in the same
	// order, every reference (forward and inverse, all reference types)
	// attached to that node.
	ReadNodeReferences(ctx context.Context, ids []nodeid.ExpandedNodeId) ([][]model.Reference, error)

	// ReadNodeAttributes returns, per requested node, a map from the
	// subset of attribute ids that request[i] actually asked for to the
	// value the server returned. A requested-but-missing attribute is
	// simply absent from the returned map (never an error by itself).
	ReadNodeAttributes(ctx context.Context, requests []AttributeRequest) ([]map[model.AttributeID]uavariant.Variant, error)

	// ReadNodeDataValue reads the Value attribute of a single node,
	// used by the namespace resolver to read the NamespaceArray
	// (ns=0;i=2255).
	ReadNodeDataValue(ctx context.Context, id nodeid.ExpandedNodeId) (uavariant.Variant, error)

	// BrowseChildren returns the forward references out of id, of every
	// reference type; the browse driver follows only the hierarchical
	// ones when it builds the per-root node id lists (§4.2).
	BrowseChildren(ctx context.Context, id nodeid.ExpandedNodeId) ([]model.Reference, error)

	SetMaxReferencesPerNode(n uint32)
	SetMaxBrowseContinuationPoints(n uint32)
	SetMaxNodesPerBrowse(n uint32)
	SetMaxNodesPerRead(n uint32)
}

// NodeClassResult pairs a requested node with the class the server
// reported (or a per-item status if the read failed for that one node).
type NodeClassResult struct {
	ID    nodeid.ExpandedNodeId
	Class nodeclass.NodeClass
	OK    bool
}

// AttributeRequest is one element of a ReadNodeAttributes call: a node
// id plus the set of attribute ids the caller needs for that node's
// class (SPEC_FULL.md §3's per-class required attribute sets).
type AttributeRequest struct {
	ID         nodeid.ExpandedNodeId
	Attributes []model.AttributeID
}
