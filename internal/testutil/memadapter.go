// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides an in-memory ServerAdapter implementation
// for tests, playing the role the teacher's testdata.MockServer/
// MockClient pair plays for the OPC UA receiver: a fully scriptable
// stand-in for a live server that needs no network and no real OPC UA
// stack.
package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// compile-time assertion that MemServer satisfies serveradapter.ServerAdapter.
var _ serveradapter.ServerAdapter = (*MemServer)(nil)

// MemNode is one node of an in-memory server's address space.
type MemNode struct {
	ID         nodeid.ExpandedNodeId
	Class      nodeclass.NodeClass
	BrowseName string
	Attributes map[model.AttributeID]uavariant.Variant
	References []model.Reference
}

// MemServer is a fully in-memory OPC UA address space, keyed by the
// canonical text form of each node's ExpandedNodeId. It implements
// serveradapter.ServerAdapter directly (no network, no continuation-
// point pagination beyond what tests explicitly exercise).
type MemServer struct {
	nodes        map[string]*MemNode
	namespaceURI []string
}

// NewMemServer builds an empty in-memory server. namespaces is the
// NamespaceArray content INCLUDING index 0 (the standard UA namespace),
// matching what a real server's ns=0;i=2255 read returns.
func NewMemServer(namespaces []string) *MemServer {
	return &MemServer{
		nodes:        make(map[string]*MemNode),
		namespaceURI: namespaces,
	}
}

// AddNode registers n, overwriting any existing node with the same id.
func (s *MemServer) AddNode(n *MemNode) {
	if n.Attributes == nil {
		n.Attributes = make(map[model.AttributeID]uavariant.Variant)
	}
	s.nodes[n.ID.String()] = n
}

// Node returns the registered node for id, if any.
func (s *MemServer) Node(id nodeid.ExpandedNodeId) (*MemNode, bool) {
	n, ok := s.nodes[id.String()]
	return n, ok
}

func (s *MemServer) ReadNodeClasses(_ context.Context, ids []nodeid.ExpandedNodeId) ([]serveradapter.NodeClassResult, error) {
	out := make([]serveradapter.NodeClassResult, len(ids))
	for i, id := range ids {
		if n, ok := s.nodes[id.String()]; ok {
			out[i] = serveradapter.NodeClassResult{ID: id, Class: n.Class, OK: true}
		} else {
			out[i] = serveradapter.NodeClassResult{ID: id, OK: false}
		}
	}
	return out, nil
}

func (s *MemServer) ReadNodeReferences(_ context.Context, ids []nodeid.ExpandedNodeId) ([][]model.Reference, error) {
	out := make([][]model.Reference, len(ids))
	for i, id := range ids {
		if n, ok := s.nodes[id.String()]; ok {
			cp := make([]model.Reference, len(n.References))
			copy(cp, n.References)
			out[i] = cp
		}
	}
	return out, nil
}

func (s *MemServer) ReadNodeAttributes(_ context.Context, requests []serveradapter.AttributeRequest) ([]map[model.AttributeID]uavariant.Variant, error) {
	out := make([]map[model.AttributeID]uavariant.Variant, len(requests))
	for i, req := range requests {
		result := make(map[model.AttributeID]uavariant.Variant)
		n, ok := s.nodes[req.ID.String()]
		if !ok {
			out[i] = result
			continue
		}
		for _, attrID := range req.Attributes {
			if v, ok := n.Attributes[attrID]; ok {
				result[attrID] = v
			}
		}
		out[i] = result
	}
	return out, nil
}

func (s *MemServer) ReadNodeDataValue(_ context.Context, id nodeid.ExpandedNodeId) (uavariant.Variant, error) {
	if id.Namespace == 0 && id.Type == nodeid.IdentifierNumeric && id.Numeric == 2255 {
		items := make([]uavariant.Variant, 0, len(s.namespaceURI))
		for _, uri := range s.namespaceURI {
			items = append(items, uavariant.NewString(uri))
		}
		return uavariant.NewArray(items), nil
	}
	n, ok := s.nodes[id.String()]
	if !ok {
		return uavariant.Variant{}, fmt.Errorf("testutil: unknown node %s", id)
	}
	if v, ok := n.Attributes[model.AttrValue]; ok {
		return v, nil
	}
	return uavariant.Variant{}, nil
}

func (s *MemServer) BrowseChildren(_ context.Context, id nodeid.ExpandedNodeId) ([]model.Reference, error) {
	n, ok := s.nodes[id.String()]
	if !ok {
		return nil, fmt.Errorf("testutil: unknown node %s", id)
	}
	var out []model.Reference
	for _, ref := range n.References {
		if ref.IsForward {
			out = append(out, ref)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BrowseName < out[j].BrowseName })
	return out, nil
}

func (s *MemServer) SetMaxReferencesPerNode(uint32)       {}
func (s *MemServer) SetMaxBrowseContinuationPoints(uint32) {}
func (s *MemServer) SetMaxNodesPerBrowse(uint32)           {}
func (s *MemServer) SetMaxNodesPerRead(uint32)             {}
