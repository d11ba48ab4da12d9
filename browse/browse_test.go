// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/internal/testutil"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
)

func browseID(ns uint16, i uint32) nodeid.ExpandedNodeId {
	return nodeid.NewExpandedNodeId(nodeid.NewNumeric(ns, i))
}

// countingMemServer wraps a *testutil.MemServer and counts
// ReadNodeClasses calls, to pin down that BrowseAll consults
// ref.TargetClass from its parent's BrowseChildren call instead of
// re-reading every visited node's class individually.
type countingMemServer struct {
	*testutil.MemServer
	calls int
}

func (c *countingMemServer) ReadNodeClasses(ctx context.Context, ids []nodeid.ExpandedNodeId) ([]serveradapter.NodeClassResult, error) {
	c.calls++
	return c.MemServer.ReadNodeClasses(ctx, ids)
}

func TestBrowseAllUsesReferenceClassNotPerNodeRead(t *testing.T) {
	srv := testutil.NewMemServer([]string{"urn:test"})

	root := browseID(2, 1)
	child := browseID(2, 2)
	grandchild := browseID(2, 3)

	srv.AddNode(&testutil.MemNode{
		ID: root, Class: nodeclass.Object, BrowseName: "Root",
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: child, IsForward: true, TargetClass: nodeclass.Object, BrowseName: "Child"},
		},
	})
	srv.AddNode(&testutil.MemNode{
		ID: child, Class: nodeclass.Object, BrowseName: "Child",
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: grandchild, IsForward: true, TargetClass: nodeclass.Variable, BrowseName: "Grandchild"},
		},
	})
	srv.AddNode(&testutil.MemNode{ID: grandchild, Class: nodeclass.Variable, BrowseName: "Grandchild"})

	counter := &countingMemServer{MemServer: srv}

	order, err := BrowseAll(context.Background(), counter, root, nodeclass.IgnoredClasses(false), nil)
	require.NoError(t, err)
	assert.Equal(t, []nodeid.ExpandedNodeId{root, child, grandchild}, order)

	// Only root's class is unknown to the walk when it's first visited
	// (it has no parent reference to source a class from); child's and
	// grandchild's classes come from ref.TargetClass, so exactly one
	// ReadNodeClasses call is issued for the whole three-node walk.
	assert.Equal(t, 1, counter.calls)
}

func TestBrowseAllStopsAtIgnoredClass(t *testing.T) {
	srv := testutil.NewMemServer([]string{"urn:test"})

	root := browseID(2, 1)
	method := browseID(2, 2)
	unreached := browseID(2, 3)

	srv.AddNode(&testutil.MemNode{
		ID: root, Class: nodeclass.Object, BrowseName: "Root",
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: method, IsForward: true, TargetClass: nodeclass.Method, BrowseName: "DoThing"},
		},
	})
	srv.AddNode(&testutil.MemNode{
		ID: method, Class: nodeclass.Method, BrowseName: "DoThing",
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: unreached, IsForward: true, TargetClass: nodeclass.Variable, BrowseName: "Arg"},
		},
	})
	srv.AddNode(&testutil.MemNode{ID: unreached, Class: nodeclass.Variable, BrowseName: "Arg"})

	order, err := BrowseAll(context.Background(), srv, root, nodeclass.IgnoredClasses(false), nil)
	require.NoError(t, err)
	assert.Equal(t, []nodeid.ExpandedNodeId{root, method}, order)
}
