// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/internal/testutil"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

func objID(ns uint16, id uint32) nodeid.ExpandedNodeId {
	return nodeid.NewExpandedNodeId(nodeid.NewNumeric(ns, id))
}

// buildSimpleServer builds a two-node hierarchy: root Object --HasComponent--> child Variable.
func buildSimpleServer(t *testing.T) (*testutil.MemServer, nodeid.ExpandedNodeId) {
	t.Helper()
	srv := testutil.NewMemServer([]string{"http://opcfoundation.org/UA/", "http://example.org/demo/"})

	root := objID(1, 1000)
	child := objID(1, 1001)

	srv.AddNode(&testutil.MemNode{
		ID:         root,
		Class:      nodeclass.Object,
		BrowseName: "Root",
		Attributes: map[model.AttributeID]uavariant.Variant{
			model.AttrBrowseName:  uavariant.NewString("Root"),
			model.AttrDisplayName: uavariant.NewString("Root"),
		},
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: child, IsForward: true, TargetClass: nodeclass.Variable, BrowseName: "Child"},
		},
	})
	srv.AddNode(&testutil.MemNode{
		ID:         child,
		Class:      nodeclass.Variable,
		BrowseName: "Child",
		Attributes: map[model.AttributeID]uavariant.Variant{
			model.AttrBrowseName:  uavariant.NewString("Child"),
			model.AttrDisplayName: uavariant.NewString("Child"),
			model.AttrDataType:    uavariant.NewString(nodeclass.BaseDataType.String()),
			model.AttrValueRank:   uavariant.NewInt64(-1),
		},
		References: []model.Reference{
			{ReferenceType: nodeclass.HasComponent, Target: root, IsForward: false, TargetClass: nodeclass.Object, BrowseName: "Root"},
		},
	})
	return srv, root
}

func TestExportNodesetFromServerBasicFlow(t *testing.T) {
	srv, root := buildSimpleServer(t)
	var buf bytes.Buffer

	opts := DefaultOptions()
	err := ExportNodesetFromServer(context.Background(), srv, map[string]nodeid.ExpandedNodeId{"root": root}, WriterSink(&buf), opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<UANodeSet")
	assert.Contains(t, out, "UAObject")
	assert.Contains(t, out, "UAVariable")
	assert.Contains(t, out, "http://example.org/demo/")
}

func TestExportNodesetFromServerEmptyRootsIsError(t *testing.T) {
	srv, _ := buildSimpleServer(t)
	var buf bytes.Buffer
	err := ExportNodesetFromServer(context.Background(), srv, map[string]nodeid.ExpandedNodeId{}, WriterSink(&buf), DefaultOptions())
	require.Error(t, err)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, SubStatusEmptyNodeIdList, exportErr.SubStatus)
}

func TestExportNodesetFromServerInvalidOptionCombination(t *testing.T) {
	srv, root := buildSimpleServer(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.FlatListOfNodes.AllowAbstractVariable = true // requires CreateMissingStartNode
	err := ExportNodesetFromServer(context.Background(), srv, map[string]nodeid.ExpandedNodeId{"root": root}, WriterSink(&buf), opts)
	require.Error(t, err)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, SubStatusInvalidOption, exportErr.SubStatus)
}

func TestExportNodesetFromServerStartNodeCrossingFails(t *testing.T) {
	srv, root := buildSimpleServer(t)
	child := objID(1, 1001)
	var buf bytes.Buffer
	roots := map[string]nodeid.ExpandedNodeId{"root": root, "child": child}
	err := ExportNodesetFromServer(context.Background(), srv, roots, WriterSink(&buf), DefaultOptions())
	require.Error(t, err)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, SubStatusInvalidOption, exportErr.SubStatus)
}

func TestExportNodesetFromServerUnknownNodeBecomesTransportError(t *testing.T) {
	srv, _ := buildSimpleServer(t)
	missing := objID(1, 9999)
	var buf bytes.Buffer
	err := ExportNodesetFromServer(context.Background(), srv, map[string]nodeid.ExpandedNodeId{"root": missing}, WriterSink(&buf), DefaultOptions())
	require.Error(t, err)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, SubStatusTransportError, exportErr.SubStatus)
}

func TestExportNodesetFromServerBatching(t *testing.T) {
	srv, root := buildSimpleServer(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.NumberOfMaxNodesToRequestData = 1 // force multiple windows
	err := ExportNodesetFromServer(context.Background(), srv, map[string]nodeid.ExpandedNodeId{"root": root}, WriterSink(&buf), opts)
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Count(out, "<UAObject ") >= 1)
	assert.True(t, strings.Count(out, "<UAVariable ") >= 1)
}

func TestExportNodesetFromServerContextCanceledBeforeStart(t *testing.T) {
	srv, root := buildSimpleServer(t)
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ExportNodesetFromServer(ctx, srv, map[string]nodeid.ExpandedNodeId{"root": root}, WriterSink(&buf), DefaultOptions())
	require.NoError(t, err) // interrupt is not an error result, §7
}
