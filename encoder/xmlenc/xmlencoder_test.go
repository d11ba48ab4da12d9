// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package xmlenc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

func TestEncoderBasicFlow(t *testing.T) {
	var buf bytes.Buffer
	enc := NewToWriter(&buf)
	require.NoError(t, enc.Begin())
	require.NoError(t, enc.AddNamespaces([]string{"http://example.org/UA/"}))
	require.NoError(t, enc.AddAliases(map[string]string{"HasComponent": "i=47"}))

	n := model.NewNode(nodeid.NewExpandedNodeId(nodeid.NewNumeric(2, 1)), nodeclass.Object)
	n.BrowseName = "Demo"
	n.DisplayName = model.LocalizedText{Text: "Demo"}
	n.AddReference(model.Reference{ReferenceType: nodeclass.Organizes, Target: nodeid.NewExpandedNodeId(nodeclass.ObjectsFolder), IsForward: false})
	require.NoError(t, enc.AddNodeObject(n))

	require.NoError(t, enc.End())

	out := buf.String()
	assert.Contains(t, out, "<UANodeSet")
	assert.Contains(t, out, "<NamespaceUris>")
	assert.Contains(t, out, "<Aliases>")
	assert.Contains(t, out, "UAObject")
	assert.Contains(t, out, `NodeId="ns=2;i=1"`)
	assert.Contains(t, out, `BrowseName="Demo"`)
	assert.Contains(t, out, "Value elements are currently not supported")
}

func TestEncoderRequiredAttributesMissing(t *testing.T) {
	var buf bytes.Buffer
	enc := NewToWriter(&buf)
	require.NoError(t, enc.Begin())

	n := model.NewNode(nodeid.ExpandedNodeId{}, nodeclass.Object)
	err := enc.AddNodeObject(n)
	assert.Error(t, err)
}

func TestDefaultValueSuppression(t *testing.T) {
	var buf bytes.Buffer
	enc := NewToWriter(&buf)
	require.NoError(t, enc.Begin())

	n := model.NewNode(nodeid.NewExpandedNodeId(nodeid.NewNumeric(2, 5)), nodeclass.Variable)
	n.BrowseName = "Value"
	n.SetAttr(model.AttrValueRank, uavariant.NewInt64(-1))  // default, suppressed
	n.SetAttr(model.AttrAccessLevel, uavariant.NewInt64(1)) // default, suppressed
	n.SetAttr(model.AttrHistorizing, uavariant.NewBool(true))  // non-default, emitted
	require.NoError(t, enc.AddNodeVariable(n))
	require.NoError(t, enc.End())

	out := buf.String()
	assert.NotContains(t, out, "ValueRank")
	assert.NotContains(t, out, "AccessLevel")
	assert.Contains(t, out, `Historizing="true"`)
}

func TestTypeNodeHasNoParentNodeId(t *testing.T) {
	var buf bytes.Buffer
	enc := NewToWriter(&buf)
	require.NoError(t, enc.Begin())

	n := model.NewNode(nodeid.NewExpandedNodeId(nodeid.NewNumeric(2, 100)), nodeclass.ObjectType)
	n.BrowseName = "MyType"
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasSubtype, Target: nodeid.NewExpandedNodeId(nodeclass.BaseObjectType), IsForward: false})
	require.NoError(t, enc.AddNodeObjectType(n))
	require.NoError(t, enc.End())

	out := buf.String()
	assert.NotContains(t, out, "ParentNodeId")
}
