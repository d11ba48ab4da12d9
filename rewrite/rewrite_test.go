// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

func idText(ns uint16, i uint32) nodeid.ExpandedNodeId {
	return nodeid.NewExpandedNodeId(nodeid.NewNumeric(ns, i))
}

func TestFlatModeExemptsStartNode(t *testing.T) {
	root := model.NewNode(idText(2, 1), nodeclass.Object)
	root.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 2), IsForward: true, TargetClass: nodeclass.Variable})
	child := model.NewNode(idText(2, 2), nodeclass.Variable)
	child.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 1), IsForward: false, TargetClass: nodeclass.Object})

	known := map[string]bool{idText(2, 1).String(): true, idText(2, 2).String(): true}
	roots := map[string]nodeid.ExpandedNodeId{"root": idText(2, 1)}

	Pipeline([]*model.Node{root, child}, known, nodeclass.IgnoredClasses(true), roots, Options{FlatEnable: true})

	// root is a start node: its forward HasComponent to its child must
	// survive the strip, followed by the inverse Organizes the start-node
	// guarantee adds.
	if assert.Len(t, root.References, 2) {
		assert.Equal(t, idText(2, 2), root.References[0].Target)
		assert.True(t, root.References[0].IsForward)
	}

	// child is not a start node: its inverse HasComponent back to root is
	// hierarchical and must be stripped, leaving only the synthesized
	// browse-path/replacer parent link.
	assert.Len(t, child.References, 1)
	assert.False(t, child.References[0].Target.NodeId.Equal(idText(2, 1).NodeId))
}

func TestFilterFailedOrIgnoredTargets(t *testing.T) {
	n := model.NewNode(idText(2, 1), nodeclass.Object)
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 2), IsForward: true, TargetClass: nodeclass.Variable})
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 999), IsForward: true, TargetClass: nodeclass.Variable}) // not known
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 3), IsForward: true, TargetClass: nodeclass.Method})    // ignored class

	known := map[string]bool{idText(2, 1).String(): true, idText(2, 2).String(): true, idText(2, 3).String(): true}
	ignored := nodeclass.IgnoredClasses(false)

	Pipeline([]*model.Node{n}, known, ignored, nil, Options{})
	assert.Len(t, n.References, 2) // the to-2 ref plus the synthesized parent link
	assert.Equal(t, idText(2, 2), n.References[0].Target)
}

func TestTypeClassBackReferenceFilter(t *testing.T) {
	n := model.NewNode(idText(2, 10), nodeclass.ObjectType)
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasSubtype, Target: idText(0, 58), IsForward: false, TargetClass: nodeclass.ObjectType})
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 11), IsForward: false, TargetClass: nodeclass.Variable})
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 12), IsForward: true, TargetClass: nodeclass.Variable})

	known := map[string]bool{idText(2, 10).String(): true, idText(0, 58).String(): true, idText(2, 11).String(): true, idText(2, 12).String(): true}
	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(false), nil, Options{})

	for _, ref := range n.References {
		if !ref.IsForward {
			assert.True(t, ref.ReferenceType.Equal(nodeclass.HasSubtype))
		}
	}
}

func TestKEPServerExFixup(t *testing.T) {
	n := model.NewNode(idText(2, 20), nodeclass.Variable)
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasTypeDefinition, Target: nodeid.NewExpandedNodeId(nodeclass.BaseVariableType), IsForward: true, TargetClass: nodeclass.VariableType})
	known := map[string]bool{idText(2, 20).String(): true, nodeclass.BaseVariableType.String(): true, nodeclass.BaseDataVariableType.String(): true}
	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(false), nil, Options{})

	found := false
	for _, ref := range n.References {
		if ref.ReferenceType.Equal(nodeclass.HasTypeDefinition) {
			found = true
			assert.True(t, ref.Target.NodeId.Equal(nodeclass.BaseDataVariableType))
		}
	}
	assert.True(t, found)
}

func TestKEPServerExFixupSuppressedWhenAbstractAllowed(t *testing.T) {
	n := model.NewNode(idText(2, 20), nodeclass.Variable)
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasTypeDefinition, Target: nodeid.NewExpandedNodeId(nodeclass.BaseVariableType), IsForward: true, TargetClass: nodeclass.VariableType})
	known := map[string]bool{idText(2, 20).String(): true, nodeclass.BaseVariableType.String(): true}
	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(false), nil, Options{FlatAllowAbstractVar: true})

	for _, ref := range n.References {
		if ref.ReferenceType.Equal(nodeclass.HasTypeDefinition) {
			assert.True(t, ref.Target.NodeId.Equal(nodeclass.BaseVariableType))
		}
	}
}

func TestStartNodeGuaranteeSynthesizesOrganizes(t *testing.T) {
	n := model.NewNode(idText(2, 1), nodeclass.Object)
	roots := map[string]nodeid.ExpandedNodeId{"root": idText(2, 1)}
	known := map[string]bool{idText(2, 1).String(): true}

	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(false), roots, Options{})

	parent, ok := n.ParentNodeID()
	assert.True(t, ok)
	assert.True(t, parent.NodeId.Equal(nodeclass.ObjectsFolder))
}

func TestCreateMissingStartNode(t *testing.T) {
	missingRoot := idText(2, 999)
	roots := map[string]nodeid.ExpandedNodeId{"missing": missingRoot}
	known := map[string]bool{}

	synth := Pipeline(nil, known, nodeclass.IgnoredClasses(false), roots, Options{FlatEnable: true, FlatCreateMissingStart: true, FlatAllowAbstractVar: true})

	if assert.Len(t, synth, 1) {
		assert.Equal(t, nodeclass.Object, synth[0].NodeClass)
		parent, ok := synth[0].ParentNodeID()
		assert.True(t, ok)
		assert.True(t, parent.NodeId.Equal(nodeclass.ObjectsFolder))
		assert.Len(t, synth[0].References, 3) // Organizes + 2x HasComponent
	}
}

func TestBrowsePathParentSynthesis(t *testing.T) {
	n := model.NewNode(idText(2, 1), nodeclass.Variable)
	n.BrowseName = "Demo.Temperature"
	known := map[string]bool{idText(2, 1).String(): true}

	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(false), nil, Options{})

	parent, ok := n.ParentNodeID()
	assert.True(t, ok)
	assert.Equal(t, nodeid.IdentifierString, parent.Type)
	assert.Equal(t, "Demo", parent.StrID)
}

func TestFlatModeStripsHierarchical(t *testing.T) {
	n := model.NewNode(idText(2, 1), nodeclass.Variable)
	n.AddReference(model.Reference{ReferenceType: nodeclass.HasComponent, Target: idText(2, 2), IsForward: false, TargetClass: nodeclass.Object})
	known := map[string]bool{idText(2, 1).String(): true, idText(2, 2).String(): true}

	Pipeline([]*model.Node{n}, known, nodeclass.IgnoredClasses(true), nil, Options{FlatEnable: true})

	// the original HasComponent inverse ref was stripped; only the
	// synthesized browse-path/replacer parent link should remain.
	assert.Len(t, n.References, 1)
	assert.False(t, n.References[0].Target.NodeId.Equal(idText(2, 2).NodeId))
}
