// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package rewrite implements the reference rewriting pipeline
// (SPEC_FULL.md §4.6), applied to one batch window of NodeIntermediateModel
// nodes after their classes, attributes and references have been read.
//
// The six steps run in order and each builds a new reference slice per
// node rather than mutating the adapter's original response in place,
// keeping every step a pure function of its input (SPEC_FULL.md §9).
package rewrite

import (
	"strings"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

// Options configures the rewriting pipeline, mirroring the
// flat_list_of_nodes knobs and the parent start-node replacer of
// SPEC_FULL.md §4.7.
type Options struct {
	FlatEnable             bool
	FlatCreateMissingStart bool
	FlatAllowAbstractVar   bool
	ParentStartNodeReplacer nodeid.ExpandedNodeId
}

// Pipeline runs all six rewriting steps over nodes, given the set of all
// node ids known to exist in the current export (across every window
// collected so far, used by the failed/ignored-target filter) and the
// set of root (starting) node ids being exported this run.
//
// nodes is mutated in place (each Node's References field is replaced);
// newly synthesized start nodes are returned as additional Node values
// the caller must also encode.
func Pipeline(
	nodes []*model.Node,
	knownIDs map[string]bool,
	ignoredClasses map[nodeclass.NodeClass]bool,
	roots map[string]nodeid.ExpandedNodeId,
	opts Options,
) []*model.Node {
	var synthesized []*model.Node

	for _, n := range nodes {
		n.References = filterFailedOrIgnoredTargets(n.References, knownIDs, ignoredClasses)
	}

	for _, n := range nodes {
		if n.NodeClass.IsType() {
			n.References = filterTypeClassBackReferences(n.References)
		}
	}

	for _, n := range nodes {
		if n.NodeClass == nodeclass.Variable || n.NodeClass == nodeclass.VariableType {
			n.References = fixupKEPServerExVariableType(n.References, opts.FlatAllowAbstractVar)
		}
	}

	if opts.FlatEnable {
		startIDs := make(map[string]bool, len(roots))
		for _, rootID := range roots {
			startIDs[rootID.String()] = true
		}
		for _, n := range nodes {
			if startIDs[n.NodeID.String()] {
				continue
			}
			n.References = stripHierarchical(n.References)
		}
	}

	byID := make(map[string]*model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID.String()] = n
	}

	replacer := opts.ParentStartNodeReplacer
	if replacer.NodeId.IsNull() {
		replacer = nodeid.NewExpandedNodeId(nodeclass.ObjectsFolder)
	}

	for rootKey, rootID := range roots {
		n, exists := byID[rootID.String()]
		if exists {
			if !n.HasInverseHierarchical() {
				n.AddReference(model.Reference{
					ReferenceType: nodeclass.Organizes,
					Target:        replacer,
					IsForward:     false,
				})
			}
			continue
		}
		if knownIDs[rootID.String()] {
			// the root exists on the server; it belongs to another window.
			continue
		}
		if !opts.FlatCreateMissingStart {
			continue
		}
		synth := model.NewNode(rootID, nodeclass.Object)
		synth.BrowseName = rootKey
		synth.AddReference(model.Reference{
			ReferenceType: nodeclass.Organizes,
			Target:        replacer,
			IsForward:     false,
		})
		if opts.FlatAllowAbstractVar {
			synth.AddReference(model.Reference{
				ReferenceType: nodeclass.HasComponent,
				Target:        nodeid.NewExpandedNodeId(nodeclass.BaseDataType),
				IsForward:     false,
			})
			synth.AddReference(model.Reference{
				ReferenceType: nodeclass.HasComponent,
				Target:        nodeid.NewExpandedNodeId(nodeclass.BaseObjectType),
				IsForward:     false,
			})
		}
		synthesized = append(synthesized, synth)
		byID[rootID.String()] = synth
	}

	all := append(append([]*model.Node{}, nodes...), synthesized...)
	for _, n := range all {
		if n.NodeClass.IsType() || n.HasInverseHierarchical() {
			continue
		}
		n.AddReference(model.Reference{
			ReferenceType: browsePathParentReferenceType(n.BrowseName),
			Target:        browsePathParentTarget(n, replacer),
			IsForward:     false,
		})
	}

	return synthesized
}

// filterFailedOrIgnoredTargets drops any reference whose target is not
// among the known node ids of the current export, or whose target class
// falls in the ignored set (§4.6 step 1). Inverse references to a target
// outside the export are also dropped, since the standalone document
// cannot resolve them either way.
func filterFailedOrIgnoredTargets(refs []model.Reference, knownIDs map[string]bool, ignoredClasses map[nodeclass.NodeClass]bool) []model.Reference {
	out := refs[:0:0]
	for _, ref := range refs {
		if !knownIDs[ref.Target.String()] {
			continue
		}
		if ignoredClasses[ref.TargetClass] {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// filterTypeClassBackReferences drops every inverse reference except
// HasSubtype on a Type-class node (§4.6 step 2).
func filterTypeClassBackReferences(refs []model.Reference) []model.Reference {
	out := refs[:0:0]
	for _, ref := range refs {
		if !ref.IsForward && !ref.ReferenceType.Equal(nodeclass.HasSubtype) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// fixupKEPServerExVariableType rewrites a forward HasTypeDefinition
// reference to BaseVariableType into one targeting BaseDataVariableType,
// unless allowAbstractVariable is set (§4.6 step 3).
func fixupKEPServerExVariableType(refs []model.Reference, allowAbstractVariable bool) []model.Reference {
	if allowAbstractVariable {
		return refs
	}
	out := make([]model.Reference, len(refs))
	for i, ref := range refs {
		if ref.IsForward && ref.ReferenceType.Equal(nodeclass.HasTypeDefinition) && ref.Target.NodeId.Equal(nodeclass.BaseVariableType) {
			ref.Target = nodeid.NewExpandedNodeId(nodeclass.BaseDataVariableType)
		}
		out[i] = ref
	}
	return out
}

// stripHierarchical removes every hierarchical reference, both
// directions, from refs (§4.6 step 4). Pipeline only calls this for
// nodes that are not one of the export's start (root) nodes; a start
// node's hierarchical references — including the forward references to
// its own children — are left untouched.
func stripHierarchical(refs []model.Reference) []model.Reference {
	out := refs[:0:0]
	for _, ref := range refs {
		if nodeclass.IsHierarchical(ref.ReferenceType) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// browsePathParentReferenceType returns HasComponent, the reference type
// used for every synthesized parent link (§4.6 step 6).
func browsePathParentReferenceType(string) nodeid.NodeId {
	return nodeclass.HasComponent
}

// browsePathParentTarget derives the synthetic parent target for n: if
// its browse name contains a dot-separated path, the parent is a string
// node id in n's namespace whose identifier is the browse name with the
// last path segment removed; otherwise it is replacer (§4.6 step 6).
func browsePathParentTarget(n *model.Node, replacer nodeid.ExpandedNodeId) nodeid.ExpandedNodeId {
	idx := strings.LastIndex(n.BrowseName, ".")
	if idx < 0 {
		return replacer
	}
	parentBrowseName := n.BrowseName[:idx]
	parentID := n.NodeID
	parentID.NodeId = nodeid.NewString(n.NodeID.Namespace, parentBrowseName)
	return parentID
}
