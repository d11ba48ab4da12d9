// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import (
	"github.com/xydan83/open62541-nodeset-exporter-sub001/encoder"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/logging"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

// FlatListOfNodes groups the three flat-mode knobs of SPEC_FULL.md §4.7.
type FlatListOfNodes struct {
	IsEnable              bool
	CreateMissingStartNode bool
	AllowAbstractVariable bool
}

// Options is the public entry-point configuration struct of
// SPEC_FULL.md §6.
type Options struct {
	Logger                        logging.Logger
	InternalLogLevel              logging.Level
	IsPerfTimerEnable             bool
	EncoderType                   encoder.Type
	NumberOfMaxNodesToRequestData uint32
	MaxReferencesPerNode          uint32
	MaxBrowseContinuationPoints   uint32
	MaxNodesPerBrowse             uint32
	MaxNodesPerRead               uint32
	NS0CustomNodesReadyToWork     bool
	FlatListOfNodes               FlatListOfNodes
	ParentStartNodeReplacer       nodeid.ExpandedNodeId
}

// DefaultOptions returns the zero-configuration defaults, matching the
// original's constructor defaults (batch size 0 = unbounded, parent
// replacer i=85, every mode disabled).
func DefaultOptions() Options {
	return Options{
		Logger:                  logging.NopLogger(),
		ParentStartNodeReplacer: nodeid.NewExpandedNodeId(nodeclass.ObjectsFolder),
	}
}

// normalized fills in the i=85 default for ParentStartNodeReplacer when
// the caller left it unset, matching the original's
// "if (!m_parent_start_node_replacer.empty()) {...}" default-preserving
// behavior in Application::Run.
func (o Options) normalized() Options {
	if o.ParentStartNodeReplacer.NodeId.IsNull() {
		o.ParentStartNodeReplacer = nodeid.NewExpandedNodeId(nodeclass.ObjectsFolder)
	}
	if o.Logger == nil {
		o.Logger = logging.NopLogger()
	}
	return o
}

// Validate checks the mode-combination constraints of SPEC_FULL.md §4.7:
// CreateMissingStartNode requires IsEnable; AllowAbstractVariable
// requires CreateMissingStartNode. This replaces the original
// constructor's throw-on-invalid-combination behavior, since Go
// constructors don't throw.
func (o Options) Validate() error {
	if o.FlatListOfNodes.CreateMissingStartNode && !o.FlatListOfNodes.IsEnable {
		return fail(SubStatusInvalidOption, "flat_list_of_nodes.create_missing_start_node requires flat_list_of_nodes.is_enable", nil)
	}
	if o.FlatListOfNodes.AllowAbstractVariable && !o.FlatListOfNodes.CreateMissingStartNode {
		return fail(SubStatusInvalidOption, "flat_list_of_nodes.allow_abstract_variable requires flat_list_of_nodes.create_missing_start_node", nil)
	}
	if o.normalized().ParentStartNodeReplacer.NodeId.IsNull() {
		return fail(SubStatusInvalidOption, "parent_start_node_replacer must not parse to a null NodeId", nil)
	}
	return nil
}
