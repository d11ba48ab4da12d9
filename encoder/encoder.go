// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package encoder defines the Encoder interface the export core writes
// rewritten nodes through (SPEC_FULL.md §4.8).
package encoder

import "github.com/xydan83/open62541-nodeset-exporter-sub001/model"

// Type identifies the concrete output format. XML is the only one this
// repository implements; the type exists so Options.EncoderType has
// somewhere to point, matching the original's EncoderTypes enum.
type Type uint8

const (
	TypeXML Type = iota
)

// Encoder is the abstract nodeset writer. Begin/End frame one export
// run; AddNamespaces is called at most once, before any AddNode* call;
// the six AddNode* methods are called once per exported node, in the
// order the export core discovers them; AddAliases is called at most
// once, after the last AddNode* call and before End.
type Encoder interface {
	Begin() error
	AddNamespaces(uris []string) error
	AddAliases(aliases map[string]string) error

	AddNodeObject(n *model.Node) error
	AddNodeVariable(n *model.Node) error
	AddNodeObjectType(n *model.Node) error
	AddNodeVariableType(n *model.Node) error
	AddNodeReferenceType(n *model.Node) error
	AddNodeDataType(n *model.Node) error

	End() error
}
