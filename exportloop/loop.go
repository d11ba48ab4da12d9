// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import (
	"context"
	"fmt"
	"io"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/browse"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/encoder"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/encoder/xmlenc"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/logging"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/perftimer"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/rewrite"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
)

// Loop carries the state (status, accumulated aliases) of one export run.
type Loop struct {
	adapter serveradapter.ServerAdapter
	enc     encoder.Encoder
	opts    Options
	logger  logging.Logger

	state   State
	aliases *aliasTable
}

// New builds a Loop, validating opts per SPEC_FULL.md §4.7.
func New(adapter serveradapter.ServerAdapter, enc encoder.Encoder, opts Options) (*Loop, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	return &Loop{
		adapter: adapter,
		enc:     enc,
		opts:    opts,
		logger:  opts.Logger,
		state:   StateInit,
		aliases: newAliasTable(),
	}, nil
}

// ExportNodesetFromServer is the library's primary entry point
// (SPEC_FULL.md §6): given a ServerAdapter, a map of root name to
// starting ExpandedNodeId, and an output sink, it browses, rewrites and
// encodes the reachable subgraph.
func ExportNodesetFromServer(
	ctx context.Context,
	adapter serveradapter.ServerAdapter,
	roots map[string]nodeid.ExpandedNodeId,
	sink Sink,
	opts Options,
) error {
	if len(roots) == 0 {
		return fail(SubStatusEmptyNodeIdList, "no starting node ids supplied", nil)
	}

	enc, closeSink, err := sink.open()
	if err != nil {
		return fail(SubStatusEncoderError, "open output sink", err)
	}
	defer closeSink()

	loop, err := New(adapter, enc, opts)
	if err != nil {
		return err
	}
	return loop.Run(ctx, roots)
}

// Sink abstracts the encoder's output destination: either a filename
// (write-then-rename, §5) or a caller-owned io.Writer.
type Sink struct {
	Filename string
	Writer   io.Writer
}

// FileSink builds a Sink that writes to filename with the atomic
// rename-on-success behavior of §5.
func FileSink(filename string) Sink { return Sink{Filename: filename} }

// WriterSink builds a Sink over a caller-owned writer.
func WriterSink(w io.Writer) Sink { return Sink{Writer: w} }

func (s Sink) open() (encoder.Encoder, func(), error) {
	if s.Filename != "" {
		return xmlenc.NewToFile(s.Filename), func() {}, nil
	}
	if s.Writer != nil {
		return xmlenc.NewToWriter(s.Writer), func() {}, nil
	}
	return nil, nil, fmt.Errorf("exportloop: sink has neither Filename nor Writer set")
}

// Run drives the full state machine of SPEC_FULL.md §4.9 for one
// export: browse, crossing check, namespaces, batch loop, aliases,
// finalize. ctx cancellation is observed between batches only (§5); on
// cancellation the core logs a warning and returns nil without calling
// enc.End (the partial document is discarded, §7).
func (l *Loop) Run(ctx context.Context, roots map[string]nodeid.ExpandedNodeId) error {
	ignoredClasses := nodeclass.IgnoredClasses(l.opts.FlatListOfNodes.IsEnable)

	browseTimer := perftimer.New()
	collected := make(map[string][]nodeid.ExpandedNodeId, len(roots))
	for rootKey, rootID := range roots {
		list, err := browse.BrowseAll(ctx, l.adapter, rootID, ignoredClasses, l.logger)
		if err != nil {
			l.state = StateFailed
			return fail(SubStatusTransportError, fmt.Sprintf("browse from root %q", rootKey), err)
		}
		collected[rootKey] = list
		if err := ctx.Err(); err != nil {
			l.logger.Warn("interrupt detected during browse", logging.String("root", rootKey))
			return nil
		}
	}
	if l.opts.IsPerfTimerEnable {
		l.logger.Info("browse complete", logging.String("elapsed", browseTimer.String()))
	}

	crossingTimer := perftimer.New()
	if err := checkStartNodeCrossing(collected, l.logger); err != nil {
		l.state = StateFailed
		return err
	}
	if l.opts.IsPerfTimerEnable {
		l.logger.Info("start node crossing check complete", logging.String("elapsed", crossingTimer.String()))
	}

	uris, err := resolveNamespaces(ctx, l.adapter)
	if err != nil {
		l.state = StateFailed
		return err
	}
	if err := l.enc.Begin(); err != nil {
		l.state = StateFailed
		return fail(SubStatusEncoderError, "encoder Begin", err)
	}
	if err := l.enc.AddNamespaces(uris); err != nil {
		l.state = StateFailed
		return fail(SubStatusEncoderError, "encoder AddNamespaces", err)
	}
	l.state = StateNamespacesCollected

	knownIDs := make(map[string]bool)
	rootIDsByRootKey := make(map[string]nodeid.ExpandedNodeId, len(roots))
	var allIDsInOrder []nodeid.ExpandedNodeId
	seen := make(map[string]bool)
	for rootKey, list := range collected {
		rootIDsByRootKey[rootKey] = roots[rootKey]
		for _, id := range list {
			knownIDs[id.String()] = true
			if !seen[id.String()] {
				seen[id.String()] = true
				allIDsInOrder = append(allIDsInOrder, id)
			}
		}
	}

	l.state = StateBatchLoop
	batchSize := int(l.opts.NumberOfMaxNodesToRequestData)
	if batchSize <= 0 {
		batchSize = len(allIDsInOrder)
		if batchSize == 0 {
			batchSize = 1
		}
	}
	for start := 0; start < len(allIDsInOrder); start += batchSize {
		if err := ctx.Err(); err != nil {
			l.logger.Warn("interrupt detected between batches")
			return nil
		}
		end := start + batchSize
		if end > len(allIDsInOrder) {
			end = len(allIDsInOrder)
		}
		window := allIDsInOrder[start:end]
		if err := l.processWindow(ctx, window, knownIDs, ignoredClasses, rootIDsByRootKey); err != nil {
			l.state = StateFailed
			return err
		}
	}

	if err := l.enc.AddAliases(l.aliases.snapshot()); err != nil {
		l.state = StateFailed
		return fail(SubStatusEncoderError, "encoder AddAliases", err)
	}
	l.state = StateAliasesEmitted

	if err := l.enc.End(); err != nil {
		l.state = StateFailed
		return fail(SubStatusEncoderError, "encoder End", err)
	}
	l.state = StateFinalized
	return nil
}

// processWindow implements one iteration of the batched attribute/
// reference reader (§4.5): read classes, read attributes, read
// references, rewrite, dispatch to the encoder.
func (l *Loop) processWindow(
	ctx context.Context,
	window []nodeid.ExpandedNodeId,
	knownIDs map[string]bool,
	ignoredClasses map[nodeclass.NodeClass]bool,
	roots map[string]nodeid.ExpandedNodeId,
) error {
	classResults, err := l.adapter.ReadNodeClasses(ctx, window)
	if err != nil {
		return fail(SubStatusTransportError, "read node classes", err)
	}

	nodes := make([]*model.Node, 0, len(window))
	var attrRequests []serveradapter.AttributeRequest
	for i, id := range window {
		class := nodeclass.Unspecified
		if i < len(classResults) && classResults[i].OK {
			class = classResults[i].Class
		}
		if ignoredClasses[class] {
			continue
		}
		n := model.NewNode(id, class)
		nodes = append(nodes, n)
		attrRequests = append(attrRequests, serveradapter.AttributeRequest{ID: id, Attributes: requiredAttributes(class)})
	}

	attrResults, err := l.adapter.ReadNodeAttributes(ctx, attrRequests)
	if err != nil {
		return fail(SubStatusTransportError, "read node attributes", err)
	}
	for i, n := range nodes {
		if i >= len(attrResults) {
			break
		}
		for attrID, v := range attrResults[i] {
			n.SetAttr(attrID, v)
		}
		for _, attrID := range attrRequests[i].Attributes {
			if _, ok := attrResults[i][attrID]; ok {
				continue
			}
			fields := []logging.Field{logging.String("node_id", n.NodeID.String()), logging.Int("attribute_id", int(attrID))}
			if attrID == model.AttrBrowseName {
				l.logger.Error("required attribute missing", fields...)
			} else {
				l.logger.Info("optional attribute missing", fields...)
			}
		}
		if bn, ok := n.Attr(model.AttrBrowseName); ok {
			if s, ok := bn.AsString(); ok {
				n.BrowseName = s
			}
		}
		if dn, ok := n.Attr(model.AttrDisplayName); ok {
			if s, ok := dn.AsString(); ok {
				n.DisplayName.Text = s
			}
		}
	}

	ids := make([]nodeid.ExpandedNodeId, len(nodes))
	for i, n := range nodes {
		ids[i] = n.NodeID
	}
	refResults, err := l.adapter.ReadNodeReferences(ctx, ids)
	if err != nil {
		return fail(SubStatusTransportError, "read node references", err)
	}
	for i, n := range nodes {
		if i < len(refResults) {
			n.References = refResults[i]
		}
	}

	rewriteOpts := rewrite.Options{
		FlatEnable:              l.opts.FlatListOfNodes.IsEnable,
		FlatCreateMissingStart:  l.opts.FlatListOfNodes.CreateMissingStartNode,
		FlatAllowAbstractVar:    l.opts.FlatListOfNodes.AllowAbstractVariable,
		ParentStartNodeReplacer: l.opts.ParentStartNodeReplacer,
	}
	synthesized := rewrite.Pipeline(nodes, knownIDs, ignoredClasses, roots, rewriteOpts)
	nodes = append(nodes, synthesized...)

	for _, n := range nodes {
		l.noteReferenceAliases(n)
		if err := l.dispatch(n); err != nil {
			return err
		}
	}
	return nil
}

// noteReferenceAliases records an alias-table entry for every standard
// reference type used on n, and for n's DataType attribute when it
// names a standard data type (SPEC_FULL.md §3, §8 property 5). Both are
// the same alias table the encoder's DataType/ReferenceType attribute
// emission looks names up against (encoder/xmlenc's applyVariableAttrs
// and buildReferencesElement).
func (l *Loop) noteReferenceAliases(n *model.Node) {
	for _, ref := range n.References {
		if sa, ok := nodeclass.StandardAliasFor(ref.ReferenceType); ok {
			l.aliases.noteReferenceType(sa)
		}
	}
	if v, ok := n.Attr(model.AttrDataType); ok {
		if s, ok := v.AsString(); ok {
			if parsed, err := nodeid.ParseNodeId(s); err == nil {
				if sa, ok := nodeclass.StandardAliasFor(parsed); ok {
					l.aliases.noteReferenceType(sa)
				}
			}
		}
	}
}

// dispatch routes n to the encoder method matching its class.
func (l *Loop) dispatch(n *model.Node) error {
	var err error
	switch n.NodeClass {
	case nodeclass.Object:
		err = l.enc.AddNodeObject(n)
	case nodeclass.Variable:
		err = l.enc.AddNodeVariable(n)
	case nodeclass.ObjectType:
		err = l.enc.AddNodeObjectType(n)
	case nodeclass.VariableType:
		err = l.enc.AddNodeVariableType(n)
	case nodeclass.ReferenceType:
		err = l.enc.AddNodeReferenceType(n)
	case nodeclass.DataType:
		err = l.enc.AddNodeDataType(n)
	default:
		return fail(SubStatusUnknownNode, fmt.Sprintf("node %s has unsupported class %s", n.NodeID, n.NodeClass), nil)
	}
	if err != nil {
		return fail(SubStatusEncoderError, fmt.Sprintf("encode node %s", n.NodeID), err)
	}
	return nil
}

// requiredAttributes returns the per-class attribute id set of
// SPEC_FULL.md §3: common attributes plus the class-specific extension.
func requiredAttributes(class nodeclass.NodeClass) []model.AttributeID {
	common := []model.AttributeID{
		model.AttrBrowseName, model.AttrDisplayName, model.AttrDescription,
		model.AttrWriteMask, model.AttrUserWriteMask,
	}
	switch class {
	case nodeclass.Object:
		return append(common, model.AttrEventNotifier)
	case nodeclass.ObjectType:
		return append(common, model.AttrIsAbstract)
	case nodeclass.Variable:
		return append(common,
			model.AttrDataType, model.AttrValueRank, model.AttrArrayDimensions,
			model.AttrValue, model.AttrAccessLevel, model.AttrUserAccessLevel,
			model.AttrMinimumSamplingInterval, model.AttrHistorizing)
	case nodeclass.VariableType:
		return append(common, model.AttrIsAbstract, model.AttrDataType, model.AttrValueRank,
			model.AttrArrayDimensions, model.AttrValue)
	case nodeclass.ReferenceType:
		return append(common, model.AttrInverseName, model.AttrIsAbstract, model.AttrSymmetric)
	case nodeclass.DataType:
		return append(common, model.AttrDataTypeDefinition, model.AttrIsAbstract)
	default:
		return common
	}
}

