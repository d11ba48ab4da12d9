// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package browse implements the browse driver (SPEC_FULL.md §4.2): a
// deterministic, duplicate-suppressing walk over forward hierarchical
// references starting from one root node id.
package browse

import (
	"context"
	"fmt"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/logging"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
)

// BrowseAll returns start followed by every node reachable from start
// through forward hierarchical references, depth-first pre-order,
// children visited in server-returned order, duplicates suppressed. The
// walk does not descend into a node whose class is in ignoredClasses
// (its subtree is not entered, matching §4.2's "the walk stops at nodes
// in the ignored set").
func BrowseAll(
	ctx context.Context,
	adapter serveradapter.ServerAdapter,
	start nodeid.ExpandedNodeId,
	ignoredClasses map[nodeclass.NodeClass]bool,
	logger logging.Logger,
) ([]nodeid.ExpandedNodeId, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	visited := make(map[string]bool)
	var order []nodeid.ExpandedNodeId

	// walk's class/classOK parameters carry the node's class as already
	// learned from its parent's BrowseChildren call (ref.TargetClass), so
	// no additional per-node ReadNodeClasses round-trip is needed except
	// for start, which has no such parent reference.
	var walk func(id nodeid.ExpandedNodeId, class nodeclass.NodeClass, classOK bool) error
	walk = func(id nodeid.ExpandedNodeId, class nodeclass.NodeClass, classOK bool) error {
		key := id.String()
		if visited[key] {
			return nil
		}
		visited[key] = true
		order = append(order, id)

		if !classOK {
			classResults, err := adapter.ReadNodeClasses(ctx, []nodeid.ExpandedNodeId{id})
			if err != nil {
				return fmt.Errorf("browse: read node class of %s: %w", key, err)
			}
			if len(classResults) == 1 && classResults[0].OK {
				class, classOK = classResults[0].Class, true
			}
		}
		if classOK && ignoredClasses[class] {
			logger.Debug("browse: not descending into ignored-class node", logging.String("node_id", key))
			return nil
		}

		refs, err := adapter.BrowseChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("browse: children of %s: %w", key, err)
		}
		for _, ref := range refs {
			if !ref.IsForward || !nodeclass.IsHierarchical(ref.ReferenceType) {
				continue
			}
			if err := walk(ref.Target, ref.TargetClass, true); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(start, 0, false); err != nil {
		return nil, err
	}
	return order, nil
}
