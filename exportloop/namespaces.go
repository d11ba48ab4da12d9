// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import (
	"context"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// namespaceArrayID is the well-known NamespaceArray Variable (ns=0;i=2255).
var namespaceArrayID = nodeid.NewExpandedNodeId(nodeid.NewNumeric(0, 2255))

// resolveNamespaces reads the server's NamespaceArray and drops index 0
// (the standard http://opcfoundation.org/UA/ namespace), per
// SPEC_FULL.md §4.4.
func resolveNamespaces(ctx context.Context, adapter serveradapter.ServerAdapter) ([]string, error) {
	v, err := adapter.ReadNodeDataValue(ctx, namespaceArrayID)
	if err != nil {
		return nil, fail(SubStatusTransportError, "read NamespaceArray", err)
	}
	if v.Kind != uavariant.KindArray {
		return nil, fail(SubStatusTransportError, "NamespaceArray value was not an array", nil)
	}
	var uris []string
	for i, item := range v.Array {
		if i == 0 {
			continue // the standard UA namespace is never emitted
		}
		if s, ok := item.AsString(); ok {
			uris = append(uris, s)
		}
	}
	return uris, nil
}
