// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportloop

import (
	"fmt"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/logging"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

// checkStartNodeCrossing implements SPEC_FULL.md §4.3: no starting id
// may appear inside the collected node list of a DIFFERENT starting id.
// Comparison is against every element of every other root's list, not
// just the first — resolving the Open Question the distilled spec
// raised, per the confirmed behavior of the original's
// Application::CheckStartNodeCrossing (SPEC_FULL.md §9).
func checkStartNodeCrossing(nodeIDsByRoot map[string][]nodeid.ExpandedNodeId, logger logging.Logger) error {
	for rootKey, rootList := range nodeIDsByRoot {
		if len(rootList) == 0 {
			continue
		}
		startID := rootList[0]
		for otherKey, otherList := range nodeIDsByRoot {
			if otherKey == rootKey {
				continue
			}
			for _, candidate := range otherList {
				if candidate.Equal(startID) {
					logger.Error("start node found in another root's collected list",
						logging.String("start", rootKey),
						logging.String("other_root", otherKey))
					return fail(SubStatusInvalidOption, fmt.Sprintf(
						"start NodeID %q was found in other node list where start NodeID is %q; remove one of the specified starting nodes",
						rootKey, otherKey), nil)
				}
			}
		}
	}
	return nil
}
