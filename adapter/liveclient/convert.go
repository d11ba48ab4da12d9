// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package liveclient implements serveradapter.ServerAdapter against a
// real OPC UA server via github.com/gopcua/opcua, the transport library
// the teacher receiver also builds on (client.go).
package liveclient

import (
	"fmt"
	"time"

	"github.com/gopcua/opcua/ua"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// toGopcuaNodeID converts our namespace-qualified value type to gopcua's
// pointer-based *ua.NodeID, round-tripping through its canonical text
// form rather than poking at gopcua's internal identifier fields
// directly.
func toGopcuaNodeID(id nodeid.NodeId) (*ua.NodeID, error) {
	n, err := ua.ParseNodeID(id.String())
	if err != nil {
		return nil, fmt.Errorf("liveclient: encode NodeId %s: %w", id, err)
	}
	return n, nil
}

// fromGopcuaNodeID converts a *ua.NodeID back to our value type.
func fromGopcuaNodeID(n *ua.NodeID) (nodeid.NodeId, error) {
	if n == nil {
		return nodeid.NodeId{}, nil
	}
	return nodeid.ParseNodeId(n.String())
}

// fromGopcuaExpandedNodeID converts a *ua.ExpandedNodeID to our value
// type, preserving a namespace URI or server index when the server set
// one.
func fromGopcuaExpandedNodeID(n *ua.ExpandedNodeID) (nodeid.ExpandedNodeId, error) {
	if n == nil {
		return nodeid.ExpandedNodeId{}, nil
	}
	base, err := fromGopcuaNodeID(n.NodeID)
	if err != nil {
		return nodeid.ExpandedNodeId{}, err
	}
	return nodeid.ExpandedNodeId{
		NodeId:       base,
		NamespaceURI: n.NamespaceURI,
		ServerIndex:  n.ServerIndex,
	}, nil
}

// toGopcuaExpandedNodeID converts our value type to gopcua's pointer
// form for use as a Browse/Read target.
func toGopcuaExpandedNodeID(id nodeid.ExpandedNodeId) (*ua.ExpandedNodeID, error) {
	base, err := toGopcuaNodeID(id.NodeId)
	if err != nil {
		return nil, err
	}
	return &ua.ExpandedNodeID{
		NodeID:       base,
		NamespaceURI: id.NamespaceURI,
		ServerIndex:  id.ServerIndex,
	}, nil
}

// fromGopcuaNodeClass maps the wire NodeClass bitmask value to ours.
func fromGopcuaNodeClass(c ua.NodeClass) nodeclass.NodeClass {
	switch c {
	case ua.NodeClassObject:
		return nodeclass.Object
	case ua.NodeClassVariable:
		return nodeclass.Variable
	case ua.NodeClassMethod:
		return nodeclass.Method
	case ua.NodeClassObjectType:
		return nodeclass.ObjectType
	case ua.NodeClassVariableType:
		return nodeclass.VariableType
	case ua.NodeClassReferenceType:
		return nodeclass.ReferenceType
	case ua.NodeClassDataType:
		return nodeclass.DataType
	case ua.NodeClassView:
		return nodeclass.View
	default:
		return nodeclass.Unspecified
	}
}

// fromGopcuaVariant converts a gopcua *ua.Variant's decoded value into
// our tagged union. Types this exporter has no use for (ExtensionObject
// structures, matrices) come back as uavariant.Null rather than an
// error; the caller decides whether a Null value for a required
// attribute is itself a problem.
func fromGopcuaVariant(v *ua.Variant) uavariant.Variant {
	if v == nil {
		return uavariant.Null
	}
	return convertGoValue(v.Value())
}

func convertGoValue(raw interface{}) uavariant.Variant {
	switch val := raw.(type) {
	case nil:
		return uavariant.Null
	case bool:
		return uavariant.NewBool(val)
	case int8:
		return uavariant.NewInt64(int64(val))
	case int16:
		return uavariant.NewInt64(int64(val))
	case int32:
		return uavariant.NewInt64(int64(val))
	case int64:
		return uavariant.NewInt64(val)
	case uint8:
		return uavariant.NewUint64(uint64(val))
	case uint16:
		return uavariant.NewUint64(uint64(val))
	case uint32:
		return uavariant.NewUint64(uint64(val))
	case uint64:
		return uavariant.NewUint64(val)
	case float32:
		return uavariant.NewFloat64(float64(val))
	case float64:
		return uavariant.NewFloat64(val)
	case string:
		return uavariant.NewString(val)
	case time.Time:
		return uavariant.NewDateTime(val)
	case []byte:
		return uavariant.NewBytes(val)
	case *ua.NodeID:
		return uavariant.NewNodeIDText(val.String())
	case *ua.ExpandedNodeID:
		return uavariant.NewNodeIDText(val.String())
	case *ua.LocalizedText:
		return uavariant.NewString(val.Text)
	case *ua.QualifiedName:
		return uavariant.NewString(val.Name)
	case []interface{}:
		items := make([]uavariant.Variant, len(val))
		for i, e := range val {
			items[i] = convertGoValue(e)
		}
		return uavariant.NewArray(items)
	case []string:
		items := make([]uavariant.Variant, len(val))
		for i, e := range val {
			items[i] = uavariant.NewString(e)
		}
		return uavariant.NewArray(items)
	case []int32:
		items := make([]uavariant.Variant, len(val))
		for i, e := range val {
			items[i] = uavariant.NewInt64(int64(e))
		}
		return uavariant.NewArray(items)
	case []uint32:
		items := make([]uavariant.Variant, len(val))
		for i, e := range val {
			items[i] = uavariant.NewUint64(uint64(e))
		}
		return uavariant.NewArray(items)
	default:
		return uavariant.Null
	}
}
