// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package nodeclass defines the OPC UA NodeClass enumeration and the
// well-known ns=0 reference-type / data-type identifiers the reference
// rewriting pipeline (SPEC_FULL.md §4.6) and the encoder's alias table
// (§3, §4.8) depend on.
package nodeclass

import "github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"

// NodeClass is the closed set of OPC UA node classes this exporter deals
// with. Method and View are always ignored (never exported); see
// IgnoredClasses.
type NodeClass uint8

const (
	Unspecified NodeClass = iota
	Object
	Variable
	Method
	ObjectType
	VariableType
	ReferenceType
	DataType
	View
)

func (c NodeClass) String() string {
	switch c {
	case Object:
		return "Object"
	case Variable:
		return "Variable"
	case Method:
		return "Method"
	case ObjectType:
		return "ObjectType"
	case VariableType:
		return "VariableType"
	case ReferenceType:
		return "ReferenceType"
	case DataType:
		return "DataType"
	case View:
		return "View"
	default:
		return "Unspecified"
	}
}

// IsType reports whether c is one of the four "Type" node classes, which
// the reference rewriting pipeline treats specially: only their inverse
// HasSubtype reference survives the type-class back-reference filter
// (§4.6 step 2), and they never carry a ParentNodeId in the encoder
// output (§4.8).
func (c NodeClass) IsType() bool {
	switch c {
	case ObjectType, VariableType, ReferenceType, DataType:
		return true
	default:
		return false
	}
}

// IgnoredClasses returns the fixed ignored node-class set. Method and
// View are always ignored. In flat mode the four Type classes are added,
// since a flat instance list has no use for type definitions (§4.7).
//
// This resolves SPEC_FULL.md §9's note on the commented-out
// ignored_nodeclasses option in the original: that option is out of
// scope, and this fixed set is what ships instead.
func IgnoredClasses(flat bool) map[NodeClass]bool {
	ignored := map[NodeClass]bool{
		Method: true,
		View:   true,
	}
	if flat {
		ignored[ObjectType] = true
		ignored[VariableType] = true
		ignored[ReferenceType] = true
		ignored[DataType] = true
	}
	return ignored
}

// Well-known ns=0 NodeIds referenced by the reference rewriting pipeline
// and the encoder (SPEC_FULL.md §4.6, §4.8).
var (
	// ObjectsFolder is the default parent_start_node_replacer (i=85).
	ObjectsFolder = nodeid.NewNumeric(0, 85)

	// HasTypeDefinition (i=40) is the reference type the KEPServerEx
	// fix-up rewrites when it targets BaseVariableType.
	HasTypeDefinition = nodeid.NewNumeric(0, 40)

	// BaseVariableType (i=62) is the abstract variable type some servers
	// incorrectly emit as a HasTypeDefinition target.
	BaseVariableType = nodeid.NewNumeric(0, 62)

	// BaseDataVariableType (i=63) is the concrete replacement target.
	BaseDataVariableType = nodeid.NewNumeric(0, 63)

	// HasSubtype (i=45) is the only inverse reference kept on Type nodes.
	HasSubtype = nodeid.NewNumeric(0, 45)

	// Organizes (i=35) is the reference type synthesized for a start
	// node lacking an inverse hierarchical reference.
	Organizes = nodeid.NewNumeric(0, 35)

	// HasComponent (i=47) is the reference type synthesized for browse-
	// path parent synthesis and for the abstract-variable fix-up.
	HasComponent = nodeid.NewNumeric(0, 47)

	// BaseDataType (i=24) is both the default DataType attribute value
	// and one of the two inverse targets added when AllowAbstractVariable
	// is enabled.
	BaseDataType = nodeid.NewNumeric(0, 24)

	// BaseObjectType (i=58) is the other AllowAbstractVariable target.
	BaseObjectType = nodeid.NewNumeric(0, 58)

	// HierarchicalReferences (i=33) is the root of the hierarchical
	// reference-type closure.
	HierarchicalReferences = nodeid.NewNumeric(0, 33)
)

// hierarchicalReferenceTypes is the transitive closure of
// HierarchicalReferences (i=33) under the OPC UA standard namespace, as
// fixed in the 1.04 specification. It is a closed, read-only set built
// once at init time (no global mutable state per SPEC_FULL.md §9).
var hierarchicalReferenceTypes = map[uint32]bool{
	33: true, // HierarchicalReferences
	34: true, // HasChild
	35: true, // Organizes
	36: true, // HasEventSource
	44: true, // Aggregates
	47: true, // HasComponent
	46: true, // HasProperty
	45: true, // HasSubtype
	49: true, // HasOrderedComponent
	48: true, // HasNotifier
}

// IsHierarchical reports whether refType (a ns=0 reference type NodeId)
// is a member of the HierarchicalReferences closure. Non-ns0 (custom)
// reference types are never considered hierarchical by this exporter.
func IsHierarchical(refType nodeid.NodeId) bool {
	if refType.Namespace != 0 || refType.Type != nodeid.IdentifierNumeric {
		return false
	}
	return hierarchicalReferenceTypes[refType.Numeric]
}

// StandardAlias is one entry of the fixed standard data-type / reference-
// type alias seed table (SPEC_FULL.md §3's Alias table). Aliases for
// reference types actually used by an export are added incrementally by
// the export loop; this table is where the loop and the encoder look up
// their standard names, so neither has to guess one from a bare NodeId.
type StandardAlias struct {
	Name string
	ID   nodeid.NodeId
}

// StandardAliases is the fixed, insertion-ordered seed table of standard
// OPC UA ns=0 data types and reference types. Custom types are never
// added here; they remain unaliased and are emitted by NodeId text.
var StandardAliases = []StandardAlias{
	{"Boolean", nodeid.NewNumeric(0, 1)},
	{"SByte", nodeid.NewNumeric(0, 2)},
	{"Byte", nodeid.NewNumeric(0, 3)},
	{"Int16", nodeid.NewNumeric(0, 4)},
	{"UInt16", nodeid.NewNumeric(0, 5)},
	{"Int32", nodeid.NewNumeric(0, 6)},
	{"UInt32", nodeid.NewNumeric(0, 7)},
	{"Int64", nodeid.NewNumeric(0, 8)},
	{"UInt64", nodeid.NewNumeric(0, 9)},
	{"Float", nodeid.NewNumeric(0, 10)},
	{"Double", nodeid.NewNumeric(0, 11)},
	{"String", nodeid.NewNumeric(0, 12)},
	{"DateTime", nodeid.NewNumeric(0, 13)},
	{"Guid", nodeid.NewNumeric(0, 14)},
	{"ByteString", nodeid.NewNumeric(0, 15)},
	{"XmlElement", nodeid.NewNumeric(0, 16)},
	{"NodeId", nodeid.NewNumeric(0, 17)},
	{"ExpandedNodeId", nodeid.NewNumeric(0, 18)},
	{"StatusCode", nodeid.NewNumeric(0, 19)},
	{"QualifiedName", nodeid.NewNumeric(0, 20)},
	{"LocalizedText", nodeid.NewNumeric(0, 21)},
	{"Structure", nodeid.NewNumeric(0, 22)},
	{"DataValue", nodeid.NewNumeric(0, 23)},
	{"BaseDataType", nodeid.NewNumeric(0, 24)},
	{"DiagnosticInfo", nodeid.NewNumeric(0, 25)},
	{"Number", nodeid.NewNumeric(0, 26)},
	{"Integer", nodeid.NewNumeric(0, 27)},
	{"UInteger", nodeid.NewNumeric(0, 28)},
	{"Enumeration", nodeid.NewNumeric(0, 29)},
	{"Image", nodeid.NewNumeric(0, 30)},
	{"References", nodeid.NewNumeric(0, 31)},
	{"NonHierarchicalReferences", nodeid.NewNumeric(0, 32)},
	{"HierarchicalReferences", nodeid.NewNumeric(0, 33)},
	{"HasChild", nodeid.NewNumeric(0, 34)},
	{"Organizes", nodeid.NewNumeric(0, 35)},
	{"HasEventSource", nodeid.NewNumeric(0, 36)},
	{"HasModellingRule", nodeid.NewNumeric(0, 37)},
	{"HasEncoding", nodeid.NewNumeric(0, 38)},
	{"HasDescription", nodeid.NewNumeric(0, 39)},
	{"HasTypeDefinition", nodeid.NewNumeric(0, 40)},
	{"GeneratesEvent", nodeid.NewNumeric(0, 41)},
	{"Aggregates", nodeid.NewNumeric(0, 44)},
	{"HasSubtype", nodeid.NewNumeric(0, 45)},
	{"HasProperty", nodeid.NewNumeric(0, 46)},
	{"HasComponent", nodeid.NewNumeric(0, 47)},
	{"HasNotifier", nodeid.NewNumeric(0, 48)},
	{"HasOrderedComponent", nodeid.NewNumeric(0, 49)},
	{"BaseObjectType", nodeid.NewNumeric(0, 58)},
	{"BaseVariableType", nodeid.NewNumeric(0, 62)},
	{"BaseDataVariableType", nodeid.NewNumeric(0, 63)},
	{"PropertyType", nodeid.NewNumeric(0, 68)},
	{"ObjectsFolder", nodeid.NewNumeric(0, 85)},
}

// standardByID is built once for O(1) alias-name lookup by Reference.
var standardByID = func() map[string]string {
	m := make(map[string]string, len(StandardAliases))
	for _, a := range StandardAliases {
		m[a.ID.String()] = a.Name
	}
	return m
}()

// AliasNameFor returns the standard alias name for id, and whether one
// exists. Custom (non-standard) reference/data types never have one.
func AliasNameFor(id nodeid.NodeId) (string, bool) {
	name, ok := standardByID[id.String()]
	return name, ok
}

// standardAliasByID indexes StandardAliases by NodeId text, for callers
// that need the full StandardAlias entry (e.g. to seed the export's
// alias table) rather than just its name.
var standardAliasByID = func() map[string]StandardAlias {
	m := make(map[string]StandardAlias, len(StandardAliases))
	for _, a := range StandardAliases {
		m[a.ID.String()] = a
	}
	return m
}()

// StandardAliasFor returns the full StandardAlias entry for id, and
// whether one exists.
func StandardAliasFor(id nodeid.NodeId) (StandardAlias, bool) {
	a, ok := standardAliasByID[id.String()]
	return a, ok
}
