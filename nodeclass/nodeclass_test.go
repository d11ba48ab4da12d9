// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package nodeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

func TestIgnoredClasses(t *testing.T) {
	hierarchical := IgnoredClasses(false)
	assert.True(t, hierarchical[Method])
	assert.True(t, hierarchical[View])
	assert.False(t, hierarchical[ObjectType])

	flat := IgnoredClasses(true)
	assert.True(t, flat[ObjectType])
	assert.True(t, flat[VariableType])
	assert.True(t, flat[ReferenceType])
	assert.True(t, flat[DataType])
}

func TestIsType(t *testing.T) {
	assert.True(t, ObjectType.IsType())
	assert.True(t, DataType.IsType())
	assert.False(t, Object.IsType())
	assert.False(t, Variable.IsType())
}

func TestIsHierarchical(t *testing.T) {
	assert.True(t, IsHierarchical(HasComponent))
	assert.True(t, IsHierarchical(Organizes))
	assert.True(t, IsHierarchical(HasSubtype))
	assert.False(t, IsHierarchical(HasTypeDefinition))
	assert.False(t, IsHierarchical(nodeid.NewNumeric(2, 100)))
}

func TestAliasNameFor(t *testing.T) {
	name, ok := AliasNameFor(BaseDataType)
	assert.True(t, ok)
	assert.Equal(t, "BaseDataType", name)

	_, ok = AliasNameFor(nodeid.NewNumeric(2, 9999))
	assert.False(t, ok)
}
