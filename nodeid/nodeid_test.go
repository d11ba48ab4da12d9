// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeId(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NodeId
		wantErr bool
	}{
		{name: "numeric with namespace", input: "ns=2;i=1", want: NewNumeric(2, 1)},
		{name: "numeric default namespace", input: "i=85", want: NewNumeric(0, 85)},
		{name: "string identifier", input: "ns=3;s=Demo.Temperature", want: NewString(3, "Demo.Temperature")},
		{name: "guid identifier", input: "ns=1;g=72962B91-FA75-4ae6-8D28-B404DC7DAF63", want: NodeId{Namespace: 1, Type: IdentifierGUID, GUID: "72962B91-FA75-4ae6-8D28-B404DC7DAF63"}},
		{name: "malformed", input: "ns=2", wantErr: true},
		{name: "unknown type", input: "ns=2;x=1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNodeId(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNodeIdStringRoundTrip(t *testing.T) {
	ids := []NodeId{
		NewNumeric(0, 85),
		NewNumeric(2, 1001),
		NewString(4, "Demo.Temperature"),
	}
	for _, id := range ids {
		parsed, err := ParseNodeId(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equal(parsed), "round trip mismatch for %s", id)
	}
}

func TestExpandedNodeIdStringRoundTrip(t *testing.T) {
	tests := []ExpandedNodeId{
		NewExpandedNodeId(NewNumeric(0, 85)),
		{NodeId: NewNumeric(0, 1), NamespaceURI: "http://example.org/UA/"},
		{NodeId: NewNumeric(2, 1), ServerIndex: 1},
	}
	for _, e := range tests {
		parsed, err := ParseExpandedNodeId(e.String())
		require.NoError(t, err)
		assert.True(t, e.Equal(parsed), "round trip mismatch for %s", e)
	}
}

func TestNodeIdIsNull(t *testing.T) {
	assert.True(t, NodeId{}.IsNull())
	assert.False(t, NewNumeric(0, 1).IsNull())
	assert.False(t, NewNumeric(1, 0).IsNull())
}

func TestNodeIdLessOrdering(t *testing.T) {
	a := NewNumeric(0, 1)
	b := NewNumeric(0, 2)
	c := NewNumeric(1, 0)
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func TestNodeIdHashStable(t *testing.T) {
	id := NewString(2, "Demo.Temperature")
	assert.Equal(t, id.Hash(), id.Hash())
	other := NewString(2, "Demo.Pressure")
	assert.NotEqual(t, id.Hash(), other.Hash())
}
