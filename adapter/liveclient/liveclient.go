// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package liveclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
	"go.uber.org/zap"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/model"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeclass"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/serveradapter"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"
)

// compile-time assertion that Client satisfies serveradapter.ServerAdapter.
var _ serveradapter.ServerAdapter = (*Client)(nil)

// Config carries the connection parameters Client.Connect needs,
// mirroring the shape of the teacher's Config (endpoint, security
// policy/mode, auth) without the LogObject-specific fields.
type Config struct {
	Endpoint          string
	SecurityPolicy    string // "None", "Basic256", "Basic256Sha256"
	SecurityMode      string // "None", "Sign", "SignAndEncrypt"
	AuthType          string // "anonymous", "username_password", "certificate"
	Username          string
	Password          string
	CertFile          string
	KeyFile           string
	RequestTimeout    int64 // milliseconds, 0 = library default
	ConnectionTimeout int64 // milliseconds, 0 = library default
}

// Client implements serveradapter.ServerAdapter against a live OPC UA
// server. One Client serves one export run; Connect/Disconnect bracket
// its use the way the teacher's opcuaClient does.
type Client struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	client *opcua.Client

	maxReferencesPerNode        uint32
	maxBrowseContinuationPoints uint32
	maxNodesPerBrowse           uint32
	maxNodesPerRead             uint32
}

// New builds a disconnected Client. Call Connect before using it as a
// serveradapter.ServerAdapter.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Connect establishes the session, selecting an endpoint matching the
// configured security policy/mode and applying the configured
// authentication, following the same endpoint-discovery-then-connect
// shape as the teacher's opcuaClient.Connect.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	endpoints, err := opcua.GetEndpoints(ctx, c.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("liveclient: get endpoints: %w", err)
	}
	if len(endpoints) == 0 {
		return fmt.Errorf("liveclient: no endpoints available at %s", c.cfg.Endpoint)
	}

	ep := c.selectEndpoint(endpoints)
	if ep == nil {
		return fmt.Errorf("liveclient: no endpoint matches security policy %q mode %q", c.cfg.SecurityPolicy, c.cfg.SecurityMode)
	}

	opts := []opcua.Option{
		opcua.SecurityFromEndpoint(ep, ua.UserTokenTypeAnonymous),
	}
	switch c.cfg.AuthType {
	case "username_password":
		opts = append(opts, opcua.AuthUsername(c.cfg.Username, c.cfg.Password))
	case "certificate":
		if c.cfg.CertFile != "" && c.cfg.KeyFile != "" {
			opts = append(opts, opcua.CertificateFile(c.cfg.CertFile), opcua.PrivateKeyFile(c.cfg.KeyFile))
		}
	default:
		opts = append(opts, opcua.AuthAnonymous())
	}
	if c.cfg.RequestTimeout > 0 {
		opts = append(opts, opcua.RequestTimeout(time.Duration(c.cfg.RequestTimeout)*time.Millisecond))
	}
	if c.cfg.ConnectionTimeout > 0 {
		opts = append(opts, opcua.DialTimeout(time.Duration(c.cfg.ConnectionTimeout)*time.Millisecond))
	}

	client, err := opcua.NewClient(c.cfg.Endpoint, opts...)
	if err != nil {
		return fmt.Errorf("liveclient: create client: %w", err)
	}
	c.client = client

	if err := c.client.Connect(ctx); err != nil {
		c.client = nil
		return fmt.Errorf("liveclient: connect: %w", err)
	}

	c.logger.Info("connected to OPC UA server",
		zap.String("endpoint", ep.EndpointURL),
		zap.String("security_policy", ep.SecurityPolicyURI),
		zap.String("security_mode", ep.SecurityMode.String()))
	return nil
}

// Disconnect closes the session. Safe to call on an already-closed or
// never-connected Client.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close(ctx)
	c.client = nil
	if err != nil {
		return fmt.Errorf("liveclient: disconnect: %w", err)
	}
	c.logger.Info("disconnected from OPC UA server")
	return nil
}

// selectEndpoint mirrors the teacher's selectEndpoint: prefer an exact
// policy+mode match, then a mode-only match, then the first endpoint.
func (c *Client) selectEndpoint(endpoints []*ua.EndpointDescription) *ua.EndpointDescription {
	wantPolicy := securityPolicyURI(c.cfg.SecurityPolicy)
	wantMode := securityModeValue(c.cfg.SecurityMode)

	for _, ep := range endpoints {
		if ep.SecurityPolicyURI == wantPolicy && ep.SecurityMode == wantMode {
			return ep
		}
	}
	for _, ep := range endpoints {
		if ep.SecurityMode == wantMode {
			return ep
		}
	}
	if len(endpoints) > 0 {
		return endpoints[0]
	}
	return nil
}

func securityPolicyURI(policy string) string {
	switch policy {
	case "Basic256":
		return "http://opcfoundation.org/UA/SecurityPolicy#Basic256"
	case "Basic256Sha256":
		return ua.SecurityPolicyURIBasic256Sha256
	default:
		return ua.SecurityPolicyURINone
	}
}

func securityModeValue(mode string) ua.MessageSecurityMode {
	switch mode {
	case "Sign":
		return ua.MessageSecurityModeSign
	case "SignAndEncrypt":
		return ua.MessageSecurityModeSignAndEncrypt
	default:
		return ua.MessageSecurityModeNone
	}
}

func (c *Client) SetMaxReferencesPerNode(n uint32)        { c.maxReferencesPerNode = n }
func (c *Client) SetMaxBrowseContinuationPoints(n uint32) { c.maxBrowseContinuationPoints = n }
func (c *Client) SetMaxNodesPerBrowse(n uint32)           { c.maxNodesPerBrowse = n }
func (c *Client) SetMaxNodesPerRead(n uint32)             { c.maxNodesPerRead = n }

// ReadNodeClasses reads the NodeClass attribute of each id, batching up
// to maxNodesPerRead reads per round trip.
func (c *Client) ReadNodeClasses(ctx context.Context, ids []nodeid.ExpandedNodeId) ([]serveradapter.NodeClassResult, error) {
	out := make([]serveradapter.NodeClassResult, len(ids))
	err := c.batched(len(ids), c.maxNodesPerRead, func(lo, hi int) error {
		window := ids[lo:hi]
		nodesToRead := make([]*ua.ReadValueID, len(window))
		for i, id := range window {
			n, err := toGopcuaNodeID(id.NodeId)
			if err != nil {
				return err
			}
			nodesToRead[i] = &ua.ReadValueID{NodeID: n, AttributeID: ua.AttributeIDNodeClass}
		}
		resp, err := c.readWithLock(ctx, nodesToRead)
		if err != nil {
			return err
		}
		for i, dv := range resp.Results {
			if dv.Status != ua.StatusOK || dv.Value == nil {
				out[lo+i] = serveradapter.NodeClassResult{ID: window[i], OK: false}
				continue
			}
			raw := dv.Value.Value()
			nc, ok := raw.(int32)
			class := nodeclass.Unspecified
			if ok {
				class = fromGopcuaNodeClass(ua.NodeClass(nc))
			}
			out[lo+i] = serveradapter.NodeClassResult{ID: window[i], Class: class, OK: true}
		}
		return nil
	})
	return out, err
}

// ReadNodeAttributes reads, per request, the attributes it asks for in
// one batched Read call per window of maxNodesPerRead requests.
func (c *Client) ReadNodeAttributes(ctx context.Context, requests []serveradapter.AttributeRequest) ([]map[model.AttributeID]uavariant.Variant, error) {
	out := make([]map[model.AttributeID]uavariant.Variant, len(requests))
	for i := range out {
		out[i] = make(map[model.AttributeID]uavariant.Variant)
	}

	type slot struct {
		reqIdx int
		attr   model.AttributeID
	}
	var flatIDs []*ua.ReadValueID
	var slots []slot
	for reqIdx, req := range requests {
		n, err := toGopcuaNodeID(req.ID.NodeId)
		if err != nil {
			return nil, err
		}
		for _, attr := range req.Attributes {
			flatIDs = append(flatIDs, &ua.ReadValueID{NodeID: n, AttributeID: ua.AttributeID(attr)})
			slots = append(slots, slot{reqIdx: reqIdx, attr: attr})
		}
	}

	err := c.batched(len(flatIDs), c.maxNodesPerRead, func(lo, hi int) error {
		resp, err := c.readWithLock(ctx, flatIDs[lo:hi])
		if err != nil {
			return err
		}
		for i, dv := range resp.Results {
			s := slots[lo+i]
			if dv.Status != ua.StatusOK || dv.Value == nil {
				continue
			}
			out[s.reqIdx][s.attr] = fromGopcuaVariant(dv.Value)
		}
		return nil
	})
	return out, err
}

// ReadNodeDataValue reads a single node's Value attribute, used by the
// namespace resolver for the NamespaceArray.
func (c *Client) ReadNodeDataValue(ctx context.Context, id nodeid.ExpandedNodeId) (uavariant.Variant, error) {
	n, err := toGopcuaNodeID(id.NodeId)
	if err != nil {
		return uavariant.Null, err
	}
	resp, err := c.readWithLock(ctx, []*ua.ReadValueID{{NodeID: n, AttributeID: ua.AttributeIDValue}})
	if err != nil {
		return uavariant.Null, err
	}
	if len(resp.Results) == 0 || resp.Results[0].Status != ua.StatusOK {
		return uavariant.Null, fmt.Errorf("liveclient: read Value of %s failed", id)
	}
	return fromGopcuaVariant(resp.Results[0].Value), nil
}

// ReadNodeReferences reads every reference (both directions, unfiltered
// by type) attached to each id, via an un-directed Browse.
func (c *Client) ReadNodeReferences(ctx context.Context, ids []nodeid.ExpandedNodeId) ([][]model.Reference, error) {
	out := make([][]model.Reference, len(ids))
	for i, id := range ids {
		refs, err := c.browseOne(ctx, id, ua.BrowseDirectionBoth)
		if err != nil {
			return nil, err
		}
		out[i] = refs
	}
	return out, nil
}

// BrowseChildren returns the forward references of id for the browse
// driver; hierarchical-type filtering is the caller's responsibility
// (serveradapter.ServerAdapter's documented contract).
func (c *Client) BrowseChildren(ctx context.Context, id nodeid.ExpandedNodeId) ([]model.Reference, error) {
	return c.browseOne(ctx, id, ua.BrowseDirectionForward)
}

func (c *Client) browseOne(ctx context.Context, id nodeid.ExpandedNodeId, dir ua.BrowseDirection) ([]model.Reference, error) {
	n, err := toGopcuaNodeID(id.NodeId)
	if err != nil {
		return nil, err
	}
	desc := &ua.BrowseDescription{
		NodeID:          n,
		BrowseDirection: dir,
		IncludeSubtypes: true,
		NodeClassMask:   0, // no filter: the rewriting pipeline needs every class
		ResultMask:      uint32(ua.BrowseResultMaskAll),
	}
	req := &ua.BrowseRequest{
		NodesToBrowse:             []*ua.BrowseDescription{desc},
		RequestedMaxReferencesPerNode: c.maxReferencesPerNode,
	}

	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return nil, fmt.Errorf("liveclient: not connected")
	}

	resp, err := client.Browse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("liveclient: browse %s: %w", id, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	result := resp.Results[0]
	if result.StatusCode != ua.StatusOK {
		return nil, fmt.Errorf("liveclient: browse %s returned status %v", id, result.StatusCode)
	}

	refs, err := convertReferences(result.References)
	if err != nil {
		return nil, err
	}

	cp := result.ContinuationPoint
	points := 0
	for len(cp) > 0 {
		points++
		if c.maxBrowseContinuationPoints > 0 && uint32(points) > c.maxBrowseContinuationPoints {
			c.logger.Warn("browse continuation point limit reached", zap.String("node_id", id.String()))
			break
		}
		nextResp, err := client.BrowseNext(ctx, &ua.BrowseNextRequest{
			ReleaseContinuationPoints: false,
			ContinuationPoints:        [][]byte{cp},
		})
		if err != nil {
			return nil, fmt.Errorf("liveclient: browse next %s: %w", id, err)
		}
		if len(nextResp.Results) == 0 {
			break
		}
		more, err := convertReferences(nextResp.Results[0].References)
		if err != nil {
			return nil, err
		}
		refs = append(refs, more...)
		cp = nextResp.Results[0].ContinuationPoint
	}
	return refs, nil
}

func convertReferences(wire []*ua.ReferenceDescription) ([]model.Reference, error) {
	out := make([]model.Reference, 0, len(wire))
	for _, ref := range wire {
		refType, err := fromGopcuaNodeID(ref.ReferenceTypeID)
		if err != nil {
			return nil, err
		}
		target, err := fromGopcuaExpandedNodeID(ref.NodeID)
		if err != nil {
			return nil, err
		}
		browseName := ""
		if ref.BrowseName != nil {
			browseName = ref.BrowseName.Name
		}
		out = append(out, model.Reference{
			ReferenceType: refType,
			Target:        target,
			IsForward:     ref.IsForward,
			TargetClass:   fromGopcuaNodeClass(ref.NodeClass),
			BrowseName:    browseName,
		})
	}
	return out, nil
}

// readWithLock takes the current *opcua.Client under the lock (so a
// concurrent Connect/Disconnect cannot swap it mid-read) and issues the
// Read outside it; Read calls themselves are not serialized.
func (c *Client) readWithLock(ctx context.Context, toRead []*ua.ReadValueID) (*ua.ReadResponse, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return nil, fmt.Errorf("liveclient: not connected")
	}
	resp, err := client.Read(ctx, &ua.ReadRequest{
		TimestampsToReturn: ua.TimestampsToReturnNeither,
		NodesToRead:        toRead,
	})
	if err != nil {
		return nil, fmt.Errorf("liveclient: read: %w", err)
	}
	return resp, nil
}

// batched splits [0,total) into windows of size batchSize (all of it in
// one window if batchSize is 0) and calls fn(lo, hi) for each.
func (c *Client) batched(total int, batchSize uint32, fn func(lo, hi int) error) error {
	if total == 0 {
		return nil
	}
	size := int(batchSize)
	if size <= 0 {
		size = total
	}
	for lo := 0; lo < total; lo += size {
		hi := lo + size
		if hi > total {
			hi = total
		}
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
