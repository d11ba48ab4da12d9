// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Command nodesetexport exports an OPC UA server's address space as a
// NodeSet 1.04 XML file. It is the CLI front end of
// github.com/xydan83/open62541-nodeset-exporter-sub001. The export runs
// on the calling goroutine under a context that an interrupt or SIGTERM
// cancels; the export core observes the cancellation between batches.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xydan83/open62541-nodeset-exporter-sub001/adapter/liveclient"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/exportloop"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/logging"
	"github.com/xydan83/open62541-nodeset-exporter-sub001/nodeid"
)

// version is overridden at build time via -ldflags.
var version = "dev"

type cliFlags struct {
	endpoint          string
	nodeIDs           []string
	outputFile        string
	username          string
	password          string
	securityPolicy    string
	securityMode      string
	certFile          string
	keyFile           string
	maxNodesRequest   uint32
	requestTimeoutMs  int64
	connectTimeoutMs  int64
	perfTimer         bool
	parentStartNode   string
	configFile        string
	flatEnable        bool
	flatCreateMissing bool
	flatAllowAbstract bool
	ns0CustomReady    bool
	logLevel          string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nodesetexport:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f cliFlags

	cmd := &cobra.Command{
		Use:     "nodesetexport",
		Short:   "Export an OPC UA server's address space as NodeSet 1.04 XML",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "OPC UA server endpoint URL (opc.tcp://host:port)")
	cmd.Flags().StringArrayVar(&f.nodeIDs, "nodeids", nil, "starting node id as name=nodeid, repeatable (e.g. --nodeids root=ns=2;i=1000)")
	cmd.Flags().StringVar(&f.outputFile, "file", "", "output NodeSet XML file path")
	cmd.Flags().StringVar(&f.username, "username", "", "username for username_password authentication")
	cmd.Flags().StringVar(&f.password, "password", "", "password for username_password authentication")
	cmd.Flags().StringVar(&f.securityPolicy, "security-policy", "None", "security policy: None, Basic256, Basic256Sha256")
	cmd.Flags().StringVar(&f.securityMode, "security-mode", "None", "security mode: None, Sign, SignAndEncrypt")
	cmd.Flags().StringVar(&f.certFile, "cert-file", "", "client certificate file (certificate auth)")
	cmd.Flags().StringVar(&f.keyFile, "key-file", "", "client private key file (certificate auth)")
	cmd.Flags().Uint32Var(&f.maxNodesRequest, "maxnrd", 1000, "maximum nodes requested per read/browse batch (0 = unbounded)")
	cmd.Flags().Int64Var(&f.requestTimeoutMs, "timeout", 5000, "per-request timeout in milliseconds")
	cmd.Flags().Int64Var(&f.connectTimeoutMs, "connect-timeout", 10000, "connection timeout in milliseconds")
	cmd.Flags().BoolVar(&f.perfTimer, "perftimer", false, "log elapsed-time measurements for each export phase")
	cmd.Flags().StringVar(&f.parentStartNode, "parent", "", "replacement ParentNodeId for synthesized start nodes (default i=85/ObjectsFolder)")
	cmd.Flags().StringVar(&f.configFile, "config", "", "optional YAML config file overlay")
	cmd.Flags().BoolVar(&f.flatEnable, "flat", false, "flat mode: strip hierarchical references from the output")
	cmd.Flags().BoolVar(&f.flatCreateMissing, "flat-create-missing", false, "flat mode: synthesize a start node if none was read (requires --flat)")
	cmd.Flags().BoolVar(&f.flatAllowAbstract, "flat-allow-abstract", false, "keep Variables' HasTypeDefinition to BaseVariableType instead of rewriting it to BaseDataVariableType, and give a synthesized start node inverse HasComponent references to BaseDataType and BaseObjectType")
	cmd.Flags().BoolVar(&f.ns0CustomReady, "ns0-custom", false, "treat ns=0 as containing custom (non-standard) nodes ready for export")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func run(cmd *cobra.Command, f cliFlags) error {
	if f.configFile != "" {
		fc, err := loadFileConfig(f.configFile)
		if err != nil {
			return err
		}
		mergeFileConfig(cmd, &f, fc)
	}

	if f.endpoint == "" {
		return fmt.Errorf("--endpoint is required")
	}
	if f.outputFile == "" {
		return fmt.Errorf("--file is required")
	}
	roots, err := parseNodeIDFlags(f.nodeIDs)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("at least one --nodeids entry is required")
	}

	zapLogger, err := buildZapLogger(f.logLevel)
	if err != nil {
		return err
	}
	defer zapLogger.Sync() //nolint:errcheck

	authType := "anonymous"
	if f.username != "" {
		authType = "username_password"
	} else if f.certFile != "" {
		authType = "certificate"
	}

	client := liveclient.New(liveclient.Config{
		Endpoint:          f.endpoint,
		SecurityPolicy:    f.securityPolicy,
		SecurityMode:      f.securityMode,
		AuthType:          authType,
		Username:          f.username,
		Password:          f.password,
		CertFile:          f.certFile,
		KeyFile:           f.keyFile,
		RequestTimeout:    f.requestTimeoutMs,
		ConnectionTimeout: f.connectTimeoutMs,
	}, zapLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	opts := exportloop.DefaultOptions()
	opts.Logger = logging.NewZapLogger(zapLogger)
	opts.IsPerfTimerEnable = f.perfTimer
	opts.NumberOfMaxNodesToRequestData = f.maxNodesRequest
	opts.MaxReferencesPerNode = f.maxNodesRequest
	opts.MaxBrowseContinuationPoints = 0
	opts.MaxNodesPerBrowse = f.maxNodesRequest
	opts.MaxNodesPerRead = f.maxNodesRequest
	opts.NS0CustomNodesReadyToWork = f.ns0CustomReady
	opts.FlatListOfNodes = exportloop.FlatListOfNodes{
		IsEnable:               f.flatEnable,
		CreateMissingStartNode: f.flatCreateMissing,
		AllowAbstractVariable:  f.flatAllowAbstract,
	}
	if f.parentStartNode != "" {
		id, err := nodeid.ParseExpandedNodeId(f.parentStartNode)
		if err != nil {
			return fmt.Errorf("--parent: %w", err)
		}
		opts.ParentStartNodeReplacer = id
	}

	client.SetMaxReferencesPerNode(f.maxNodesRequest)
	client.SetMaxNodesPerBrowse(f.maxNodesRequest)
	client.SetMaxNodesPerRead(f.maxNodesRequest)

	return exportloop.ExportNodesetFromServer(ctx, client, roots, exportloop.FileSink(f.outputFile), opts)
}

// mergeFileConfig fills in any flag the user did not set explicitly
// from the YAML overlay; explicit flags always win.
func mergeFileConfig(cmd *cobra.Command, f *cliFlags, fc *fileConfig) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if !set("endpoint") && fc.Endpoint != "" {
		f.endpoint = fc.Endpoint
	}
	if !set("security-policy") && fc.SecurityPolicy != "" {
		f.securityPolicy = fc.SecurityPolicy
	}
	if !set("security-mode") && fc.SecurityMode != "" {
		f.securityMode = fc.SecurityMode
	}
	if !set("username") && fc.Username != "" {
		f.username = fc.Username
	}
	if !set("password") && fc.Password != "" {
		f.password = fc.Password
	}
	if !set("cert-file") && fc.CertFile != "" {
		f.certFile = fc.CertFile
	}
	if !set("key-file") && fc.KeyFile != "" {
		f.keyFile = fc.KeyFile
	}
	if !set("timeout") && fc.RequestTimeoutMs != 0 {
		f.requestTimeoutMs = fc.RequestTimeoutMs
	}
	if !set("connect-timeout") && fc.ConnectTimeoutMs != 0 {
		f.connectTimeoutMs = fc.ConnectTimeoutMs
	}
	if !set("file") && fc.OutputFile != "" {
		f.outputFile = fc.OutputFile
	}
	if !set("maxnrd") && fc.BatchSize != 0 {
		f.maxNodesRequest = fc.BatchSize
	}
	if !set("perftimer") && fc.PerfTimerEnable {
		f.perfTimer = fc.PerfTimerEnable
	}
	if !set("ns0-custom") && fc.NS0CustomReady {
		f.ns0CustomReady = fc.NS0CustomReady
	}
	if !set("flat") && fc.FlatEnable {
		f.flatEnable = fc.FlatEnable
	}
	if !set("flat-create-missing") && fc.FlatCreateMissing {
		f.flatCreateMissing = fc.FlatCreateMissing
	}
	if !set("flat-allow-abstract") && fc.FlatAllowAbstract {
		f.flatAllowAbstract = fc.FlatAllowAbstract
	}
	if !set("parent") && fc.ParentStartNode != "" {
		f.parentStartNode = fc.ParentStartNode
	}
	if len(f.nodeIDs) == 0 && len(fc.StartingNodeIds) > 0 {
		for name, id := range fc.StartingNodeIds {
			f.nodeIDs = append(f.nodeIDs, name+"="+id)
		}
	}
}

// parseNodeIDFlags parses repeated name=nodeid entries into the root map
// ExportNodesetFromServer expects.
func parseNodeIDFlags(entries []string) (map[string]nodeid.ExpandedNodeId, error) {
	roots := make(map[string]nodeid.ExpandedNodeId, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("--nodeids: malformed entry %q, expected name=nodeid", entry)
		}
		id, err := nodeid.ParseExpandedNodeId(parts[1])
		if err != nil {
			return nil, fmt.Errorf("--nodeids: %q: %w", entry, err)
		}
		roots[parts[0]] = id
	}
	return roots, nil
}

func buildZapLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
