// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package exportloop implements the export core: Options, the status
// machine, the namespace resolver, the starting-node crossing check, and
// the batch loop that ties the browse driver, ServerAdapter, rewriting
// pipeline and encoder together (SPEC_FULL.md §4.3-§4.9, §7).
package exportloop

import "fmt"

// SubStatus is the closed failure-reason taxonomy of SPEC_FULL.md §7.
type SubStatus uint8

const (
	SubStatusNone SubStatus = iota
	SubStatusEmptyNodeIdList
	SubStatusInvalidOption
	SubStatusTransportError
	SubStatusUnknownNode
	SubStatusEncoderError
	SubStatusInterruptDetected
	SubStatusBadConfiguration
)

func (s SubStatus) String() string {
	switch s {
	case SubStatusEmptyNodeIdList:
		return "EmptyNodeIdList"
	case SubStatusInvalidOption:
		return "InvalidOption"
	case SubStatusTransportError:
		return "TransportError"
	case SubStatusUnknownNode:
		return "UnknownNode"
	case SubStatusEncoderError:
		return "EncoderError"
	case SubStatusInterruptDetected:
		return "InterruptDetected"
	case SubStatusBadConfiguration:
		return "BadConfiguration"
	default:
		return "None"
	}
}

// ExportError is the Status/error hybrid of SPEC_FULL.md §7: it
// implements the standard error interface (so it composes with
// errors.Is/errors.As) while also carrying a closed SubStatus for
// callers that want to branch on failure reason without string parsing.
type ExportError struct {
	SubStatus SubStatus
	Message   string
	Cause     error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed (%s): %s: %v", e.SubStatus, e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed (%s): %s", e.SubStatus, e.Message)
}

func (e *ExportError) Unwrap() error { return e.Cause }

func fail(sub SubStatus, msg string, cause error) *ExportError {
	return &ExportError{SubStatus: sub, Message: msg, Cause: cause}
}

// State is a point in the status machine of SPEC_FULL.md §4.9.
type State uint8

const (
	StateInit State = iota
	StateNamespacesCollected
	StateBatchLoop
	StateAliasesEmitted
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNamespacesCollected:
		return "NamespacesCollected"
	case StateBatchLoop:
		return "BatchLoop"
	case StateAliasesEmitted:
		return "AliasesEmitted"
	case StateFinalized:
		return "Finalized"
	case StateFailed:
		return "Failed"
	default:
		return "Init"
	}
}
