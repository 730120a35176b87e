//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package errors

import (
	"fmt"
)

// Statement monitor error codes: 18000-18999
const (
	E_INTERNAL              ErrorCode = 18000
	E_MONITOR_NOT_STARTED   ErrorCode = 18010
	E_MONITOR_CONFIG        ErrorCode = 18020
	E_STATEMENT_TOO_COMPLEX ErrorCode = 18030
	W_UNRECOGNIZED_NODE     ErrorCode = 18040
	W_TEXT_BUFFER_FULL      ErrorCode = 18050
)

func NewMonitorNotStartedError(op string) Error {
	return &err{level: ERROR, ICode: E_MONITOR_NOT_STARTED, IKey: "monitor.not_started",
		InternalMsg:    fmt.Sprintf("Statement monitor is not started: %s() called before Start()", op),
		InternalCaller: CallerN(1)}
}

func NewMonitorConfigError(setting string, cause error) Error {
	return &err{level: ERROR, ICode: E_MONITOR_CONFIG, IKey: "monitor.config", ICause: cause,
		InternalMsg:    fmt.Sprintf("Invalid statement monitor setting: %s", setting),
		InternalCaller: CallerN(1)}
}

func NewStatementTooComplexError(depth int) Error {
	return &err{level: ERROR, ICode: E_STATEMENT_TOO_COMPLEX, IKey: "monitor.too_complex",
		InternalMsg:    fmt.Sprintf("Statement is too complex to fingerprint (depth > %d)", depth),
		InternalCaller: CallerN(1)}
}

func NewUnrecognizedNodeWarning(kind string) Error {
	return &err{level: WARNING, ICode: W_UNRECOGNIZED_NODE, IKey: "monitor.unrecognized_node",
		InternalMsg:    fmt.Sprintf("Unrecognized statement node kind: %s", kind),
		InternalCaller: CallerN(1)}
}

func NewTextBufferFullWarning(bucket int) Error {
	return &err{level: WARNING, ICode: W_TEXT_BUFFER_FULL, IKey: "monitor.text_buffer_full",
		InternalMsg:    fmt.Sprintf("No space left in statement text buffer for bucket %d", bucket),
		InternalCaller: CallerN(1)}
}
