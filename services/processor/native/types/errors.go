// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package types

import (
	"fmt"
	"github.com/pkg/errors"
)

// ApiError is the error code a failed call reports back to the host.
type ApiError uint32

const (
	API_ERROR_NONE                ApiError = 0
	API_ERROR_INVALID_ARGUMENT    ApiError = 3
	API_ERROR_VALUE_NOT_FOUND     ApiError = 6
	API_ERROR_CONTRACT_NOT_FOUND  ApiError = 7
	API_ERROR_TYPE_MISMATCH       ApiError = 16
	API_ERROR_PERMISSION_DENIED   ApiError = 23
	API_ERROR_MISSING_KEY         ApiError = 24
	API_ERROR_INVALID_ENTRY_POINT ApiError = 41

	USER_ERROR_RESERVED_MIN ApiError = 65536
)

// UserError maps a program-defined error enum into the reserved user range.
func UserError(code uint16) ApiError {
	return USER_ERROR_RESERVED_MIN + ApiError(code)
}

func (e ApiError) IsUserError() bool {
	return e >= USER_ERROR_RESERVED_MIN
}

func (e ApiError) Error() string {
	switch e {
	case API_ERROR_NONE:
		return "none"
	case API_ERROR_INVALID_ARGUMENT:
		return "invalid argument"
	case API_ERROR_VALUE_NOT_FOUND:
		return "value not found"
	case API_ERROR_CONTRACT_NOT_FOUND:
		return "contract not found"
	case API_ERROR_TYPE_MISMATCH:
		return "type mismatch"
	case API_ERROR_PERMISSION_DENIED:
		return "permission denied"
	case API_ERROR_MISSING_KEY:
		return "key not found"
	case API_ERROR_INVALID_ENTRY_POINT:
		return "invalid entry point"
	}
	if e.IsUserError() {
		return fmt.Sprintf("user error %d", uint32(e-USER_ERROR_RESERVED_MIN))
	}
	return fmt.Sprintf("api error %d", uint32(e))
}

// ApiErrorOf finds the ApiError at the root of a wrapped error chain.
func ApiErrorOf(err error) (ApiError, bool) {
	if err == nil {
		return API_ERROR_NONE, false
	}
	apiErr, ok := errors.Cause(err).(ApiError)
	return apiErr, ok
}

var ErrDuplicateEntryPoint = errors.New("entry point with this name already exists")
var ErrDuplicateNamedKey = errors.New("named key with this name already exists")
