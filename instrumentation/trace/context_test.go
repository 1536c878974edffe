// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trace

import (
	"context"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestNewContext_SurvivesDerivedContexts(t *testing.T) {
	ctx, cancel := context.WithCancel(NewContext(context.Background(), "ExecuteBlock"))
	defer cancel()

	c, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "ExecuteBlock", c.name)
	require.True(t, strings.HasPrefix(c.RequestId(), "ExecuteBlock-"))

	field := LogFieldFrom(ctx)
	require.Equal(t, "trace", field.Key)
	require.Equal(t, "ExecuteBlock/"+c.RequestId(), field.StringVal)
}

func TestLogFieldFrom_UntracedContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	var missing *Context
	require.Empty(t, missing.RequestId())
	require.Equal(t, "none", LogFieldFrom(context.Background()).StringVal)
}
