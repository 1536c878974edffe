// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trace

import (
	"context"
	"fmt"
	"github.com/orbs-network/scribe/log"
	"time"
)

type traceKey struct{}

// Context names one traced unit of work, a block execution or a state query.
type Context struct {
	name      string
	requestId string
}

// NewContext marks ctx as the start of a traced request, all log lines
// written with LogFieldFrom on a derived context carry the same request id.
func NewContext(parent context.Context, name string) context.Context {
	return context.WithValue(parent, traceKey{}, &Context{
		name:      name,
		requestId: fmt.Sprintf("%s-%d", name, time.Now().UnixNano()),
	})
}

func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(traceKey{}).(*Context)
	return c, ok
}

func (c *Context) RequestId() string {
	if c == nil {
		return ""
	}
	return c.requestId
}

func LogFieldFrom(ctx context.Context) *log.Field {
	if c, ok := FromContext(ctx); ok {
		return log.String("trace", c.name+"/"+c.requestId)
	}
	return log.String("trace", "none")
}
