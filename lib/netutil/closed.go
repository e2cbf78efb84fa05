// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// peerGone lists the errno values meaning the other end hung up.
var peerGone = []syscall.Errno{syscall.EPIPE, syscall.ECONNRESET, syscall.ECONNABORTED}

// IsExpectedCloseError reports whether err only says the connection
// ended: EOF, use of a closed connection, or the peer hanging up. A
// socket server drops such connections without replying.
func IsExpectedCloseError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return true
	}
	for _, errno := range peerGone {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
