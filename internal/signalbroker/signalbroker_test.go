// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package signalbroker

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DeliversSignal(t *testing.T) {
	ch := New(context.Background(), syscall.SIGUSR1)
	defer Stop(ch)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case sig := <-ch:
		assert.Equal(t, syscall.SIGUSR1, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not delivered")
	}
}

func TestStop_OnlyAffectsOneTransfer(t *testing.T) {
	running := New(context.Background(), syscall.SIGUSR1)
	defer Stop(running)

	finished := New(context.Background(), syscall.SIGUSR1)
	Stop(finished)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case sig := <-running:
		assert.Equal(t, syscall.SIGUSR1, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("a running transfer stopped receiving signals")
	}

	select {
	case sig := <-finished:
		t.Fatalf("stopped channel received %s", sig)
	case <-time.After(50 * time.Millisecond):
	}
}
