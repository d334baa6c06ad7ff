package cmd

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWebsiteShutsDownOnCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- serveWebsite(ctx, server, func() { close(started) })
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeWebsiteReportsListenError(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NewServeMux()}

	err := serveWebsite(context.Background(), server, func() {})
	require.Error(t, err)
}
