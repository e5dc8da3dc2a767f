package main

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/infrastructure/config"
	grpcapi "github.com/xiebiao/booknotes/internal/interface/grpc"
)

func TestOptionalAdaptersDisabledByConfig(t *testing.T) {
	cfg := &config.Config{}

	assert.IsType(t, library.NopCache{}, provideViewCache(nil, cfg))

	pub, cleanup, err := provideEventPublisher(cfg, nil)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, library.NopPublisher{}, pub)
}

func TestSignInLimiterFromConfig(t *testing.T) {
	cfg := &config.Config{RateLimit: config.RateLimitConfig{SignInPerMinute: 5, Burst: 1}}
	l := provideSignInLimiter(cfg)
	assert.True(t, l.Allow("203.0.113.9"))
	assert.False(t, l.Allow("203.0.113.9"))
}

func TestNewHTTPServerTimeouts(t *testing.T) {
	srv := newHTTPServer(":0", nil, time.Second, 2*time.Second)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
}

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func TestRun_GRPCBindFailureReleasesHTTPPort(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()

	httpPort := freePort(t)
	app := &App{
		Config: &config.Config{Server: config.ServerConfig{
			Port:     httpPort,
			GRPCPort: taken.Addr().(*net.TCPAddr).Port,
		}},
		Health: grpcapi.NewHealthServer(nil, nil),
	}

	err = run(context.Background(), app, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen grpc")

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", httpPort))
	require.NoError(t, err)
	_ = lis.Close()
}
