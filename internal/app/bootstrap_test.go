package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzmat/MaestroChat/internal/config"
	"github.com/rzmat/MaestroChat/internal/session"
)

func testConfig() *config.MaestroConfig {
	cfg := config.GetDefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	return &cfg
}

func TestNewApplication_PrepopulatedConfig(t *testing.T) {
	var logs bytes.Buffer
	cfg := &Config{LogOutput: &logs, MaestroConfig: testConfig()}

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	defer application.services.Close()

	assert.NotNil(t, application.services.Server)
	assert.IsType(t, &session.MemoryStore{}, application.services.Store)
	assert.Contains(t, logs.String(), "GOOGLE_CLIENT_ID", "missing credentials are warned about at startup")
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	mc := testConfig()
	mc.Server.Port = -1

	_, err := NewApplication(&Config{LogOutput: &bytes.Buffer{}, MaestroConfig: mc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestNewApplication_LoadsFromPath(t *testing.T) {
	cfg := &Config{ConfigPath: t.TempDir(), LogOutput: &bytes.Buffer{}}

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	defer application.services.Close()

	require.NotNil(t, cfg.MaestroConfig)
}

func TestNewApplication_RedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	mc := testConfig()
	mc.Session.Backend = config.SessionBackendRedis
	mc.Session.RedisAddr = addr

	_, err = NewApplication(&Config{LogOutput: &bytes.Buffer{}, MaestroConfig: mc})
	assert.Error(t, err)
}

func TestNewApplication_JSONLogging(t *testing.T) {
	var logs bytes.Buffer
	mc := testConfig()
	mc.Logging.Format = "json"

	application, err := NewApplication(&Config{LogOutput: &logs, MaestroConfig: mc})
	require.NoError(t, err)
	defer application.services.Close()

	assert.Contains(t, logs.String(), `"subsystem":"Bootstrap"`)
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	mc := testConfig()
	mc.Server.Port = port

	application, err := NewApplication(&Config{LogOutput: &bytes.Buffer{}, MaestroConfig: mc})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + application.services.Server.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}
}
