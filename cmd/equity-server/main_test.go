package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokermath/internal/config"
)

func TestNewServerDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()

	srv, cleanup, err := newServer(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServerWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Default()
	cfg.Cache.RedisAddr = mr.Addr()

	_, cleanup, err := newServer(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	cleanup()
}

func TestNewServerErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.TablePath = filepath.Join(t.TempDir(), "missing.bin")
	_, cleanup, err := newServer(context.Background(), cfg, log.New(io.Discard))
	assert.Error(t, err)
	cleanup()

	cfg = config.Default()
	cfg.Cache.RedisAddr = "127.0.0.1:1"
	_, cleanup, err = newServer(context.Background(), cfg, log.New(io.Discard))
	assert.Error(t, err)
	cleanup()
}
