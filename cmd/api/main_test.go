package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"planedge/backend/internal/config"
)

func TestNewRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, newRedisClient(&config.Config{}))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	// 127.0.0.1:1 には接続できない
	assert.Nil(t, newRedisClient(&config.Config{RedisAddr: "127.0.0.1:1"}))
}
