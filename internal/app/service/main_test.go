package service

import (
	"os"
	"testing"
	"time"

	"quizhub/internal/common/security"
	"quizhub/internal/platform/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
	os.Exit(m.Run())
}
