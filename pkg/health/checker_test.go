package health

import (
	"testing"
	"time"
)

func TestDefaultCheckerConfig(t *testing.T) {
	config := DefaultCheckerConfig()

	if config.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", config.Timeout)
	}
}

func TestDatabaseChecker_NilPool(t *testing.T) {
	checker := DatabaseChecker(nil)
	err := checker()

	if err == nil {
		t.Error("Expected error for nil database")
	}
	if err.Error() != "database connection is nil" {
		t.Errorf("Error = %v, want 'database connection is nil'", err)
	}
}

func TestRedisChecker_NilClient(t *testing.T) {
	checker := RedisChecker(nil)
	err := checker()

	if err == nil {
		t.Error("Expected error for nil redis client")
	}
	if err.Error() != "redis client is nil" {
		t.Errorf("Error = %v, want 'redis client is nil'", err)
	}
}
