package db

import (
	"context"
	"testing"
)

func TestConnectRejectsMalformedURL(t *testing.T) {
	t.Parallel()
	if _, err := Connect(context.Background(), "://not-a-url", 0); err == nil {
		t.Fatal("expected an error for a malformed database url")
	}
}
