package providers

import (
	"testing"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/teststubs"
)

func TestGatewayInterfaceImplemented(t *testing.T) {
	var _ Gateway = (*teststubs.StubGateway)(nil)
	var _ Gateway = (*retryingGateway)(nil)
	var _ Gateway = (*rateLimitedGateway)(nil)
}
