package server

import (
	"fmt"
	"strings"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers/mock"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/providers/sportsapi"
)

// normalizeProviderName returns a lower-cased provider name for metrics and logs, derived
// from the gateway itself when it is a known implementation.
func normalizeProviderName(raw string, gateway providers.Gateway) string {
	switch gateway.(type) {
	case *mock.Provider:
		return mock.ProviderName
	case *sportsapi.Client:
		return sportsapi.ProviderName
	}
	if raw != "" {
		return strings.ToLower(raw)
	}
	if gateway != nil {
		return strings.ToLower(fmt.Sprintf("%T", gateway))
	}
	return "provider"
}
