package services

import (
	"fmt"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/leafkeeper/leafkeeper/internal/config"
	"github.com/leafkeeper/leafkeeper/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern)
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Ping the Authorizer service first
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateToken validates a bearer access token and returns the subject
// user id. Every owner-scoped query keys on this id.
func ValidateToken(token string) (string, error) {
	if authClient == nil {
		return "", fmt.Errorf("authorizer client not initialized")
	}

	res, err := authClient.ValidateJWTToken(&authorizer.ValidateJWTTokenInput{
		TokenType: authorizer.TokenTypeAccessToken,
		Token:     token,
	})
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return "", fmt.Errorf("token is not valid")
	}

	sub, _ := res.Claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token has no subject claim")
	}
	return sub, nil
}

// ValidateSession validates a session cookie and returns the subject user id.
// Browser clients that hold an Authorizer session cookie instead of a bearer
// token authenticate through this path.
func ValidateSession(cookie string) (string, error) {
	if authClient == nil {
		return "", fmt.Errorf("authorizer client not initialized")
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
	})
	if err != nil {
		return "", fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return "", fmt.Errorf("session is not valid")
	}
	if res.User == nil || res.User.ID == "" {
		return "", fmt.Errorf("session has no user")
	}
	return res.User.ID, nil
}
