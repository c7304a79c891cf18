package casdoor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/redis/go-redis/v9"

	"github.com/Tanuroy10/studyhub-service/internal/cache"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

// CasdoorConfig holds the configuration for the Casdoor connection.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// IdentityCasdoor implements the identity provider boundary on top of the
// Casdoor SDK, with a Redis cache in front of provider lookups.
type IdentityCasdoor struct {
	client *casdoorsdk.Client
	config CasdoorConfig
	cache  *cache.CacheHelper
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityProvider {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client: client,
		config: config,
		cache:  cache.NewCacheHelper(redisClient, cache.IdentityCacheConfig.Prefix),
	}
}

// SignInWithPassword checks the credential against the provider and
// returns the provider identity on success.
func (i *IdentityCasdoor) SignInWithPassword(ctx context.Context, email, password string) (*repositories.ProviderIdentity, error) {
	casdoorUser, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, i.classify(err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrAccountNotFound
	}

	ok, err := i.client.CheckUserPassword(&casdoorsdk.User{
		Owner:    i.config.OrganizationName,
		Name:     casdoorUser.Name,
		Password: password,
	})
	if err != nil {
		return nil, i.classify(err)
	}
	if !ok {
		return nil, repositories.ErrBadCredentials
	}

	identity := i.toIdentity(casdoorUser)
	i.cacheIdentity(ctx, identity)
	return identity, nil
}

// CreateAccount registers a credential with the provider and sets the
// display name.
func (i *IdentityCasdoor) CreateAccount(ctx context.Context, name, email, password string) (*repositories.ProviderIdentity, error) {
	existing, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, i.classify(err)
	}
	if existing != nil {
		return nil, repositories.ErrAccountExists
	}

	newUser := &casdoorsdk.User{
		Owner:       i.config.OrganizationName,
		Name:        accountNameFromEmail(email),
		CreatedTime: time.Now().Format(time.RFC3339),
		DisplayName: name,
		Email:       email,
		Password:    password,
		SignupApplication: i.config.ApplicationName,
	}

	if _, err := i.client.AddUser(newUser); err != nil {
		return nil, i.classify(err)
	}

	created, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, i.classify(err)
	}
	if created == nil {
		return nil, repositories.ErrProviderUnavailable
	}

	identity := i.toIdentity(created)
	i.cacheIdentity(ctx, identity)
	return identity, nil
}

// SignOut is best-effort: provider tokens are stateless, so sign-out only
// drops the cached identity. Server-side sessions are cleared separately.
func (i *IdentityCasdoor) SignOut(ctx context.Context, userID string) error {
	return i.cache.Delete(ctx, "id:"+userID)
}

// UpdateDisplayName pushes a changed name to the provider.
func (i *IdentityCasdoor) UpdateDisplayName(ctx context.Context, userID, name string) error {
	casdoorUser, err := i.client.GetUserByUserId(userID)
	if err != nil {
		return i.classify(err)
	}
	if casdoorUser == nil {
		return repositories.ErrAccountNotFound
	}

	casdoorUser.DisplayName = name
	if _, err := i.client.UpdateUser(casdoorUser); err != nil {
		return i.classify(err)
	}

	_ = i.cache.Delete(ctx, "id:"+userID)
	return nil
}

// ParseToken validates a provider-issued JWT and returns the identity it
// carries.
func (i *IdentityCasdoor) ParseToken(ctx context.Context, token string) (*repositories.ProviderIdentity, error) {
	claims, err := i.client.ParseJwtToken(token)
	if err != nil {
		return nil, repositories.ErrBadCredentials
	}
	if claims.Id == "" {
		return nil, repositories.ErrBadCredentials
	}

	return &repositories.ProviderIdentity{
		ID:            claims.Id,
		Name:          claims.User.DisplayName,
		Email:         claims.User.Email,
		EmailVerified: claims.User.EmailVerified,
	}, nil
}

// ===== HELPERS =====

func (i *IdentityCasdoor) toIdentity(user *casdoorsdk.User) *repositories.ProviderIdentity {
	return &repositories.ProviderIdentity{
		ID:            user.Id,
		Name:          user.DisplayName,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}
}

func (i *IdentityCasdoor) cacheIdentity(ctx context.Context, identity *repositories.ProviderIdentity) {
	_ = i.cache.Set(ctx, "id:"+identity.ID, identity, cache.IdentityCacheConfig.TTL)
}

// classify maps raw provider failures onto the shared provider error
// kinds so callers never see Casdoor specifics.
func (i *IdentityCasdoor) classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", repositories.ErrProviderUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password"):
		return repositories.ErrBadCredentials
	case strings.Contains(msg, "doesn't exist"), strings.Contains(msg, "not exist"), strings.Contains(msg, "not found"):
		return repositories.ErrAccountNotFound
	case strings.Contains(msg, "email") && strings.Contains(msg, "invalid"):
		return repositories.ErrInvalidEmail
	case strings.Contains(msg, "too many"), strings.Contains(msg, "rate"):
		return repositories.ErrRateLimited
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "timeout"), strings.Contains(msg, "no such host"):
		return fmt.Errorf("%w: %v", repositories.ErrProviderUnavailable, err)
	default:
		return fmt.Errorf("identity provider error: %w", err)
	}
}

// accountNameFromEmail derives the provider account name from the local
// part of the email.
func accountNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
