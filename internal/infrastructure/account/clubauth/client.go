package clubauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/boulodrome/petanque-nights/internal/platform/cache"
	"github.com/boulodrome/petanque-nights/internal/platform/logging"
	"github.com/boulodrome/petanque-nights/internal/platform/resilience"
	"github.com/boulodrome/petanque-nights/internal/usecase"
)

// Client verifies access tokens against the club SSO introspection
// endpoint. Verified principals are cached by token hash so one request
// burst does not hammer the SSO; a circuit breaker sheds load when the
// SSO is down.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store
	logger        *logging.Logger
}

func NewClient(
	httpClient *http.Client,
	baseURL, introspectPath string,
	cbCfg resilience.CircuitBreakerConfig,
	principalTTL time.Duration,
	logger *logging.Logger,
) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	cbCfg = resilience.NormalizeCircuitBreakerConfig(cbCfg)

	c := &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		principals:    cache.NewStore(principalTTL),
		logger:        logger,
	}
	if cbCfg.Enabled {
		c.breaker = resilience.NewCircuitBreaker(cbCfg.FailureThreshold, cbCfg.OpenTimeout, cbCfg.HalfOpenMaxReq)
	}
	return c
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (usecase.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return usecase.Actor{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if cached, ok := c.principals.Get(ctx, cacheKey); ok {
		if actor, ok := cached.(usecase.Actor); ok {
			return actor, nil
		}
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return usecase.Actor{}, fmt.Errorf("%w: club sso circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	actor, err := c.introspect(ctx, token)
	if c.breaker != nil {
		if isTransient(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return usecase.Actor{}, err
	}

	c.principals.Set(ctx, cacheKey, actor)
	return actor, nil
}

func (c *Client) introspect(ctx context.Context, token string) (usecase.Actor, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return usecase.Actor{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, strings.NewReader(buf.String()))
	if err != nil {
		return usecase.Actor{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.Actor{}, markTransient(fmt.Errorf("%w: request introspection to club sso: %v", usecase.ErrDependencyUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return usecase.Actor{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return usecase.Actor{}, markTransient(fmt.Errorf("read introspect response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "club sso introspection non-200",
			"status_code", resp.StatusCode,
		)
		return usecase.Actor{}, markTransient(fmt.Errorf("%w: club sso introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode))
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return usecase.Actor{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return usecase.Actor{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.PlayerID) == "" {
		return usecase.Actor{}, fmt.Errorf("invalid introspect response: player_id is empty")
	}

	return usecase.Actor{
		PlayerID: decoded.PlayerID,
		IsAdmin:  decoded.IsAdmin,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	PlayerID string `json:"player_id"`
	IsAdmin  bool   `json:"is_admin"`
}
