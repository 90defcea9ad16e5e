package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sprintflow/scoring/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCacheTTL  = 5 * time.Minute
	subjectKeyPrefix = "sprintflow-auth-subject||"
	userPath         = "/auth/v1/user"
)

var ErrUnauthorized = errors.New("unauthorized")

// Resolver turns a bearer token into the athlete id it was issued for. The
// auth server does the validation; resolved subjects are kept in redis for
// at most the token's remaining lifetime.
type Resolver struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	redisClient *redis.Client
	maxTTL      time.Duration
	now         func() time.Time
}

func NewResolver(
	baseURL string,
	apiKey string,
	httpClient *http.Client,
	redisClient *redis.Client,
	maxTTL time.Duration,
) *Resolver {
	if maxTTL <= 0 || maxTTL > DefaultCacheTTL {
		maxTTL = DefaultCacheTTL
	}
	return &Resolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  httpClient,
		redisClient: redisClient,
		maxTTL:      maxTTL,
		now:         time.Now,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r *Resolver) Resolve(ctx context.Context, token string) (_ uuid.UUID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.resolver.resolve")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}

	cacheKey := subjectKey(token)
	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if id, err := uuid.Parse(cached); err == nil {
				return id, nil
			}
			log.Warnf("auth resolver: dropping malformed cached subject")
		case !errors.Is(err, redis.Nil):
			log.Warnf("auth resolver: read subject cache: %s", err)
		}
	}

	id, err := r.fetchSubject(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	if r.redisClient != nil {
		ttl := r.cacheTTL(token)
		if ttl > 0 {
			if err := r.redisClient.Set(ctx, cacheKey, id.String(), ttl).Err(); err != nil {
				log.Warnf("auth resolver: write subject cache: %s", err)
			}
		}
	}

	return id, nil
}

func (r *Resolver) fetchSubject(ctx context.Context, token string) (uuid.UUID, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+userPath, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return uuid.Nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return uuid.Nil, fmt.Errorf("auth server responded with status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return uuid.Nil, fmt.Errorf("decode auth user: %w", err)
	}
	id, err := uuid.Parse(user.ID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

// cacheTTL is the token's remaining lifetime, capped by maxTTL. Tokens
// without a readable exp claim get maxTTL.
func (r *Resolver) cacheTTL(token string) time.Duration {
	exp, ok := tokenExpiry(token)
	if !ok {
		return r.maxTTL
	}
	remaining := exp.Sub(r.now())
	if remaining > r.maxTTL {
		return r.maxTTL
	}
	return remaining.Truncate(time.Second)
}

// tokenExpiry reads the exp claim without verifying the signature.
func tokenExpiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.Exp, 0), true
}

func subjectKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return subjectKeyPrefix + hex.EncodeToString(sum[:])
}
