package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/config"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

// captureWriter copies the response body up to limit while forwarding it.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cachedHeaders are the response headers stored with an entry. Per-request
// headers such as X-Request-Id and the rate-limit counters are left out.
var cachedHeaders = []string{
	echo.HeaderContentType,
	echo.HeaderContentEncoding,
	"Content-Language",
	echo.HeaderLastModified,
	"ETag",
}

func storableHeaders(h http.Header) http.Header {
	out := make(http.Header, len(cachedHeaders))
	for _, k := range cachedHeaders {
		if vals := h.Values(k); len(vals) > 0 {
			out[http.CanonicalHeaderKey(k)] = append([]string(nil), vals...)
		}
	}
	return out
}

// ResponseCache caches successful reads per tenant. Every tenant has a
// generation counter in Redis that is part of each key; a successful write
// by the tenant bumps it, which orphans all of the tenant's entries.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	log *zap.Logger
}

func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *ResponseCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *ResponseCache) generationKey(tenantID int64) string {
	return fmt.Sprintf("%s:gen:%d", rc.cfg.Prefix, tenantID)
}

// entryKey hashes everything a response depends on: tenant generation,
// caller roles, method, path and query.
func (rc *ResponseCache) entryKey(id tenant.Identity, gen int64, r *http.Request) string {
	tail := strings.Join([]string{r.Method, r.URL.Path, r.URL.RawQuery, roleKey(id)}, "|")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:t%d:g%d:%x", rc.cfg.Prefix, id.TenantID, gen, sum[:])
}

// Middleware must run after JWTAuth; requests without an identity are not
// cached.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if !rc.cfg.Enabled || rc.rdb == nil {
		return passThrough
	}
	ttl := rc.cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				return next(c)
			}
			if !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return rc.invalidateAfter(c, id.TenantID, next)
			}

			ctx := c.Request().Context()
			gen, err := rc.generation(ctx, id.TenantID)
			if err != nil {
				rc.log.Warn("cache unavailable", zap.Error(err))
				return next(c)
			}
			key := rc.entryKey(id, gen, c.Request())

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range storableHeaders(hdr) {
						c.Response().Header()[k] = vals
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(rc.cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			payload, err := encodePayload(cw.status, storableHeaders(c.Response().Header()), cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rc.rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				rc.log.Warn("cache store failed", zap.Error(err))
			}
			return nil
		}
	}
}

func (rc *ResponseCache) generation(ctx context.Context, tenantID int64) (int64, error) {
	s, err := rc.rdb.Get(ctx, rc.generationKey(tenantID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

// invalidateAfter runs a write and bumps the tenant's generation when it
// succeeded.
func (rc *ResponseCache) invalidateAfter(c echo.Context, tenantID int64, next echo.HandlerFunc) error {
	if err := next(c); err != nil {
		return err
	}
	if status := c.Response().Status; status >= 200 && status < 300 {
		ctx := context.WithoutCancel(c.Request().Context())
		if err := rc.rdb.Incr(ctx, rc.generationKey(tenantID)).Err(); err != nil {
			rc.log.Warn("cache invalidation failed", zap.Int64("tenant_id", tenantID), zap.Error(err))
		}
	}
	return nil
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}
