package middleware

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hall-config-editor/internal/config"
)

// SeatMapCache keeps rendered public seat map responses in Redis, one key
// per hall.  A nil *SeatMapCache is a valid no-op cache.
type SeatMapCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewSeatMapCache returns nil when caching is disabled or Redis is absent.
func NewSeatMapCache(cfg config.CacheConfig, rdb *redis.Client) *SeatMapCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &SeatMapCache{cfg: cfg, rdb: rdb}
}

// Key is the Redis key of hall's cached seat map.
func (sc *SeatMapCache) Key(hallID string) string {
	return sc.cfg.Prefix + ":hall:" + hallID
}

// InvalidateSeatMap drops the cached map of hallID.
func (sc *SeatMapCache) InvalidateSeatMap(ctx context.Context, hallID uint64) error {
	if sc == nil {
		return nil
	}
	return sc.rdb.Del(ctx, sc.Key(strconv.FormatUint(hallID, 10))).Err()
}

// Middleware serves cached 200 responses for routes with an :id param and
// stores misses.  Headers are kept so clients see identical output.
func (sc *SeatMapCache) Middleware() echo.MiddlewareFunc {
	if sc == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Param("id")
			if id == "" || !sc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := sc.Key(id)

			if bs, err := sc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(sc.cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				if err := sc.rdb.Set(context.WithoutCancel(ctx), key, payload, sc.cfg.TTL).Err(); err != nil {
					c.Logger().Warnf("seatmap-cache: store %s failed: %v", key, err)
				}
			}
			return nil
		}
	}
}

// captureWriter copies the response body while forwarding it.  Bodies over
// limit are not cached.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			cw.truncated = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
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
