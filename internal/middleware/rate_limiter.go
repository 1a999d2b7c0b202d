package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const DefaultRate = "120-M"

// RateLimiter limits requests per client IP. Counters live in Redis when a
// client is given so every instance shares them, otherwise in memory.
func RateLimiter(formatted string, client *redis.Client) (gin.HandlerFunc, error) {
	if formatted == "" {
		formatted = DefaultRate
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "doctrack:limiter"})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStore()
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate)), nil
}
