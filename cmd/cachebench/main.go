// Command cachebench compares index page latency with and without the
// whole-response cache. Run cmd/seed first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/cache"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
)

type scenarioResult struct {
	durations   []time.Duration
	renders     int
	cacheKeys   int
	memoryBytes int64
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	posts := repository.NewPostRepository(db)
	total := must(posts.CountAll(ctx))
	if total == 0 {
		fmt.Println("no posts found, run cmd/seed first")
		os.Exit(1)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err))
	}

	groups := repository.NewGroupRepository(db)
	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	opts := service.FeedOptions{PageSize: cfg.Feed.PageSize, IndexTTL: time.Minute}

	plain := service.NewFeedService(posts, groups, users, follows, nil, opts)
	cached := service.NewFeedService(posts, groups, users, follows, cache.NewRedisCache(client, "cachebench:"), opts)

	reqs := makeRequests(5000, pagesFor(total, cfg.Feed.PageSize))

	noCache := runScenario(ctx, plain, reqs, client)
	withCache := runScenario(ctx, cached, reqs, client)

	fmt.Printf("\nIndex page latency (%d req, %d posts, page size %d)\n", len(reqs), total, cfg.Feed.PageSize)
	for _, r := range []struct {
		name string
		res  scenarioResult
	}{{"No cache", noCache}, {"Index cache", withCache}} {
		fmt.Printf("%-12s avg=%v p95=%v p99=%v renders=%d cache_keys=%d mem=%s\n",
			r.name, avg(r.res.durations), pct(r.res.durations, 0.95), pct(r.res.durations, 0.99),
			r.res.renders, r.res.cacheKeys, formatBytes(r.res.memoryBytes))
	}
}

func runScenario(ctx context.Context, feeds service.FeedService, reqs []url.Values, client *redis.Client) scenarioResult {
	client.FlushAll(ctx)

	renders := 0
	out := make([]time.Duration, 0, len(reqs))
	fmt.Print("  Running benchmark...")
	for _, q := range reqs {
		number, _ := strconv.Atoi(q.Get("page"))
		start := time.Now()
		_, err := feeds.RenderIndex(ctx, q, func(ctx context.Context) ([]byte, error) {
			renders++
			page, err := feeds.Index(ctx, number)
			if err != nil {
				return nil, err
			}
			return json.Marshal(page)
		})
		if err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := client.Keys(ctx, "*").Result()
	var memBytes int64
	if info, err := client.Info(ctx, "memory").Result(); err == nil {
		memBytes = parseRedisMemory(info)
	}
	return scenarioResult{durations: out, renders: renders, cacheKeys: len(keys), memoryBytes: memBytes}
}

func pagesFor(total int64, size int) int {
	if size <= 0 {
		size = 10
	}
	return int((total + int64(size) - 1) / int64(size))
}

// makeRequests 大多数请求落在首页，其余随机翻页
func makeRequests(n, pages int) []url.Values {
	out := make([]url.Values, n)
	rnd := rand.New(rand.NewSource(42))
	for i := range out {
		page := 1
		if pages > 1 && rnd.Float64() > 0.72 {
			page = 2 + rnd.Intn(pages-1)
		}
		out[i] = url.Values{"page": {strconv.Itoa(page)}}
	}
	return out
}

// parseRedisMemory extracts used_memory from Redis INFO
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
