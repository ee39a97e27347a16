// Package cache 标签与食材等只读参考数据的 Redis 缓存
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

const (
	keyTags          = "foodgram:tags"
	keyIngredientFmt = "foodgram:ingredient:%d"
	keySearchFmt     = "foodgram:ingredients:prefix:%s"
)

// Recorder 接收命中/未命中事件，由 *metrics.Metrics 实现
type Recorder interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

// ReferenceCache 旁路缓存。nil 值合法且总是未命中，未配置 Redis 地址时即如此
type ReferenceCache struct {
	client   *redis.Client
	ttl      time.Duration
	recorder Recorder
}

// New client 为 nil 时返回 nil
func New(client *redis.Client, ttl time.Duration, recorder Recorder) *ReferenceCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ReferenceCache{client: client, ttl: ttl, recorder: recorder}
}

func (c *ReferenceCache) record(kind string, hit bool) {
	if c.recorder == nil {
		return
	}
	if hit {
		c.recorder.CacheHit(kind)
	} else {
		c.recorder.CacheMiss(kind)
	}
}

// Tags 读取缓存的标签列表；未命中或 Redis 出错时 ok 为 false
func (c *ReferenceCache) Tags(ctx context.Context) ([]model.Tag, bool) {
	if c == nil {
		return nil, false
	}
	var out []model.Tag
	ok := c.getJSON(ctx, keyTags, &out)
	c.record("tags", ok)
	return out, ok
}

func (c *ReferenceCache) SetTags(ctx context.Context, tags []model.Tag) {
	if c == nil {
		return
	}
	c.setJSON(ctx, keyTags, tags)
}

// IngredientSearch 前缀搜索结果，以规范化后的前缀为 key
func (c *ReferenceCache) IngredientSearch(ctx context.Context, prefix string) ([]model.Ingredient, bool) {
	if c == nil {
		return nil, false
	}
	var out []model.Ingredient
	ok := c.getJSON(ctx, searchKey(prefix), &out)
	c.record("ingredient_search", ok)
	return out, ok
}

func (c *ReferenceCache) SetIngredientSearch(ctx context.Context, prefix string, items []model.Ingredient) {
	if c == nil {
		return
	}
	c.setJSON(ctx, searchKey(prefix), items)
}

// Ingredients 一次 MGET 批量查找，返回命中项与仍需从库中加载的 id
func (c *ReferenceCache) Ingredients(ctx context.Context, ids []int64) (map[int64]model.Ingredient, []int64) {
	found := make(map[int64]model.Ingredient, len(ids))
	if c == nil || len(ids) == 0 {
		return found, ids
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(keyIngredientFmt, id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Ctx(ctx).Warn("reference cache mget failed", zap.Error(err))
		vals = nil
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var it model.Ingredient
		if err := json.Unmarshal([]byte(str), &it); err == nil {
			found[ids[i]] = it
		}
	}

	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			c.record("ingredient", true)
			continue
		}
		c.record("ingredient", false)
		missing = append(missing, id)
	}
	return found, missing
}

// SetIngredients 每个食材一个 key，一次 pipeline 写入
func (c *ReferenceCache) SetIngredients(ctx context.Context, items []model.Ingredient) {
	if c == nil || len(items) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			continue
		}
		pipe.Set(ctx, fmt.Sprintf(keyIngredientFmt, it.ID), payload, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Ctx(ctx).Warn("reference cache pipeline failed", zap.Error(err))
	}
}

// Flush 删除全部参考数据 key，种子导入后调用
func (c *ReferenceCache) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "foodgram:*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *ReferenceCache) getJSON(ctx context.Context, key string, out interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Ctx(ctx).Warn("reference cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *ReferenceCache) setJSON(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn("reference cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func searchKey(prefix string) string {
	return fmt.Sprintf(keySearchFmt, model.SearchKey(prefix))
}
