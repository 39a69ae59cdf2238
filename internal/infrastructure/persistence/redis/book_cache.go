package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookCache 图书详情缓存(Cache-Aside)
// 设计说明:
// 1. 只缓存图书详情行:分类树结构一律实时查库,
//    树形查询(level/fullPath/children)在并发删除/改挂下缓存必然过期
// 2. 一致性策略:写路径(更新/删除/关联变化)删除缓存而不是更新缓存,
//    下次读取时重新加载最新数据,避免并发更新互相覆盖
// 3. 缓存未命中返回(nil, nil),由调用方回源数据库
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书详情缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// Get 获取图书详情缓存(未命中返回nil, nil)
func (c *BookCache) Get(ctx context.Context, bookID uint) (*book.Book, error) {
	val, err := c.client.Get(ctx, c.key(bookID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中,调用方回源
		}
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var b book.Book
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}

	return &b, nil
}

// Set 写入图书详情缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	if err := c.client.Set(ctx, c.key(b.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}

	return nil
}

// Delete 删除图书详情缓存(更新/删除图书后调用)
func (c *BookCache) Delete(ctx context.Context, bookID uint) error {
	if err := c.client.Del(ctx, c.key(bookID)).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

// key 生成缓存key,格式:catalog:book:{book_id}
func (c *BookCache) key(bookID uint) string {
	return fmt.Sprintf("catalog:book:%d", bookID)
}
