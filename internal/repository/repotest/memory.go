// Package repotest 提供内存实现的 repository.Collection，供 Service / Handler 测试使用。
package repotest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"enrollment-api/internal/repository"
)

// Collection 内存集合，文档以 BSON 形式保存，与真实驱动的编解码行为一致
// Err 非 nil 时所有操作直接返回该错误，用于模拟存储故障
type Collection[T any] struct {
	mu    sync.Mutex
	name  string
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]bson.M

	Err error
}

var _ repository.Collection[struct{}] = (*Collection[struct{}])(nil)

// New 创建空的内存集合
func New[T any](name string) *Collection[T] {
	return &Collection[T]{
		name: name,
		docs: make(map[primitive.ObjectID]bson.M),
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Len 当前文档数
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}

	out := make([]T, 0, len(c.docs))
	for _, id := range c.order {
		m, ok := c.docs[id]
		if !ok {
			continue
		}
		doc, err := decode[T](m)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (c *Collection[T]) GetByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}

	m, ok := c.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return decode[T](m)
}

func (c *Collection[T]) FindOne(_ context.Context, field string, value interface{}) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}

	for _, id := range c.order {
		m, ok := c.docs[id]
		if ok && m[field] == value {
			return decode[T](m)
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (c *Collection[T]) Insert(_ context.Context, doc *T) (primitive.ObjectID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return primitive.NilObjectID, c.Err
	}

	m, err := encode(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := primitive.NewObjectID()
	m["_id"] = id
	c.docs[id] = m
	c.order = append(c.order, id)
	return id, nil
}

func (c *Collection[T]) Replace(_ context.Context, id primitive.ObjectID, doc *T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}

	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	m, err := encode(doc)
	if err != nil {
		return false, err
	}
	m["_id"] = id
	c.docs[id] = m
	return true, nil
}

func (c *Collection[T]) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}

	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	return true, nil
}

func encode(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decode[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
