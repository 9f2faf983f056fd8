package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection 单集合文档数据访问接口
// 记录不存在时 GetByID / FindOne 返回 mongo.ErrNoDocuments
type Collection[T any] interface {
	Name() string
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindOne(ctx context.Context, field string, value interface{}) (*T, error)
	Insert(ctx context.Context, doc *T) (primitive.ObjectID, error)
	// Replace 按 ID 整体替换，返回是否命中
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) (bool, error)
	// Delete 按 ID 删除，返回是否实际删除
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewCollection 创建基于 MongoDB 集合的 Collection 实例
func NewCollection[T any](db *mongo.Database, name string) Collection[T] {
	return &mongoCollection[T]{coll: db.Collection(name)}
}

func (r *mongoCollection[T]) Name() string {
	return r.coll.Name()
}

func (r *mongoCollection[T]) List(ctx context.Context) ([]T, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *mongoCollection[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoCollection[T]) FindOne(ctx context.Context, field string, value interface{}) (*T, error) {
	var doc T
	if err := r.coll.FindOne(ctx, bson.M{field: value}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoCollection[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *mongoCollection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) (bool, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoCollection[T]) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey 是否违反唯一索引
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
