package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"enrollment-api/internal/repository"
	"enrollment-api/internal/validation"
	pkgerrors "enrollment-api/pkg/errors"
)

// ResourceService 单个实体的通用增删改查业务接口
// Create / Update 接收的 Payload 须已经过 Resource.Prepare
type ResourceService[T any] interface {
	Resource() Resource
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, p validation.Payload) (string, error)
	Update(ctx context.Context, id string, p validation.Payload) (*T, error)
	Delete(ctx context.Context, id string) error
}

type resourceService[T any] struct {
	res    Resource
	coll   repository.Collection[T]
	logger *zap.Logger
}

// NewResourceService 创建通用资源 Service
func NewResourceService[T any](res Resource, coll repository.Collection[T], logger *zap.Logger) ResourceService[T] {
	return &resourceService[T]{
		res:    res,
		coll:   coll,
		logger: logger.With(zap.String("resource", res.Name)),
	}
}

func (s *resourceService[T]) Resource() Resource {
	return s.res
}

// ────────────────────── List ──────────────────────

func (s *resourceService[T]) List(ctx context.Context) ([]T, error) {
	docs, err := s.coll.List(ctx)
	if err != nil {
		s.logger.Error("列出记录失败", zap.Error(err))
		return nil, storeError(err)
	}
	return docs, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *resourceService[T]) GetByID(ctx context.Context, id string) (*T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.coll.GetByID(ctx, oid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, pkgerrors.ErrNotFound
		}
		s.logger.Error("查询记录失败", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}
	return doc, nil
}

// ────────────────────── Create ──────────────────────

func (s *resourceService[T]) Create(ctx context.Context, p validation.Payload) (string, error) {
	// 先查后插不是原子操作，并发重复由唯一索引兜底
	if field := s.res.UniqueField; field != "" {
		_, err := s.coll.FindOne(ctx, field, p[field])
		if err == nil {
			return "", pkgerrors.ErrConflict
		}
		if !repository.IsNotFound(err) {
			s.logger.Error("唯一性检查失败", zap.String("field", field), zap.Error(err))
			return "", storeError(err)
		}
	}

	var doc T
	if err := validation.Into(p, &doc); err != nil {
		return "", fmt.Errorf("转换入参失败: %w", err)
	}

	oid, err := s.coll.Insert(ctx, &doc)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return "", pkgerrors.ErrConflict
		}
		s.logger.Error("创建记录失败", zap.Error(err))
		return "", storeError(err)
	}

	s.logger.Info("记录已创建", zap.String("id", oid.Hex()))
	return oid.Hex(), nil
}

// ────────────────────── Update ──────────────────────

func (s *resourceService[T]) Update(ctx context.Context, id string, p validation.Payload) (*T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := validation.Into(p, &doc); err != nil {
		return nil, fmt.Errorf("转换入参失败: %w", err)
	}

	matched, err := s.coll.Replace(ctx, oid, &doc)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, pkgerrors.ErrConflict
		}
		s.logger.Error("更新记录失败", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}
	if !matched {
		return nil, pkgerrors.ErrNotFound
	}

	// 重新读取，返回存储中的最终状态
	updated, err := s.coll.GetByID(ctx, oid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, pkgerrors.ErrNotFound
		}
		s.logger.Error("查询记录失败", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}
	return updated, nil
}

// ────────────────────── Delete ──────────────────────

func (s *resourceService[T]) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.coll.Delete(ctx, oid)
	if err != nil {
		s.logger.Error("删除记录失败", zap.String("id", id), zap.Error(err))
		return storeError(err)
	}
	if !deleted {
		s.logger.Debug("删除目标不存在，按成功处理", zap.String("id", id))
	}
	return nil
}

// ── 内部辅助方法 ──

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.ErrInvalidID
	}
	return oid, nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", pkgerrors.ErrStore, err)
}
