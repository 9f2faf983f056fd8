package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Document 所有实体文档的公共部分
// _id 由存储在创建时生成，之后不可变；JSON 中渲染为 24 位十六进制字符串
type Document struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
}

