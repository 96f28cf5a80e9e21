// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	sk := (page - 1) * limit
	return options.Find().SetLimit(limit).SetSkip(sk)
}

// PaginateSorted is Paginate with a single-field sort applied. Order is
// 1 for ascending, -1 for descending; anything else defaults to ascending.
func PaginateSorted(limit, page int64, field string, order int) *options.FindOptions {
	if order != 1 && order != -1 {
		order = 1
	}
	return Paginate(limit, page).SetSort(bson.D{{Key: field, Value: order}})
}
