// Package priceindex wraps google/btree to give each side of the book an
// ordered map from price to PriceNode, with O(log P) get/insert/remove and
// O(log P) access to the best (leader) price.
package priceindex

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"
	"github.com/tradingcore/matchbook/internal/order"
)

const degree = 32

// priceNodeItem adapts order.PriceNode to btree.Item, ordering by price
// ascending. Both sides use the same ascending tree; Bid access goes
// through Max (the highest bid), Ask access through Min (the lowest ask).
type priceNodeItem struct {
	node order.PriceNode
}

func (a priceNodeItem) Less(than btree.Item) bool {
	return a.node.Price.LessThan(than.(priceNodeItem).node.Price)
}

// Index is one side's ordered price map.
type Index struct {
	tree *btree.BTree
}

// New creates an empty index.
func New() *Index {
	return &Index{tree: btree.New(degree)}
}

// Get returns the node at price, if one exists.
func (idx *Index) Get(price decimal.Decimal) (order.PriceNode, bool) {
	item := idx.tree.Get(priceNodeItem{node: order.PriceNode{Price: price}})
	if item == nil {
		return order.PriceNode{}, false
	}
	return item.(priceNodeItem).node, true
}

// Upsert inserts or replaces the node at its own price.
func (idx *Index) Upsert(node order.PriceNode) {
	idx.tree.ReplaceOrInsert(priceNodeItem{node: node})
}

// Remove deletes the node at price, if any.
func (idx *Index) Remove(price decimal.Decimal) {
	idx.tree.Delete(priceNodeItem{node: order.PriceNode{Price: price}})
}

// Min returns the lowest-priced node, the ask leader candidate.
func (idx *Index) Min() (order.PriceNode, bool) {
	item := idx.tree.Min()
	if item == nil {
		return order.PriceNode{}, false
	}
	return item.(priceNodeItem).node, true
}

// Max returns the highest-priced node, the bid leader candidate.
func (idx *Index) Max() (order.PriceNode, bool) {
	item := idx.tree.Max()
	if item == nil {
		return order.PriceNode{}, false
	}
	return item.(priceNodeItem).node, true
}

// Len returns the number of distinct price levels.
func (idx *Index) Len() int {
	return idx.tree.Len()
}

// Ascend visits nodes in ascending price order until fn returns false.
func (idx *Index) Ascend(fn func(order.PriceNode) bool) {
	idx.tree.Ascend(func(item btree.Item) bool {
		return fn(item.(priceNodeItem).node)
	})
}

// Descend visits nodes in descending price order until fn returns false.
func (idx *Index) Descend(fn func(order.PriceNode) bool) {
	idx.tree.Descend(func(item btree.Item) bool {
		return fn(item.(priceNodeItem).node)
	})
}
