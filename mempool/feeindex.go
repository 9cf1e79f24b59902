package mempool

import (
	"container/heap"

	"github.com/rillcoin/rilld/consensus"
)

// FeeRatePrecision scales fee/size into an integer milli-unit rate so
// ordering never depends on floating point: fee_rate = fee * FeeRatePrecision
// / size, saturating to math.MaxUint64 for zero size.
const FeeRatePrecision = 1_000

// feeItem is one entry in the fee-rate priority queue, ordered ascending by
// (fee_rate, txid) so eviction always removes the cheapest entry first.
type feeItem struct {
	txid    consensus.Hash256
	feeRate uint64
	index   int
}

// feeQueue is a container/heap priority queue of feeItem, mirroring the
// example pack's fee-priority queue for block templating (daglabs-btcd's
// mining.txPriorityQueue) but ordered ascending for cheapest-first eviction
// instead of descending for richest-first selection.
type feeQueue struct {
	items []*feeItem
}

func (q *feeQueue) Len() int { return len(q.items) }

func (q *feeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.feeRate != b.feeRate {
		return a.feeRate < b.feeRate
	}
	return a.txid.String() < b.txid.String()
}

func (q *feeQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *feeQueue) Push(x interface{}) {
	item := x.(*feeItem)
	item.index = len(q.items)
	q.items = append(q.items, item)
}

func (q *feeQueue) Pop() interface{} {
	n := len(q.items)
	item := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return item
}

// newFeeQueue returns an empty, heap-initialized ascending fee-rate queue.
func newFeeQueue() *feeQueue {
	q := &feeQueue{}
	heap.Init(q)
	return q
}

func computeFeeRate(fee uint64, size int) uint64 {
	if size <= 0 {
		return ^uint64(0)
	}
	return fee * FeeRatePrecision / uint64(size)
}
