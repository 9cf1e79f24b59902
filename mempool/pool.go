// Package mempool is the txid-, outpoint-, and fee-rate-indexed pool of
// not-yet-confirmed transactions (§4.6): conflict detection on insert,
// fee-rate-ordered eviction under capacity pressure, and confirmed-block
// reconciliation.
package mempool

import (
	"container/heap"
	"sort"

	"github.com/rillcoin/rilld/consensus"
)

// Entry is one transaction admitted to the pool.
type Entry struct {
	Tx      *consensus.Transaction
	Txid    consensus.Hash256
	Fee     uint64
	Size    int
	FeeRate uint64
}

// Limits bounds how much the pool may hold.
type Limits struct {
	MaxTxCount    int
	MaxTotalBytes int
}

// Pool is the mempool: three indices kept in lockstep on every mutation so
// no partially-updated state is ever observable to a reader.
type Pool struct {
	limits Limits

	byTxid     map[consensus.Hash256]*Entry
	byOutpoint map[consensus.OutPoint]consensus.Hash256
	feeItems   map[consensus.Hash256]*feeItem
	queue      *feeQueue

	totalBytes int
}

// New returns an empty pool bounded by limits.
func New(limits Limits) *Pool {
	return &Pool{
		limits:     limits,
		byTxid:     make(map[consensus.Hash256]*Entry),
		byOutpoint: make(map[consensus.OutPoint]consensus.Hash256),
		feeItems:   make(map[consensus.Hash256]*feeItem),
		queue:      newFeeQueue(),
	}
}

func (p *Pool) Len() int        { return len(p.byTxid) }
func (p *Pool) TotalBytes() int { return p.totalBytes }

// TotalFees sums the fees of every entry currently in the pool.
func (p *Pool) TotalFees() uint64 {
	var total uint64
	for _, e := range p.byTxid {
		total += e.Fee
	}
	return total
}

func (p *Pool) Contains(txid consensus.Hash256) bool {
	_, ok := p.byTxid[txid]
	return ok
}

func (p *Pool) Get(txid consensus.Hash256) (*Entry, bool) {
	e, ok := p.byTxid[txid]
	return e, ok
}

// Insert admits tx at the given fee, applying §4.6's five-step rule:
// reject below MinTxFee, reject duplicates and input conflicts, evict
// cheaper entries to make room if over capacity, reject if it still
// doesn't fit, else index it in all three structures.
func (p *Pool) Insert(tx *consensus.Transaction, fee uint64) error {
	if fee < consensus.MinTxFee {
		return poolErr(ErrFeeTooLow, "fee below MIN_TX_FEE")
	}

	size := len(consensus.EncodeTransaction(nil, tx))
	txid := consensus.Txid(tx)

	if _, dup := p.byTxid[txid]; dup {
		return poolErr(ErrAlreadyExists, "transaction already in pool")
	}
	for _, in := range tx.Inputs {
		if conflictTxid, ok := p.byOutpoint[in.PreviousOutput]; ok {
			return conflictErr(conflictTxid.String())
		}
	}

	feeRate := computeFeeRate(fee, size)

	for (len(p.byTxid)+1 > p.limits.MaxTxCount || p.totalBytes+size > p.limits.MaxTotalBytes) && p.queue.Len() > 0 {
		cheapest := p.queue.items[0]
		if cheapest.feeRate >= feeRate {
			break
		}
		p.removeLocked(cheapest.txid)
	}
	if len(p.byTxid)+1 > p.limits.MaxTxCount || p.totalBytes+size > p.limits.MaxTotalBytes {
		return poolErr(ErrPoolFull, "pool full and new transaction is not cheaper than every evictable entry")
	}

	entry := &Entry{Tx: tx, Txid: txid, Fee: fee, Size: size, FeeRate: feeRate}
	p.byTxid[txid] = entry
	for _, in := range tx.Inputs {
		p.byOutpoint[in.PreviousOutput] = txid
	}
	item := &feeItem{txid: txid, feeRate: feeRate}
	heap.Push(p.queue, item)
	p.feeItems[txid] = item
	p.totalBytes += size
	return nil
}

// Remove drops txid from all indices. No-op if absent.
func (p *Pool) Remove(txid consensus.Hash256) {
	p.removeLocked(txid)
}

func (p *Pool) removeLocked(txid consensus.Hash256) {
	entry, ok := p.byTxid[txid]
	if !ok {
		return
	}
	delete(p.byTxid, txid)
	for _, in := range entry.Tx.Inputs {
		delete(p.byOutpoint, in.PreviousOutput)
	}
	if item, ok := p.feeItems[txid]; ok {
		heap.Remove(p.queue, item.index)
		delete(p.feeItems, txid)
	}
	p.totalBytes -= entry.Size
}

// RemoveConfirmedBlock drops every pool entry confirmed by block, plus every
// remaining entry that spends an outpoint the block already spent.
func (p *Pool) RemoveConfirmedBlock(block *consensus.Block) {
	spentByBlock := make(map[consensus.OutPoint]struct{})
	confirmed := make(map[consensus.Hash256]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		confirmed[consensus.Txid(tx)] = struct{}{}
		for _, in := range tx.Inputs {
			spentByBlock[in.PreviousOutput] = struct{}{}
		}
	}
	var toRemove []consensus.Hash256
	for _, e := range p.byTxid {
		if _, conf := confirmed[e.Txid]; conf {
			toRemove = append(toRemove, e.Txid)
			continue
		}
		for _, in := range e.Tx.Inputs {
			if _, ok := spentByBlock[in.PreviousOutput]; ok {
				toRemove = append(toRemove, e.Txid)
				break
			}
		}
	}
	for _, txid := range toRemove {
		p.removeLocked(txid)
	}
}

// SelectForTemplate walks the fee-rate index in descending order, greedily
// admitting entries whose size fits the remaining byte budget. Oversize
// entries are skipped, not stopped on, so smaller lower-fee entries still
// get a chance.
func (p *Pool) SelectForTemplate(maxBytes int) []*Entry {
	ordered := make([]*feeItem, len(p.queue.items))
	copy(ordered, p.queue.items)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.feeRate != b.feeRate {
			return a.feeRate > b.feeRate
		}
		return a.txid.String() > b.txid.String()
	})

	var selected []*Entry
	remaining := maxBytes
	for _, item := range ordered {
		entry, ok := p.byTxid[item.txid]
		if !ok || entry.Size > remaining {
			continue
		}
		selected = append(selected, entry)
		remaining -= entry.Size
	}
	return selected
}
