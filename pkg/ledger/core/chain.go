package core

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// computeHashPointer is SHA-256(operation_string || previous_hash_hex),
// rendered as lowercase hex (§3). crypto/sha256 is stdlib rather than a
// pack dependency: no third-party library in the retrieved examples wraps
// SHA-256 in a way that would change this, and the spec pins the exact
// digest algorithm, so there's nothing an ecosystem library would add here.
func computeHashPointer(tx types.Transaction, previousHash string) string {
	sum := sha256.Sum256([]byte(tx.OperationString() + previousHash))
	return hex.EncodeToString(sum[:])
}

// HashChain is the append-only, hash-linked sequence of Blocks of §4.3.
type HashChain struct {
	blocks  []types.Block
	pending types.Transaction
	staged  bool
}

// NewHashChain returns an empty chain.
func NewHashChain() *HashChain {
	return &HashChain{}
}

// Stage records a pending transaction to be sealed by the next Commit.
func (c *HashChain) Stage(tx types.Transaction) {
	c.pending = tx
	c.staged = true
}

// TailHash is the hash pointer of the last block, or "" if the chain is
// empty (the genesis preimage).
func (c *HashChain) TailHash() string {
	if len(c.blocks) == 0 {
		return ""
	}
	return c.blocks[len(c.blocks)-1].HashPointer
}

// Commit seals the staged transaction into a Block chained off the current
// tail, appends it, clears the pending slot, and returns the new Block.
func (c *HashChain) Commit() types.Block {
	block := types.Block{
		Transaction: c.pending,
		HashPointer: computeHashPointer(c.pending, c.TailHash()),
	}
	c.blocks = append(c.blocks, block)
	c.staged = false
	return block
}

// Append directly appends a Block received from a peer without
// re-verifying the hash — the weakness §4.3/§9 documents as inherited from
// the source. Prefer VerifiedAppend.
func (c *HashChain) Append(block types.Block) {
	c.blocks = append(c.blocks, block)
}

// VerifiedAppend recomputes the incoming block's hash pointer against the
// current tail before appending, strengthening the open question §9 flags
// ("An implementation MAY strengthen this"). Returns false, without
// mutating the chain, if the hash pointer doesn't match.
func (c *HashChain) VerifiedAppend(block types.Block) bool {
	expected := computeHashPointer(block.Transaction, c.TailHash())
	if expected != block.HashPointer {
		return false
	}
	c.Append(block)
	return true
}

// Blocks returns a defensive copy of the chain's contents, in order.
func (c *HashChain) Blocks() []types.Block {
	out := make([]types.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Len reports the number of committed blocks.
func (c *HashChain) Len() int {
	return len(c.blocks)
}
