package consensus

// Consensus-critical constants. Changing any of these changes chain
// compatibility — they are part of the protocol definition, not runtime
// configuration.
const (
	COIN = 100_000_000

	MaxSupply      = 21_000_000 * COIN
	InitialReward  = 50 * COIN
	HalvingInterval = 210_000

	BlockTimeSecs  = 60
	MaxBlockSize   = 1_048_576
	MaxTxSize      = 100_000
	MaxCoinbaseData = 100

	CoinbaseMaturity   = 100
	MaxFutureBlockTime = 2 * BlockTimeSecs

	DifficultyWindow    = 60
	MaxAdjustmentFactor = 4

	DecayCThresholdPPB      = 1_000_000
	ConcentrationPrecision  = 1_000_000_000
	DecayRMaxPPB            = 1_500_000_000
	DecayPrecision          = 10_000_000_000
	DecayK                  = 2000
	DecayPoolReleaseBPS     = 100
	BPSPrecision            = 10_000

	MinTxFee = 1000

	// BlockHeaderBytes is the fixed wire/hashing size of a BlockHeader:
	// four u64 fields plus two 32-byte hashes.
	BlockHeaderBytes = 8*4 + 32*2

	// TxCoinbaseIndex marks the u64 index half of the null outpoint.
	TxCoinbaseIndex = ^uint64(0)
)

// MagicBytes identifies the network on the wire.
var MagicBytes = [4]byte{'R', 'I', 'L', 'L'}
