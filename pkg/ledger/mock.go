package ledger

import (
	"context"
	"encoding/hex"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// MockBackend fabricates plausible chain state for demo mode.
// Output is reproducible for a given seed.
type MockBackend struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time

	balances map[string]uint64
	history  map[string][]RawTransaction
	submits  atomic.Int64
}

// NewMockBackend returns a demo backend seeded with seed.
func NewMockBackend(seed int64) *MockBackend {
	return &MockBackend{
		rnd:      rand.New(rand.NewSource(seed)), //nolint:gosec // demo data only
		now:      time.Now,
		balances: make(map[string]uint64),
		history:  make(map[string][]RawTransaction),
	}
}

// Submits returns how many transfers reached the backend.
func (m *MockBackend) Submits() int64 {
	return m.submits.Load()
}

func (m *MockBackend) Balance(_ context.Context, address, coinType string) (uint64, error) {
	if coinType != NativeCoinType {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked(address), nil
}

func (m *MockBackend) Resources(_ context.Context, address string) ([]Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(map[string]any{
		"coin": map[string]string{"value": strconv.FormatUint(m.balanceLocked(address), 10)},
	})
	if err != nil {
		return nil, err
	}
	return []Resource{
		{Type: CoinStoreType(NativeCoinType), Data: data},
		{Type: "0x1::account::Account", Data: []byte(`{"sequence_number":"0"}`)},
	}, nil
}

func (m *MockBackend) Transactions(_ context.Context, address string, limit int) ([]RawTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := m.historyLocked(address)
	if limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	out := make([]RawTransaction, len(txs))
	copy(out, txs)
	return out, nil
}

func (m *MockBackend) TransactionByHash(_ context.Context, hash string) (*RawTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, txs := range m.history {
		for i := range txs {
			if txs[i].Hash == hash {
				tx := txs[i]
				return &tx, nil
			}
		}
	}
	return nil, nil
}

// Submit records the transfer in the sender's history and debits its balance.
func (m *MockBackend) Submit(_ context.Context, req SubmitRequest) (string, error) {
	m.submits.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	from := req.From.Address
	bal := m.balanceLocked(from)
	if req.Amount <= bal {
		m.balances[from] = bal - req.Amount
	}

	tx := m.transferLocked(from, req.To, req.Amount, m.now())
	m.history[from] = append(m.historyLocked(from), tx)
	return tx.Hash, nil
}

func (m *MockBackend) balanceLocked(address string) uint64 {
	bal, ok := m.balances[address]
	if !ok {
		// 0 to 1000 APT
		bal = uint64(m.rnd.Int63n(1000 * 100_000_000))
		m.balances[address] = bal
	}
	return bal
}

func (m *MockBackend) historyLocked(address string) []RawTransaction {
	txs, ok := m.history[address]
	if ok {
		return txs
	}

	now := m.now()
	n := 5
	txs = make([]RawTransaction, 0, n)
	for i := n; i > 0; i-- {
		to := m.hexLocked(32)
		amount := uint64(m.rnd.Int63n(10*100_000_000) + 1)
		txs = append(txs, m.transferLocked(address, to, amount, now.Add(-time.Duration(i)*time.Hour)))
	}
	m.history[address] = txs
	return txs
}

func (m *MockBackend) transferLocked(from, to string, amount uint64, at time.Time) RawTransaction {
	return RawTransaction{
		Type:         "user_transaction",
		Hash:         m.hexLocked(32),
		Version:      strconv.FormatInt(m.rnd.Int63n(1<<40), 10),
		Sender:       from,
		Success:      true,
		VMStatus:     "Executed successfully",
		GasUsed:      "10",
		GasUnitPrice: "100",
		Timestamp:    strconv.FormatInt(at.UnixMicro(), 10),
		Payload: &Payload{
			Type:          "entry_function_payload",
			Function:      FunctionAccountTransfer,
			TypeArguments: []string{},
			Arguments:     []any{to, strconv.FormatUint(amount, 10)},
		},
	}
}

func (m *MockBackend) hexLocked(n int) string {
	b := make([]byte, n)
	_, _ = m.rnd.Read(b)
	return "0x" + hex.EncodeToString(b)
}
