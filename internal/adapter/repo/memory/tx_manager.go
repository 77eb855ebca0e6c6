package memory

import "context"

type txMarker struct{}

// TxManager serialises units of work on the store. Memory writes are not
// rolled back when fn fails.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, _ := ctx.Value(txMarker{}).(*Store); owner == t.store {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txMarker{}, t.store))
}
