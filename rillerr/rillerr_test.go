package rillerr

import (
	"errors"
	"testing"

	"github.com/rillcoin/rilld/mempool"
)

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(SubsystemMempool, nil) != nil {
		t.Fatalf("Wrap(_, nil) must return nil")
	}
}

func TestFromClassifiesMempoolError(t *testing.T) {
	var rerr *Error
	wrapped := From(&mempool.Error{Code: mempool.ErrPoolFull, Msg: "pool full"})
	if !errors.As(wrapped, &rerr) {
		t.Fatalf("expected *Error, got %T", wrapped)
	}
	if rerr.Subsystem != SubsystemMempool {
		t.Fatalf("subsystem = %v, want mempool", rerr.Subsystem)
	}
}

func TestFromUnknownFallsBackToUnknownSubsystem(t *testing.T) {
	wrapped := From(errors.New("boom"))
	var rerr *Error
	if !errors.As(wrapped, &rerr) {
		t.Fatalf("expected *Error, got %T", wrapped)
	}
	if rerr.Subsystem != SubsystemUnknown {
		t.Fatalf("subsystem = %v, want unknown", rerr.Subsystem)
	}
}
