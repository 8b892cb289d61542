// Package processor applies rain-insurance transactions against the state
// gateway: decode the payload, validate its fields, derive the address,
// read the current record, compute the next one and write it back. It is
// invoked synchronously, once per transaction; ordering across transactions
// is the surrounding ledger's job.
package processor

import (
	"context"
	"log/slog"

	"github.com/pluvialabs/rainproc/internal/address"
	"github.com/pluvialabs/rainproc/internal/codec"
	"github.com/pluvialabs/rainproc/internal/config"
	"github.com/pluvialabs/rainproc/internal/engine"
	"github.com/pluvialabs/rainproc/internal/policy"
	"github.com/pluvialabs/rainproc/internal/state"
	"github.com/pluvialabs/rainproc/internal/validate"
)

// Receipt summarizes one applied transaction.
type Receipt struct {
	Address  string `json:"address"`
	Verb     string `json:"verb"`
	Purchase string `json:"purchase"`
	Refund   uint64 `json:"refund"`
}

type Processor struct {
	cfg       *config.Config
	deriver   *address.Deriver
	validator *validate.Validator
	engine    *engine.Engine
	store     state.Store
	log       *slog.Logger
}

func New(cfg *config.Config, store state.Store, log *slog.Logger) *Processor {
	return &Processor{
		cfg:       cfg,
		deriver:   address.NewDeriver(cfg.FamilyName),
		validator: validate.New(cfg),
		engine:    engine.New(cfg),
		store:     store,
		log:       log,
	}
}

// FamilyName is the application identifier registered with the ledger.
func (p *Processor) FamilyName() string { return p.cfg.FamilyName }

// FamilyVersions lists the payload versions this handler accepts.
func (p *Processor) FamilyVersions() []string { return []string{p.cfg.FamilyVersion} }

// Namespaces lists the address prefixes the ledger routes to this handler.
func (p *Processor) Namespaces() []string { return []string{p.deriver.Prefix()} }

// Apply validates and executes one transaction payload. A *policy.Rejection
// means the transaction was invalid and changed nothing; a *policy.Internal
// means the platform failed and the transaction must be surfaced as fatal.
func (p *Processor) Apply(ctx context.Context, payload []byte) (*Receipt, error) {
	raw, err := codec.DecodePayload(payload)
	if err != nil {
		return nil, err
	}

	fields, err := p.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	addr := p.deriver.Derive(fields.Purchase)

	current, err := p.store.Get(ctx, addr)
	if err != nil {
		return nil, policy.WrapInternal("state get", err)
	}

	rec := policy.Record{}
	if current != nil {
		if rec, err = codec.DecodeRecord(current); err != nil {
			return nil, err
		}
	}

	next, err := p.engine.Apply(rec, fields)
	if err != nil {
		return nil, err
	}

	data, err := codec.EncodeRecord(next)
	if err != nil {
		return nil, err
	}

	written, err := p.store.Set(ctx, addr, data)
	if err != nil {
		return nil, policy.WrapInternal("state set", err)
	}
	if len(written) == 0 {
		return nil, policy.Internalf("state set reported no addresses written")
	}

	entry := next[fields.Purchase]
	p.log.Info("transaction applied",
		"verb", fields.Verb.String(),
		"purchase", fields.Purchase,
		"address", addr,
		"name", entry.Name,
		"mail", entry.Mail,
		"bankAccount", entry.BankAccount,
		"placeAddress", entry.PlaceAddress,
		"town", entry.Town,
		"province", entry.Province,
		"checkinDate", entry.CheckinDate,
		"checkoutDate", entry.CheckoutDate,
		"days", entry.Days,
		"rainAmount", entry.RainAmount,
		"startHour", entry.StartHour,
		"endHour", entry.EndHour,
		"refund", entry.Refund,
		"total", entry.Total,
	)

	return &Receipt{
		Address:  addr,
		Verb:     fields.Verb.String(),
		Purchase: fields.Purchase,
		Refund:   entry.Refund,
	}, nil
}

// Lookup reads the purchase entry for an id, or (nil, nil) when absent.
func (p *Processor) Lookup(ctx context.Context, purchase string) (*policy.PurchaseEntry, error) {
	addr := p.deriver.Derive(purchase)
	current, err := p.store.Get(ctx, addr)
	if err != nil {
		return nil, policy.WrapInternal("state get", err)
	}
	if current == nil {
		return nil, nil
	}
	rec, err := codec.DecodeRecord(current)
	if err != nil {
		return nil, err
	}
	entry, ok := rec[purchase]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}
