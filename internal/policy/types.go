package policy

// Verb is the operation discriminator of a transaction payload.
type Verb int

const (
	// VerbBuy creates a new purchase entry.
	VerbBuy Verb = iota
	// VerbCalculate decrements the refund of an existing entry.
	VerbCalculate
	// VerbGetData increments the refund of an existing entry.
	VerbGetData
)

// ParseVerb maps the payload's verb string to its Verb. Unknown strings are
// a business rejection, not a fault.
func ParseVerb(s string) (Verb, error) {
	switch s {
	case "buy":
		return VerbBuy, nil
	case "calculate":
		return VerbCalculate, nil
	case "getData":
		return VerbGetData, nil
	}
	return 0, Rejectf("unrecognized verb %q", s)
}

func (v Verb) String() string {
	switch v {
	case VerbBuy:
		return "buy"
	case VerbCalculate:
		return "calculate"
	case VerbGetData:
		return "getData"
	}
	return "unknown"
}

// PurchaseEntry is one insured purchase as persisted in state.
type PurchaseEntry struct {
	Name         string  `cbor:"name" json:"name"`
	Mail         string  `cbor:"mail" json:"mail"`
	BankAccount  uint64  `cbor:"bankAccount" json:"bank_account"`
	PlaceAddress string  `cbor:"placeAddress" json:"place_address"`
	Town         string  `cbor:"town" json:"town"`
	Province     string  `cbor:"province" json:"province"`
	CheckinDate  string  `cbor:"checkinDate" json:"checkin_date"`
	CheckoutDate string  `cbor:"checkoutDate" json:"checkout_date"`
	Days         int64   `cbor:"days" json:"days"`
	RainAmount   string  `cbor:"rainAmount" json:"rain_amount"`
	StartHour    string  `cbor:"startHour" json:"start_hour"`
	EndHour      string  `cbor:"endHour" json:"end_hour"`
	Refund       uint64  `cbor:"refund" json:"refund"`
	Total        float64 `cbor:"total" json:"total"`
}

// Record is the value stored at one state address. It is keyed by purchase id
// so that two ids landing on the same derived address can coexist.
type Record map[string]PurchaseEntry

// Fields is the fully-typed, validated field set of one transaction.
type Fields struct {
	Verb         Verb
	Name         string
	Mail         string
	BankAccount  uint64
	PlaceAddress string
	Town         string
	Province     string
	CheckinDate  string
	CheckoutDate string
	Days         int64
	RainAmount   string
	StartHour    string
	EndHour      string
	Refund       uint64
	Purchase     string
	Total        float64
}

// Entry builds the purchase entry a buy transaction inserts.
func (f *Fields) Entry() PurchaseEntry {
	return PurchaseEntry{
		Name:         f.Name,
		Mail:         f.Mail,
		BankAccount:  f.BankAccount,
		PlaceAddress: f.PlaceAddress,
		Town:         f.Town,
		Province:     f.Province,
		CheckinDate:  f.CheckinDate,
		CheckoutDate: f.CheckoutDate,
		Days:         f.Days,
		RainAmount:   f.RainAmount,
		StartHour:    f.StartHour,
		EndHour:      f.EndHour,
		Refund:       f.Refund,
		Total:        f.Total,
	}
}
