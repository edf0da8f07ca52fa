package model

// Ticket 票券模型。owner 僅能透過一次轉讓變更，
// is_used / transferred / insurance_claimed 三個旗標皆為單向 false -> true
type Ticket struct {
	ID               uint64   `json:"id" db:"id"`
	EventID          uint64   `json:"event_id" db:"event_id"`
	Owner            Identity `json:"owner" db:"owner"`
	IsUsed           bool     `json:"is_used" db:"is_used"`
	Transferred      bool     `json:"transferred" db:"transferred"`
	PurchasePrice    uint64   `json:"purchase_price" db:"purchase_price"`
	HasInsurance     bool     `json:"has_insurance" db:"has_insurance"`
	InsuranceClaimed bool     `json:"insurance_claimed" db:"insurance_claimed"`
	MetadataURI      string   `json:"metadata_uri" db:"metadata_uri"`
}

// IsOwnedBy 檢查呼叫者是否為目前持有人
func (t *Ticket) IsOwnedBy(caller Identity) bool {
	return t.Owner == caller
}

// CanTransfer 一張票終生只能轉讓一次
func (t *Ticket) CanTransfer() bool {
	return !t.Transferred
}

// Clone 回傳整筆記錄的副本
func (t *Ticket) Clone() *Ticket {
	clone := *t
	return &clone
}
