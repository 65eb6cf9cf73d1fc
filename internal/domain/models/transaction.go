package models

// TransactionStatus represents the status of a mined transaction
type TransactionStatus string

const (
	TransactionStatusExecuted TransactionStatus = "EXECUTED"
	TransactionStatusFailed   TransactionStatus = "FAILED"
)

// TxResult is the outcome of a state-changing contract call
type TxResult struct {
	Hash        string            `json:"hash"`
	From        string            `json:"from"`
	To          string            `json:"to,omitempty"`
	Method      string            `json:"method"`
	Status      TransactionStatus `json:"status"`
	BlockNumber uint64            `json:"blockNumber"`
	GasUsed     uint64            `json:"gasUsed"`
	Events      []Event           `json:"events,omitempty"`
}

// Event is a decoded contract log
type Event struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

// EventByName returns the first event with the given name
func (r *TxResult) EventByName(name string) (*Event, bool) {
	for i := range r.Events {
		if r.Events[i].Name == name {
			return &r.Events[i], true
		}
	}
	return nil, false
}
