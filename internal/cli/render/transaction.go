package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// TransactionRenderer renders registration client results
type TransactionRenderer struct {
	out io.Writer
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer) *TransactionRenderer {
	return &TransactionRenderer{out: out}
}

// RenderRegister renders a registerUser result
func (r *TransactionRenderer) RenderRegister(result *usecase.RegisterUserResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Registered %s", result.User.Hex())))
	field(r.out, "Name", valueStyle.Sprint(result.Name))
	field(r.out, "Age", result.Age)
	field(r.out, "Owner", result.Owner.Hex())
	r.renderTx(result.Tx)
	if result.Event != nil {
		field(r.out, "Event", result.Event.String())
	}
	return nil
}

// RenderSend renders a send result
func (r *TransactionRenderer) RenderSend(result *usecase.SendValueResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Sent %s from %s", result.Value, result.From.Hex())))
	r.renderTx(result.Tx)
	if result.Event != nil {
		field(r.out, "Event", result.Event.String())
	}
	return nil
}

// RenderSendLine renders one outcome of a periodic send on a single line
func (r *TransactionRenderer) RenderSendLine(run int64, result *usecase.SendValueResult, err error) {
	if err != nil {
		fmt.Fprintf(r.out, "#%-4d %s\n", run, FormatError(err.Error()))
		return
	}
	fmt.Fprintf(r.out, "#%-4d %s value=%s block=%d\n", run, hashStyle.Sprint(result.Tx.Hash), result.Value, result.Tx.BlockNumber)
}

// RenderIntervalSummary renders the counters of a periodic send
func (r *TransactionRenderer) RenderIntervalSummary(result *usecase.SendIntervalResult) error {
	s := result.Stats
	fmt.Fprintln(r.out)
	t := newTable(r.out)
	t.AppendHeader([]any{"Ticks", "Started", "Succeeded", "Failed", "Interrupted", "Skipped", "Coalesced", "Dropped"})
	t.AppendRow([]any{s.Ticks, s.Started, s.Succeeded, result.Failures(), result.Interrupted, s.Skipped, s.Coalesced, s.Dropped})
	t.Render()

	if result.LastErr != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("last failure: %v", result.LastErr)))
	}
	return nil
}

func (r *TransactionRenderer) renderTx(tx *models.TxResult) {
	if tx == nil {
		return
	}
	field(r.out, "Tx", hashStyle.Sprint(tx.Hash))
	if tx.BlockNumber != 0 {
		field(r.out, "Block", tx.BlockNumber)
	}
	if tx.GasUsed != 0 {
		field(r.out, "Gas", tx.GasUsed)
	}
}
