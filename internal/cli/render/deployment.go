package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// DeploymentRenderer renders deploy and show results
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeploy renders the outcome of a deployment, including the recovery
// hint when the record could not be written
func (r *DeploymentRenderer) RenderDeploy(result *usecase.DeployContractResult) error {
	rec := result.Record
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", rec.ContractName)))
	fmt.Fprintln(r.out)
	field(r.out, "Address", addressStyle.Sprint(rec.Address))
	field(r.out, "Network", rec.NetworkID)
	if rec.TransactionHash != "" {
		field(r.out, "Tx", hashStyle.Sprint(rec.TransactionHash))
	}
	if rec.BlockNumber != 0 {
		field(r.out, "Block", rec.BlockNumber)
	}
	if rec.Deployer != "" {
		field(r.out, "Deployer", rec.Deployer)
	}

	if result.MetadataErr == nil {
		field(r.out, "Metadata", result.MetadataLocation)
	}
	if result.ArtifactUpdated {
		field(r.out, "Artifact", "networks table updated")
	}

	if result.ArtifactErr != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(result.ArtifactErr.Error()))
	}

	if result.MetadataErr != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, color.New(color.FgRed).Sprintf("❌ %v", result.MetadataErr))
		fmt.Fprintln(r.out, "   The contract is deployed, but clients using the static source cannot find it.")
		fmt.Fprintf(r.out, "   Recreate %s by hand with address %s and network id %d,\n", result.MetadataLocation, rec.Address, rec.NetworkID)
		fmt.Fprintln(r.out, "   or run clients with --source network-lookup.")
	}
	return nil
}

// RenderShow renders the resolved deployment
func (r *DeploymentRenderer) RenderShow(result *usecase.ShowDeploymentResult) error {
	rec := result.Record
	name := rec.ContractName
	if name == "" {
		name = "Contract"
	}

	headerStyle.Fprintf(r.out, "%s\n", name)
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	field(r.out, "Address", addressStyle.Sprint(rec.Address))
	field(r.out, "Network", rec.NetworkID)
	field(r.out, "Source", Title(string(result.Source)))
	if rec.TransactionHash != "" {
		field(r.out, "Tx", hashStyle.Sprint(rec.TransactionHash))
	}
	if !rec.DeployedAt.IsZero() {
		field(r.out, "Deployed", rec.DeployedAt.Format("2006-01-02 15:04:05 MST"))
	}
	switch {
	case result.Owner != nil:
		field(r.out, "Owner", result.Owner.Hex())
	case result.OwnerErr != nil:
		field(r.out, "Owner", color.New(color.FgRed).Sprintf("unavailable (%v)", result.OwnerErr))
	}

	fmt.Fprintln(r.out)
	t := newTable(r.out)
	t.AppendHeader([]any{"Methods", "Events"})
	rows := len(result.Methods)
	if len(result.Events) > rows {
		rows = len(result.Events)
	}
	for i := 0; i < rows; i++ {
		var method, event string
		if i < len(result.Methods) {
			method = result.Methods[i]
		}
		if i < len(result.Events) {
			event = result.Events[i]
		}
		t.AppendRow([]any{method, event})
	}
	t.Render()
	return nil
}
