package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in registrar.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader([]any{"", "Network", "Chain ID", "RPC URL"})
	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = "*"
		}
		if network.Error != nil {
			t.AppendRow([]any{marker, network.Name, color.New(color.FgRed).Sprint("error"), network.Error.Error()})
			continue
		}
		t.AppendRow([]any{marker, network.Name, network.ChainID, network.RPCURL})
	}
	t.Render()
	return nil
}

// RenderUseNetwork renders a saved network selection
func (r *NetworksRenderer) RenderUseNetwork(result *usecase.UseNetworkResult) error {
	if result.Current == "" {
		fmt.Fprintln(r.out, FormatSuccess("Cleared the default network"))
		return nil
	}
	msg := fmt.Sprintf("Using network %s", result.Current)
	if result.ChainID != 0 {
		msg += fmt.Sprintf(" (chain %d)", result.ChainID)
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	if result.Previous != "" && result.Previous != result.Current {
		field(r.out, "Previous", result.Previous)
	}
	field(r.out, "Saved to", result.Path)
	return nil
}
